// Package query compresses verbose, real-world job titles into short
// provider-friendly search terms. Upstream search backends degrade badly on
// long multi-clause phrases, so less is more here.
package query

import (
	"log"
	"sort"
	"strings"
)

// DefaultFillers is the seniority/level vocabulary stripped from queries.
// Whole-word matches only; multi-word phrases are matched before single
// tokens. Overridable via config.
var DefaultFillers = []string{
	"entry level", "mid level", "new grad",
	"senior", "sr", "junior", "jr", "associate", "assoc",
	"intern", "internship", "trainee", "graduate", "grad",
	"entry", "staff", "principal", "lead", "level",
	"i", "ii", "iii", "iv", "v",
}

type Normalizer struct {
	phrases [][]string // filler token sequences, longest first
}

func New(fillers []string) *Normalizer {
	if len(fillers) == 0 {
		fillers = DefaultFillers
	}
	phrases := make([][]string, 0, len(fillers))
	for _, f := range fillers {
		toks := strings.Fields(strings.ToLower(f))
		if len(toks) > 0 {
			phrases = append(phrases, toks)
		}
	}
	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i]) > len(phrases[j])
	})
	return &Normalizer{phrases: phrases}
}

// Normalize lower-cases, strips filler tokens, collapses whitespace and
// caps the result at three words. It never returns an empty string for
// non-empty input: if stripping eats the whole query (or leaves fewer than
// four characters) the cleaned original is used instead.
func (n *Normalizer) Normalize(raw string) string {
	cleaned := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if cleaned == "" {
		return ""
	}

	stripped := strings.Join(n.strip(strings.Fields(cleaned)), " ")
	effective := stripped
	if len(stripped) < 4 {
		effective = cleaned
	}

	words := strings.Fields(effective)
	if len(words) > 3 {
		words = words[:3]
	}
	effective = strings.Join(words, " ")
	if effective == "" {
		effective = cleaned
	}

	if effective != cleaned {
		log.Printf("[query] raw=%q effective=%q", raw, effective)
	}
	return effective
}

func (n *Normalizer) strip(words []string) []string {
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if l := n.matchAt(words, i); l > 0 {
			i += l
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out
}

// matchAt reports the length of the longest filler phrase starting at
// words[i], or 0 if none matches.
func (n *Normalizer) matchAt(words []string, i int) int {
	for _, p := range n.phrases {
		if i+len(p) > len(words) {
			continue
		}
		hit := true
		for k, tok := range p {
			if words[i+k] != tok {
				hit = false
				break
			}
		}
		if hit {
			return len(p)
		}
	}
	return 0
}
