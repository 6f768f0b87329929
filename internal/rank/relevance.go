package rank

import (
	"sort"
	"strings"

	"jobscout-engine/internal/domain"
)

// Scoring weights. Deliberately additive and boolean-triggered so any
// record's rank can be explained from its fields; keep it that way.
const (
	skillWeight  = 3 // per matched skill, at most once per skill
	titleWeight  = 5 // original query appears in the title
	remoteWeight = 1
)

// RelevanceScorer scores a listing against the user's declared skills and
// their query. The title bonus fires on either the original query or its
// normalized term: a title rarely carries the seniority filler the raw
// query does. SourceWeights is an optional fixed provider-quality bump,
// zero when unset.
type RelevanceScorer struct {
	Skills        []string
	OriginalQuery string
	EffectiveTerm string
	SourceWeights map[string]float64
}

func (s RelevanceScorer) Score(l domain.Listing) float64 {
	blob := strings.ToLower(l.Title + " " + l.DescriptionText + " " + strings.Join(l.Tags, " "))
	title := strings.ToLower(l.Title)
	q := strings.ToLower(strings.TrimSpace(s.OriginalQuery))
	term := strings.ToLower(strings.TrimSpace(s.EffectiveTerm))

	score := 0.0
	seen := map[string]bool{}
	for _, sk := range s.Skills {
		sk = strings.ToLower(strings.TrimSpace(sk))
		if sk == "" || seen[sk] {
			continue
		}
		seen[sk] = true
		if strings.Contains(blob, sk) {
			score += skillWeight
		}
	}
	if (q != "" && strings.Contains(title, q)) || (term != "" && strings.Contains(title, term)) {
		score += titleWeight
	}
	if l.IsRemote {
		score += remoteWeight
	}
	score += s.SourceWeights[l.Source]
	return score
}

// Rank computes every record's score and sorts descending. The sort is
// stable: ties keep their input order. Zero-score records stay in; ranking,
// not filtering, surfaces relevance.
func Rank(records []domain.Listing, s Scorer) []domain.Listing {
	for i := range records {
		records[i].RelevanceScore = s.Score(records[i])
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RelevanceScore > records[j].RelevanceScore
	})
	return records
}
