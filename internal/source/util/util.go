package util

import (
	"strings"
	"time"

	"jobscout-engine/internal/domain"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// StripHTML is a cheap tag remover for description blobs that arrive as
// HTML. The text is only ever substring-matched for scoring, so lossy is
// fine.
func StripHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return CleanText(b.String())
}

// InferRemote reports whether the location text reads as
// location-agnostic.
func InferRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.Contains(l, "remote") ||
		strings.Contains(l, "worldwide") ||
		strings.Contains(l, "anywhere")
}

// Finalize applies the canonical field defaults every adapter owes the
// aggregator: composed ID, location sentinel, remote inference, posted-at
// fallback.
func Finalize(l domain.Listing, source, nativeID string, now time.Time) domain.Listing {
	l.Source = source
	l.ID = source + "_" + strings.TrimSpace(nativeID)
	l.Title = CleanText(l.Title)
	l.Organization = CleanText(l.Organization)
	l.LocationText = CleanText(l.LocationText)
	if l.LocationText == "" {
		l.LocationText = domain.LocationUnknown
	}
	if !l.IsRemote {
		l.IsRemote = InferRemote(l.LocationText)
	}
	if l.PostedAt.IsZero() {
		l.PostedAt = now.UTC()
	}
	return l
}

// SoftFilter narrows listings to those matching term, but only commits to
// the narrowed set when it retains at least min records. A strict filter
// over a small upstream catalog must not starve the aggregator.
func SoftFilter(in []domain.Listing, term string, min int) []domain.Listing {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return in
	}
	var kept []domain.Listing
	for _, l := range in {
		blob := strings.ToLower(l.Title + " " + l.DescriptionText + " " + strings.Join(l.Tags, " "))
		if strings.Contains(blob, term) {
			kept = append(kept, l)
		}
	}
	if len(kept) < min {
		return in
	}
	return kept
}
