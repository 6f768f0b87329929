package aggregate

import (
	"strings"

	"jobscout-engine/internal/domain"
)

// Dedupe drops later records sharing a lower-cased, trimmed
// (title, organization) pair. First occurrence wins, so merge order is the
// source priority order.
func Dedupe(in []domain.Listing) []domain.Listing {
	seen := make(map[string]bool, len(in))
	out := make([]domain.Listing, 0, len(in))
	for _, l := range in {
		k := strings.ToLower(strings.TrimSpace(l.Title)) + "\x00" + strings.ToLower(strings.TrimSpace(l.Organization))
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out
}
