package domain

import "time"

// LocationUnknown is the display location used when a provider omits one.
const LocationUnknown = "Remote / Worldwide"

// Listing is the canonical, provider-agnostic record every source adapter
// maps into. Course providers produce the same shape (Organization is the
// institution, Tags carry skills/categories).
type Listing struct {
	ID             string    `json:"id"` // "<source>_<provider-native-id>"
	Title          string    `json:"title"`
	Organization   string    `json:"organization"`
	LocationText   string    `json:"locationText"`
	IsRemote       bool      `json:"isRemote"`
	Tags           []string  `json:"tags,omitempty"`
	DescriptionText string   `json:"descriptionText,omitempty"`
	URL            string    `json:"url"`
	PostedAt       time.Time `json:"postedAt"`
	Source         string    `json:"source"`

	// RelevanceScore is recomputed per request by the ranker, never cached
	// as a ranking input (rank order is what the cache preserves).
	RelevanceScore float64 `json:"relevanceScore"`
}
