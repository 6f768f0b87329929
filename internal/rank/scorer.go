package rank

import "jobscout-engine/internal/domain"

type Scorer interface {
	Score(l domain.Listing) float64
}
