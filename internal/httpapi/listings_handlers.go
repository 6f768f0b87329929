package httpapi

import (
	"net/http"

	"jobscout-engine/internal/aggregate"
	"jobscout-engine/internal/domain"
)

// ListingsHandler serves the three aggregation flows. All endpoints are
// read-only and always answer 200 with a (possibly empty) JSON array —
// "no results" is a valid outcome, not an error.
type ListingsHandler struct {
	Jobs            *aggregate.Aggregator
	Recommendations *aggregate.Aggregator
	Courses         *aggregate.Aggregator
}

func (h ListingsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recs := h.Jobs.Aggregate(r.Context(), aggregate.Request{
		Query:    q.Get("query"),
		Location: q.Get("location"),
		Skills:   splitList(q["skills"]),
	})
	WriteJSON(w, http.StatusOK, nonNil(recs))
}

func (h ListingsHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recs := h.Recommendations.Aggregate(r.Context(), aggregate.Request{
		Query:  q.Get("title"),
		Skills: splitList(q["skills"]),
	})
	WriteJSON(w, http.StatusOK, nonNil(recs))
}

func (h ListingsHandler) CourseSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recs := h.Courses.Aggregate(r.Context(), aggregate.Request{
		Query:  q.Get("query"),
		Skills: splitList(q["skills"]),
	})
	WriteJSON(w, http.StatusOK, nonNil(recs))
}

func nonNil(recs []domain.Listing) []domain.Listing {
	if recs == nil {
		return []domain.Listing{}
	}
	return recs
}
