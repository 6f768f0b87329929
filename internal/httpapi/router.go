package httpapi

import (
	"net/http"

	"jobscout-engine/internal/aggregate"
)

type Deps struct {
	Jobs            *aggregate.Aggregator
	Recommendations *aggregate.Aggregator
	Courses         *aggregate.Aggregator
}

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	lh := ListingsHandler{
		Jobs:            d.Jobs,
		Recommendations: d.Recommendations,
		Courses:         d.Courses,
	}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.Search,
	}))
	mux.HandleFunc("/recommendations", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.Recommend,
	}))
	mux.HandleFunc("/courses", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.CourseSearch,
	}))

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	return mux
}
