// Package aggregate fans a user query out to every applicable listing
// source concurrently, merges what survives, dedupes, ranks and caches the
// result. Partial (even total) source failure yields a thinner list, never
// an error.
package aggregate

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jobscout-engine/internal/cache"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/query"
	"jobscout-engine/internal/rank"
	"jobscout-engine/internal/source"
)

type Options struct {
	// Namespace scopes cache keys so search / recommendation / course flows
	// carry independent TTLs.
	Namespace string
	// MinResults is the fallback floor: under it, one broadened fetch fires.
	MinResults int
	PageSize   int
	TTL        time.Duration

	PerSourceTimeout time.Duration
	OverallTimeout   time.Duration

	// DefaultTerm substitutes a missing query (after the first skill).
	DefaultTerm string
}

func (o Options) withDefaults() Options {
	if o.Namespace == "" {
		o.Namespace = "jobs"
	}
	if o.PageSize <= 0 {
		o.PageSize = 50
	}
	if o.TTL <= 0 {
		o.TTL = 3 * time.Hour
	}
	if o.PerSourceTimeout <= 0 {
		o.PerSourceTimeout = 10 * time.Second
	}
	if o.OverallTimeout <= 0 {
		o.OverallTimeout = 18 * time.Second
	}
	if o.DefaultTerm == "" {
		o.DefaultTerm = "software engineer"
	}
	return o
}

// Aggregator owns one flow (jobs, recommendations, or courses). The
// source slice order is the fixed dedupe priority; regional sources join
// the fan-out only when region detection matches.
type Aggregator struct {
	sources  []source.Source
	regional []source.Source
	fallback []source.Source // broadened second pass, called with empty term
	store    cache.Store
	regions  *RegionDetector
	norm     *query.Normalizer
	weights  map[string]float64
	opts     Options
}

func New(sources, regional, fallback []source.Source, store cache.Store, regions *RegionDetector, norm *query.Normalizer, weights map[string]float64, opts Options) *Aggregator {
	if store == nil {
		store = cache.Noop{}
	}
	if norm == nil {
		norm = query.New(nil)
	}
	return &Aggregator{
		sources:  sources,
		regional: regional,
		fallback: fallback,
		store:    store,
		regions:  regions,
		norm:     norm,
		weights:  weights,
		opts:     opts.withDefaults(),
	}
}

// Request is the caller-supplied search. Skills and Location come from the
// profile layer as plain parameters; this engine never fetches profiles.
type Request struct {
	Query    string
	Location string
	Skills   []string
}

// Aggregate runs the whole flow: normalize, cache check, concurrent
// fan-out, dedupe, rank, at most one broadened fallback, truncate, cache
// write. It never fails; the worst outcome is an empty list.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) []domain.Listing {
	ctx, cancel := context.WithTimeout(ctx, a.opts.OverallTimeout)
	defer cancel()

	// A discovery tool always tries to return something: substitute a
	// sane default for a missing query instead of rejecting.
	if strings.TrimSpace(req.Query) == "" {
		req.Query = a.opts.DefaultTerm
		for _, sk := range req.Skills {
			if strings.TrimSpace(sk) != "" {
				req.Query = sk
				break
			}
		}
	}
	term := a.norm.Normalize(req.Query)

	geo, regionMatched := a.regions.Detect(req.Location)
	bucket := strings.ToLower(strings.TrimSpace(req.Location))
	if regionMatched {
		bucket = geo
	}

	key := cache.Key(a.opts.Namespace, term, bucket, skillsFingerprint(req.Skills))
	if recs, ok := a.store.Get(ctx, key); ok {
		log.Printf("[%s] cache hit term=%q region=%q", a.opts.Namespace, term, bucket)
		return recs
	}

	q := source.Query{Term: term, Skills: req.Skills, Location: req.Location}
	srcs := a.sources
	if regionMatched && len(a.regional) > 0 {
		q.Region = geo
		srcs = append(append([]source.Source{}, a.sources...), a.regional...)
	}

	merged := a.fanOut(ctx, srcs, q)
	scorer := rank.RelevanceScorer{
		Skills:        req.Skills,
		OriginalQuery: req.Query,
		EffectiveTerm: term,
		SourceWeights: a.weights,
	}
	ranked := rank.Rank(Dedupe(merged), scorer)

	// Minimum-count fallback: one broadened, unfiltered pass over the
	// highest-yield sources. Never recurses.
	if len(ranked) < a.opts.MinResults && len(a.fallback) > 0 {
		log.Printf("[%s] thin results (%d < %d), broadening term=%q",
			a.opts.Namespace, len(ranked), a.opts.MinResults, term)
		broad := a.fanOut(ctx, a.fallback, source.Query{
			Skills:   req.Skills,
			Location: req.Location,
			Region:   q.Region,
		})
		ranked = rank.Rank(Dedupe(append(ranked, broad...)), scorer)
	}

	if len(ranked) > a.opts.PageSize {
		ranked = ranked[:a.opts.PageSize]
	}

	a.store.Set(ctx, key, ranked, a.opts.TTL)
	log.Printf("[%s] term=%q region=%q results=%d", a.opts.Namespace, term, bucket, len(ranked))
	return ranked
}

// fanOut launches every source concurrently and joins on all of them —
// each gets its full timeout budget, failures are absorbed. Batches merge
// in source registration order so dedupe priority is reproducible no
// matter how the goroutines settle.
func (a *Aggregator) fanOut(ctx context.Context, srcs []source.Source, q source.Query) []domain.Listing {
	results := make([][]domain.Listing, len(srcs))

	var g errgroup.Group
	for i, s := range srcs {
		i, s := i, s
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, a.opts.PerSourceTimeout)
			defer cancel()

			listings, err := s.Fetch(fctx, q)
			if err != nil {
				log.Printf("[source:%s] fetch error: %v", s.Name(), err)
				return nil // best-effort: don't cancel siblings
			}
			log.Printf("[source:%s] fetched=%d term=%q", s.Name(), len(listings), q.Term)
			results[i] = listings
			return nil
		})
	}
	_ = g.Wait()

	var merged []domain.Listing
	for _, batch := range results {
		merged = append(merged, batch...)
	}
	return merged
}

// skillsFingerprint folds the leading skills into a stable cache-key part:
// first five, sorted, lower-cased.
func skillsFingerprint(skills []string) string {
	cleaned := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) > 5 {
		cleaned = cleaned[:5]
	}
	sort.Strings(cleaned)
	return strings.Join(cleaned, ",")
}
