package aggregate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/cache"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source"
)

type fakeSource struct {
	name  string
	out   []domain.Listing
	err   error
	calls atomic.Int32

	mu    sync.Mutex
	lastQ source.Query
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context, q source.Query) ([]domain.Listing, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastQ = q
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeSource) last() source.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQ
}

type memStore struct {
	mu   sync.Mutex
	m    map[string][]domain.Listing
	sets int
}

func newMemStore() *memStore { return &memStore{m: map[string][]domain.Listing{}} }

func (s *memStore) Get(_ context.Context, key string) ([]domain.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, ok := s.m[key]
	return recs, ok
}

func (s *memStore) Set(_ context.Context, key string, recs []domain.Listing, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = recs
	s.sets++
}

func mk(src, title, org string) domain.Listing {
	return domain.Listing{
		ID:           src + "_" + strings.ToLower(title),
		Title:        title,
		Organization: org,
		URL:          "https://example.com/" + title,
		Source:       src,
	}
}

func mkN(src string, n int) []domain.Listing {
	out := make([]domain.Listing, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, mk(src, src+"-job-"+strings.Repeat("x", i+1), src+"-org-"+strings.Repeat("x", i+1)))
	}
	return out
}

func newAgg(t *testing.T, sources, regional, fallback []source.Source, store cache.Store, opts Options) *Aggregator {
	t.Helper()
	return New(sources, regional, fallback, store, NewRegionDetector(testRegions()), nil, nil, opts)
}

func testRegions() []Region {
	return []Region{
		{Geo: "germany", Match: []string{"germany", "berlin"}},
		{Geo: "usa", Match: []string{"united states", "new york"}},
	}
}

func TestAggregatePartialFailureTolerated(t *testing.T) {
	ok := &fakeSource{name: "a", out: mkN("a", 12)}
	down := &fakeSource{name: "b", err: errors.New("connection refused")}

	a := newAgg(t, []source.Source{ok, down}, nil, nil, nil, Options{MinResults: 10})
	got := a.Aggregate(context.Background(), Request{Query: "engineer"})

	assert.Len(t, got, 12)
	assert.EqualValues(t, 1, ok.calls.Load())
	assert.EqualValues(t, 1, down.calls.Load())
}

func TestAggregateAllSourcesFailedYieldsEmpty(t *testing.T) {
	down1 := &fakeSource{name: "a", err: errors.New("boom")}
	down2 := &fakeSource{name: "b", err: errors.New("boom")}

	a := newAgg(t, []source.Source{down1, down2}, nil, nil, nil, Options{MinResults: 10})
	got := a.Aggregate(context.Background(), Request{Query: "engineer"})

	assert.Empty(t, got)
}

func TestAggregateDedupeInvariant(t *testing.T) {
	first := &fakeSource{name: "a", out: []domain.Listing{
		mk("a", "Software Engineer", "Acme"),
		mk("a", "Data Analyst", "Acme"),
	}}
	second := &fakeSource{name: "b", out: []domain.Listing{
		mk("b", "software engineer", "ACME "), // same pair modulo case/space
		mk("b", "SRE", "Other"),
	}}

	a := newAgg(t, []source.Source{first, second}, nil, nil, nil, Options{MinResults: 1})
	got := a.Aggregate(context.Background(), Request{Query: "engineer"})

	seen := map[string]bool{}
	for _, l := range got {
		k := strings.ToLower(strings.TrimSpace(l.Title)) + "|" + strings.ToLower(strings.TrimSpace(l.Organization))
		assert.False(t, seen[k], "duplicate pair %q", k)
		seen[k] = true
	}
	assert.Len(t, got, 3)

	// first-registered source wins the collision
	for _, l := range got {
		if strings.EqualFold(l.Title, "Software Engineer") {
			assert.Equal(t, "a", l.Source)
		}
	}
}

func TestAggregateFallbackFiresWhenThin(t *testing.T) {
	thin := &fakeSource{name: "a", out: mkN("a", 3)}
	broad := &fakeSource{name: "broad", out: mkN("broad", 9)}

	a := newAgg(t, []source.Source{thin}, nil, []source.Source{broad}, nil, Options{MinResults: 10})
	got := a.Aggregate(context.Background(), Request{Query: "underwater welder"})

	assert.EqualValues(t, 1, broad.calls.Load())
	assert.Equal(t, "", broad.last().Term, "fallback must be an unfiltered catalog pull")
	// monotone: fallback only ever adds
	assert.GreaterOrEqual(t, len(got), 3)
	assert.Len(t, got, 12)
}

func TestAggregateFallbackSkippedWhenEnough(t *testing.T) {
	rich := &fakeSource{name: "a", out: mkN("a", 14)}
	broad := &fakeSource{name: "broad", out: mkN("broad", 9)}

	a := newAgg(t, []source.Source{rich}, nil, []source.Source{broad}, nil, Options{MinResults: 10})
	got := a.Aggregate(context.Background(), Request{Query: "software engineer"})

	assert.Len(t, got, 14)
	assert.EqualValues(t, 0, broad.calls.Load())
}

func TestAggregateTruncatesToPageSize(t *testing.T) {
	big := &fakeSource{name: "a", out: mkN("a", 30)}

	a := newAgg(t, []source.Source{big}, nil, nil, nil, Options{MinResults: 5, PageSize: 20})
	got := a.Aggregate(context.Background(), Request{Query: "engineer"})

	assert.Len(t, got, 20)
}

func TestAggregateCacheHitSkipsSources(t *testing.T) {
	src := &fakeSource{name: "a", out: mkN("a", 12)}
	store := newMemStore()

	a := newAgg(t, []source.Source{src}, nil, nil, store, Options{MinResults: 10})
	req := Request{Query: "Software Engineer", Location: "Berlin, Germany", Skills: []string{"Go"}}

	first := a.Aggregate(context.Background(), req)
	second := a.Aggregate(context.Background(), req)

	assert.EqualValues(t, 1, src.calls.Load(), "second request must not hit sources")
	assert.Equal(t, 1, store.sets)
	assert.Equal(t, first, second)
}

func TestAggregateCacheKeyVariesByRequest(t *testing.T) {
	src := &fakeSource{name: "a", out: mkN("a", 12)}
	store := newMemStore()

	a := newAgg(t, []source.Source{src}, nil, nil, store, Options{MinResults: 10})
	a.Aggregate(context.Background(), Request{Query: "engineer"})
	a.Aggregate(context.Background(), Request{Query: "engineer", Skills: []string{"Go"}})
	a.Aggregate(context.Background(), Request{Query: "engineer", Location: "Berlin"})

	assert.EqualValues(t, 3, src.calls.Load())
	assert.Equal(t, 3, store.sets)
}

func TestAggregateRegionalSourceGatedByLocation(t *testing.T) {
	base := &fakeSource{name: "a", out: mkN("a", 12)}
	regional := &fakeSource{name: "geo", out: mkN("geo", 4)}

	a := newAgg(t, []source.Source{base}, []source.Source{regional}, nil, nil, Options{MinResults: 5})

	a.Aggregate(context.Background(), Request{Query: "engineer", Location: "Remote (Mars)"})
	assert.EqualValues(t, 0, regional.calls.Load(), "no region match, regional source must be skipped")

	a.Aggregate(context.Background(), Request{Query: "engineer", Location: "Berlin, Germany"})
	require.EqualValues(t, 1, regional.calls.Load())
	assert.Equal(t, "germany", regional.last().Region)
}

func TestAggregateDefaultsMissingQuery(t *testing.T) {
	src := &fakeSource{name: "a", out: mkN("a", 12)}

	a := newAgg(t, []source.Source{src}, nil, nil, nil, Options{MinResults: 5, DefaultTerm: "software engineer"})

	a.Aggregate(context.Background(), Request{Skills: []string{"Python", "React"}})
	assert.Equal(t, "python", src.last().Term, "first skill substitutes a missing query")

	a.Aggregate(context.Background(), Request{})
	assert.Equal(t, "software engineer", src.last().Term, "generic default when there are no skills either")
}

func TestAggregateRanksBySpecScenario(t *testing.T) {
	src := &fakeSource{name: "a", out: []domain.Listing{
		{Title: "Data Analyst", Organization: "DataDrive Inc", IsRemote: true, URL: "u1"},
		{Title: "Software Engineer", Organization: "TechFlow Systems", DescriptionText: "Python shop", URL: "u2"},
	}}

	a := newAgg(t, []source.Source{src}, nil, nil, nil, Options{MinResults: 1})
	got := a.Aggregate(context.Background(), Request{
		Query:  "Associate Software Engineer Intern",
		Skills: []string{"Python", "React"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Software Engineer", got[0].Title)
	assert.Equal(t, 8.0, got[0].RelevanceScore)
	assert.Equal(t, "Data Analyst", got[1].Title)
	assert.Equal(t, 1.0, got[1].RelevanceScore)
}

func TestDedupeFirstWins(t *testing.T) {
	in := []domain.Listing{
		mk("a", "Engineer", "Acme"),
		mk("b", "engineer", " acme"),
		mk("b", "Engineer", "Other"),
	}
	out := Dedupe(in)
	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Source)
}

func TestRegionDetector(t *testing.T) {
	d := NewRegionDetector(testRegions())

	geo, ok := d.Detect("Berlin, Germany")
	assert.True(t, ok)
	assert.Equal(t, "germany", geo)

	geo, ok = d.Detect("New York, NY")
	assert.True(t, ok)
	assert.Equal(t, "usa", geo)

	_, ok = d.Detect("Atlantis")
	assert.False(t, ok)

	_, ok = d.Detect("")
	assert.False(t, ok)
}
