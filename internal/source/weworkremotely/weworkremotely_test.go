package weworkremotely

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/source"
)

const boardHTML = `<html><body>
<section class="jobs">
  <ul>
    <li>
      <a href="/remote-jobs/acme-go-engineer">
        <span class="title">Go Engineer</span>
        <span class="company">Acme</span>
        <span class="region">Anywhere in the World</span>
      </a>
    </li>
    <li>
      <a href="/remote-jobs/acme-go-engineer?utm=feed">
        <span class="title">Go Engineer (duplicate)</span>
        <span class="company">Acme</span>
      </a>
    </li>
    <li>
      <a href="/remote-jobs/beta-rails-dev">
        <span class="title">Rails Developer</span>
        <span class="company">Beta</span>
        <span class="region">Europe Only</span>
      </a>
    </li>
    <li class="view-all">
      <a href="/remote-jobs/search?term=go">
        <span class="title">View all jobs</span>
        <span class="company">WWR</span>
      </a>
    </li>
  </ul>
</section>
</body></html>`

func TestFetchScrapesBoard(t *testing.T) {
	var gotPath, gotTerm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTerm = r.URL.Query().Get("term")
		_, _ = w.Write([]byte(boardHTML))
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL}, nil)
	got, err := s.Fetch(context.Background(), source.Query{Term: "engineer"})
	require.NoError(t, err)

	assert.Equal(t, "/remote-jobs/search", gotPath)
	assert.Equal(t, "engineer", gotTerm)

	// Soft filter stays under its floor, so everything parsed survives:
	// two real listings, with dupe slug and junk row dropped during parse.
	require.Len(t, got, 2)
	assert.Equal(t, "weworkremotely_acme-go-engineer", got[0].ID)
	assert.Equal(t, "Go Engineer", got[0].Title)
	assert.Equal(t, "Acme", got[0].Organization)
	assert.Equal(t, "Anywhere in the World", got[0].LocationText)
	assert.True(t, got[0].IsRemote)
	assert.Equal(t, srv.URL+"/remote-jobs/acme-go-engineer", got[0].URL)
	assert.Equal(t, "weworkremotely_beta-rails-dev", got[1].ID)
}

func TestFetchEmptyTermPullsIndex(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(boardHTML))
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL}, nil)
	got, err := s.Fetch(context.Background(), source.Query{})
	require.NoError(t, err)
	assert.Equal(t, "/remote-jobs", gotPath)
	assert.Len(t, got, 2)
}

func TestExtractSlug(t *testing.T) {
	assert.Equal(t, "acme-go-engineer", extractSlug("/remote-jobs/acme-go-engineer"))
	assert.Equal(t, "acme-go-engineer", extractSlug("https://weworkremotely.com/remote-jobs/acme-go-engineer?ref=x"))
	assert.Equal(t, "", extractSlug("/remote-jobs/search?term=go"))
	assert.Equal(t, "", extractSlug("/categories/remote-programming-jobs"))
	assert.Equal(t, "", extractSlug("/remote-jobs/"))
}
