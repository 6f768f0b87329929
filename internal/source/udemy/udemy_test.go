package udemy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/source"
)

const coursesBody = `{
  "results": [
    {
      "id": 4321,
      "title": "Go: The Complete Guide",
      "url": "/course/go-the-complete-guide/",
      "headline": "Master Go from scratch.",
      "visible_instructors": [{"display_name": "Jane Moreno"}]
    },
    {
      "id": 0,
      "title": "Broken",
      "url": ""
    }
  ]
}`

func TestFetchWithoutCredentialsStaysDormant(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil)
	assert.False(t, c.Enabled())

	got, err := c.Fetch(context.Background(), source.Query{Term: "go"})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, atomic.LoadInt64(&hits))
}

func TestFetchParsesWithBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api-2.0/courses/", r.URL.Path)
		assert.Equal(t, "go", r.URL.Query().Get("search"))
		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "cid", id)
		assert.Equal(t, "csecret", secret)
		_, _ = w.Write([]byte(coursesBody))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, ClientID: "cid", ClientSecret: "csecret"}, nil)
	got, err := c.Fetch(context.Background(), source.Query{Term: "go"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	l := got[0]
	assert.Equal(t, "udemy_4321", l.ID)
	assert.Equal(t, "Go: The Complete Guide", l.Title)
	assert.Equal(t, "Jane Moreno", l.Organization, "first instructor becomes the organization")
	assert.Equal(t, "https://www.udemy.com/course/go-the-complete-guide/", l.URL)
	assert.Equal(t, "Master Go from scratch.", l.DescriptionText)
}
