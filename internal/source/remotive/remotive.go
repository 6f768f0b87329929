package remotive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/util"
)

const defaultBaseURL = "https://remotive.com/api"

type Config struct {
	BaseURL string // override for tests
	Limit   int
}

type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return "remotive" }

// Public API: https://remotive.com/api/remote-jobs?search=<term>
// Free-text search, remote-only catalog.
type jobsResponse struct {
	JobCount int   `json:"job-count"`
	Jobs     []job `json:"jobs"`
}

type job struct {
	ID                        int64    `json:"id"`
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	Category                  string   `json:"category"`
	Tags                      []string `json:"tags"`
	PublicationDate           string   `json:"publication_date"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	Description               string   `json:"description"` // html
}

func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.Listing, error) {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(c.cfg.Limit))
	if q.Term != "" {
		v.Set("search", q.Term)
	}
	u := c.cfg.BaseURL + "/remote-jobs?" + v.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	req.Header.Set("User-Agent", "JobScout/1.0 (+local)")
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, u); err != nil {
			return nil, err
		}
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotive get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("remotive status %d", res.StatusCode)
	}

	var jr jobsResponse
	if err := json.NewDecoder(res.Body).Decode(&jr); err != nil {
		return nil, fmt.Errorf("remotive decode: %w", err)
	}

	now := time.Now()
	out := make([]domain.Listing, 0, len(jr.Jobs))
	for _, j := range jr.Jobs {
		if j.ID == 0 || j.Title == "" || j.URL == "" || j.CompanyName == "" {
			continue
		}
		tags := j.Tags
		if j.Category != "" {
			tags = append(tags, j.Category)
		}
		l := domain.Listing{
			Title:           j.Title,
			Organization:    j.CompanyName,
			LocationText:    j.CandidateRequiredLocation,
			IsRemote:        true, // remote-only board
			Tags:            tags,
			DescriptionText: util.StripHTML(j.Description),
			URL:             j.URL,
			PostedAt:        parseDate(j.PublicationDate),
		}
		out = append(out, util.Finalize(l, c.Name(), strconv.FormatInt(j.ID, 10), now))
	}
	return out, nil
}

// publication_date comes back as "2023-02-08T22:49:33" (no zone).
func parseDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
