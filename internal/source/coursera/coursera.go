package coursera

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

const defaultBaseURL = "https://api.coursera.org/api"

type Config struct {
	BaseURL string
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
		cfg.Limit = 50
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return "coursera" }

type catalogResponse struct {
	Elements []course `json:"elements"`
}

type course struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.Listing, error) {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(c.cfg.Limit))
	v.Set("fields", "slug,description")
	if q.Term != "" {
		v.Set("q", "search")
		v.Set("query", q.Term)
	}
	u := c.cfg.BaseURL + "/courses.v1?" + v.Encode()

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
		return nil, fmt.Errorf("coursera get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("coursera status %d", res.StatusCode)
	}

	var cr catalogResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("coursera decode: %w", err)
	}

	now := time.Now()
	out := make([]domain.Listing, 0, len(cr.Elements))
	for _, e := range cr.Elements {
		if e.ID == "" || e.Name == "" || e.Slug == "" {
			continue
		}
		l := domain.Listing{
			Title:           e.Name,
			Organization:    "Coursera",
			IsRemote:        true, // online course
			Tags:            []string{"course"},
			DescriptionText: util.CleanText(e.Description),
			URL:             "https://www.coursera.org/learn/" + e.Slug,
		}
		out = append(out, util.Finalize(l, c.Name(), e.ID, now))
	}
	return out, nil
}
