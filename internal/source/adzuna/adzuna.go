package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/util"
)

const defaultBaseURL = "https://api.adzuna.com/v1/api"

// Config carries the optional API credentials. With either one missing the
// client stays dormant: Fetch returns an empty list without touching the
// network.
type Config struct {
	BaseURL string
	AppID   string
	AppKey  string
	Country string // adzuna country slug in the endpoint path
	PerPage int
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
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 50
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return "adzuna" }

func (c *Client) Enabled() bool { return c.cfg.AppID != "" && c.cfg.AppKey != "" }

type searchResponse struct {
	Results []result `json:"results"`
}

type result struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	RedirectURL string `json:"redirect_url"`
	Created     string `json:"created"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Category struct {
		Label string `json:"label"`
	} `json:"category"`
}

func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.Listing, error) {
	if !c.Enabled() {
		return nil, nil
	}

	v := url.Values{}
	v.Set("app_id", c.cfg.AppID)
	v.Set("app_key", c.cfg.AppKey)
	v.Set("results_per_page", fmt.Sprint(c.cfg.PerPage))
	v.Set("content-type", "application/json")
	if q.Term != "" {
		v.Set("what", q.Term)
	}
	if q.Location != "" {
		v.Set("where", q.Location)
	}
	u := fmt.Sprintf("%s/jobs/%s/search/1?%s", c.cfg.BaseURL, url.PathEscape(c.cfg.Country), v.Encode())

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
		return nil, fmt.Errorf("adzuna get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("adzuna status %d", res.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("adzuna decode: %w", err)
	}

	now := time.Now()
	out := make([]domain.Listing, 0, len(sr.Results))
	for _, r := range sr.Results {
		if r.ID == "" || r.Title == "" || r.RedirectURL == "" || r.Company.DisplayName == "" {
			continue
		}
		var tags []string
		if r.Category.Label != "" {
			tags = append(tags, r.Category.Label)
		}
		var posted time.Time
		if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
			posted = t
		}
		l := domain.Listing{
			Title:           r.Title,
			Organization:    r.Company.DisplayName,
			LocationText:    r.Location.DisplayName,
			Tags:            tags,
			DescriptionText: util.CleanText(r.Description),
			URL:             r.RedirectURL,
			PostedAt:        posted,
		}
		out = append(out, util.Finalize(l, c.Name(), r.ID, now))
	}
	return out, nil
}
