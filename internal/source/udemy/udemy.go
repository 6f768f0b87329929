package udemy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/util"
)

const defaultBaseURL = "https://www.udemy.com"

// Config carries the affiliate API credentials. Like adzuna, missing
// credentials keep the client dormant (no network I/O).
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	PageSize     int
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
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return "udemy" }

func (c *Client) Enabled() bool { return c.cfg.ClientID != "" && c.cfg.ClientSecret != "" }

type coursesResponse struct {
	Results []course `json:"results"`
}

type course struct {
	ID                 int64  `json:"id"`
	Title              string `json:"title"`
	URL                string `json:"url"`
	Headline           string `json:"headline"`
	VisibleInstructors []struct {
		DisplayName string `json:"display_name"`
	} `json:"visible_instructors"`
}

func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.Listing, error) {
	if !c.Enabled() {
		return nil, nil
	}

	v := url.Values{}
	v.Set("page_size", strconv.Itoa(c.cfg.PageSize))
	if q.Term != "" {
		v.Set("search", q.Term)
	}
	u := c.cfg.BaseURL + "/api-2.0/courses/?" + v.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	req.Header.Set("User-Agent", "JobScout/1.0 (+local)")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, u); err != nil {
			return nil, err
		}
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("udemy get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("udemy status %d", res.StatusCode)
	}

	var cr coursesResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("udemy decode: %w", err)
	}

	now := time.Now()
	out := make([]domain.Listing, 0, len(cr.Results))
	for _, e := range cr.Results {
		if e.ID == 0 || e.Title == "" || e.URL == "" {
			continue
		}
		org := "Udemy"
		if len(e.VisibleInstructors) > 0 && e.VisibleInstructors[0].DisplayName != "" {
			org = e.VisibleInstructors[0].DisplayName
		}
		abs := e.URL
		if strings.HasPrefix(abs, "/") {
			abs = "https://www.udemy.com" + abs
		}
		l := domain.Listing{
			Title:           e.Title,
			Organization:    org,
			IsRemote:        true, // online course
			Tags:            []string{"course"},
			DescriptionText: util.CleanText(e.Headline),
			URL:             abs,
		}
		out = append(out, util.Finalize(l, c.Name(), strconv.FormatInt(e.ID, 10), now))
	}
	return out, nil
}
