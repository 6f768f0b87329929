package jobicy

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

const defaultBaseURL = "https://jobicy.com/api/v2"

type Config struct {
	BaseURL string
	Count   int
}

// Client is the region-scoped provider: the aggregator only invokes it when
// region detection resolved the user's location to one of jobicy's geo
// buckets, passed through Query.Region.
type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Count <= 0 {
		cfg.Count = 50
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return "jobicy" }

type jobsResponse struct {
	Jobs []job `json:"jobs"`
}

type job struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	JobTitle    string   `json:"jobTitle"`
	CompanyName string   `json:"companyName"`
	JobGeo      string   `json:"jobGeo"`
	JobIndustry []string `json:"jobIndustry"`
	JobLevel    string   `json:"jobLevel"`
	PubDate     string   `json:"pubDate"`
	JobExcerpt  string   `json:"jobExcerpt"`
}

func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.Listing, error) {
	v := url.Values{}
	v.Set("count", strconv.Itoa(c.cfg.Count))
	if q.Region != "" {
		v.Set("geo", q.Region)
	}
	if q.Term != "" {
		v.Set("tag", q.Term)
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
		return nil, fmt.Errorf("jobicy get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("jobicy status %d", res.StatusCode)
	}

	var jr jobsResponse
	if err := json.NewDecoder(res.Body).Decode(&jr); err != nil {
		return nil, fmt.Errorf("jobicy decode: %w", err)
	}

	now := time.Now()
	out := make([]domain.Listing, 0, len(jr.Jobs))
	for _, j := range jr.Jobs {
		if j.ID == 0 || j.JobTitle == "" || j.URL == "" || j.CompanyName == "" {
			continue
		}
		var posted time.Time
		if t, err := time.Parse("2006-01-02 15:04:05", j.PubDate); err == nil {
			posted = t
		}
		loc := j.JobGeo
		l := domain.Listing{
			Title:           j.JobTitle,
			Organization:    j.CompanyName,
			LocationText:    loc,
			IsRemote:        true, // remote board, geo scopes eligibility
			Tags:            j.JobIndustry,
			DescriptionText: util.StripHTML(j.JobExcerpt),
			URL:             j.URL,
			PostedAt:        posted,
		}
		out = append(out, util.Finalize(l, c.Name(), strconv.FormatInt(j.ID, 10), now))
	}
	return out, nil
}
