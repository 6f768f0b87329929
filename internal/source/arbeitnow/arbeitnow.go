package arbeitnow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/util"
)

const defaultBaseURL = "https://www.arbeitnow.com/api"

// SoftFilterMin is the smallest filtered set we will commit to; below it
// the unfiltered catalog is returned instead.
const SoftFilterMin = 5

type Config struct {
	BaseURL string
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
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return "arbeitnow" }

// The job-board API takes no search parameter at all; we pull the catalog
// and soft-filter client side.
type boardResponse struct {
	Data []job `json:"data"`
}

type job struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"` // html
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	JobTypes    []string `json:"job_types"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"` // unix seconds
}

func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.Listing, error) {
	u := c.cfg.BaseURL + "/job-board-api"

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
		return nil, fmt.Errorf("arbeitnow get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("arbeitnow status %d", res.StatusCode)
	}

	var br boardResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("arbeitnow decode: %w", err)
	}

	now := time.Now()
	out := make([]domain.Listing, 0, len(br.Data))
	for _, j := range br.Data {
		if j.Slug == "" || j.Title == "" || j.URL == "" || j.CompanyName == "" {
			continue
		}
		var posted time.Time
		if j.CreatedAt > 0 {
			posted = time.Unix(j.CreatedAt, 0)
		}
		l := domain.Listing{
			Title:           j.Title,
			Organization:    j.CompanyName,
			LocationText:    j.Location,
			IsRemote:        j.Remote,
			Tags:            append(j.Tags, j.JobTypes...),
			DescriptionText: util.StripHTML(j.Description),
			URL:             j.URL,
			PostedAt:        posted,
		}
		out = append(out, util.Finalize(l, c.Name(), j.Slug, now))
	}

	return util.SoftFilter(out, q.Term, SoftFilterMin), nil
}
