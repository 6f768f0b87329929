package themuse

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

const defaultBaseURL = "https://www.themuse.com/api/public"

const softFilterMin = 5

// The Muse only filters by its own category taxonomy, not free text. We map
// query words onto the nearest category and soft-filter the rest client
// side.
var categoryByKeyword = []struct {
	keyword  string
	category string
}{
	{"software", "Software Engineering"},
	{"engineer", "Software Engineering"},
	{"developer", "Software Engineering"},
	{"backend", "Software Engineering"},
	{"frontend", "Software Engineering"},
	{"data", "Data and Analytics"},
	{"analyst", "Data and Analytics"},
	{"design", "Design and UX"},
	{"ux", "Design and UX"},
	{"product", "Product Management"},
	{"project", "Project Management"},
	{"marketing", "Marketing"},
	{"sales", "Sales"},
	{"finance", "Accounting and Finance"},
	{"recruiter", "Recruiting and HR"},
}

type Config struct {
	BaseURL string
	Pages   int // result pages to pull per fetch
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
	if cfg.Pages <= 0 {
		cfg.Pages = 2
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return "themuse" }

type jobsResponse struct {
	PageCount int   `json:"page_count"`
	Results   []job `json:"results"`
}

type job struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
	Locations []struct {
		Name string `json:"name"`
	} `json:"locations"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	PublicationDate time.Time `json:"publication_date"`
	Contents        string    `json:"contents"` // html
	Refs            struct {
		LandingPage string `json:"landing_page"`
	} `json:"refs"`
}

func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.Listing, error) {
	category := CategoryFor(q.Term)

	var out []domain.Listing
	now := time.Now()
	for page := 1; page <= c.cfg.Pages; page++ {
		batch, pages, err := c.fetchPage(ctx, category, page, now)
		if err != nil {
			// keep whatever earlier pages yielded
			if len(out) > 0 {
				break
			}
			return nil, err
		}
		out = append(out, batch...)
		if pages > 0 && page >= pages {
			break
		}
	}

	if category == "" {
		// No taxonomy match: the pull was uncategorized, narrow client side.
		out = util.SoftFilter(out, q.Term, softFilterMin)
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, category string, page int, now time.Time) ([]domain.Listing, int, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if category != "" {
		v.Set("category", category)
	}
	u := c.cfg.BaseURL + "/jobs?" + v.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	req.Header.Set("User-Agent", "JobScout/1.0 (+local)")
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, u); err != nil {
			return nil, 0, err
		}
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("themuse get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, 0, fmt.Errorf("themuse status %d", res.StatusCode)
	}

	var jr jobsResponse
	if err := json.NewDecoder(res.Body).Decode(&jr); err != nil {
		return nil, 0, fmt.Errorf("themuse decode: %w", err)
	}

	out := make([]domain.Listing, 0, len(jr.Results))
	for _, j := range jr.Results {
		if j.ID == 0 || j.Name == "" || j.Refs.LandingPage == "" || j.Company.Name == "" {
			continue
		}
		var locs, tags []string
		for _, loc := range j.Locations {
			if loc.Name != "" {
				locs = append(locs, loc.Name)
			}
		}
		for _, cat := range j.Categories {
			if cat.Name != "" {
				tags = append(tags, cat.Name)
			}
		}
		l := domain.Listing{
			Title:           j.Name,
			Organization:    j.Company.Name,
			LocationText:    strings.Join(locs, ", "),
			Tags:            tags,
			DescriptionText: util.StripHTML(j.Contents),
			URL:             j.Refs.LandingPage,
			PostedAt:        j.PublicationDate,
		}
		out = append(out, util.Finalize(l, c.Name(), strconv.FormatInt(j.ID, 10), now))
	}
	return out, jr.PageCount, nil
}

// CategoryFor maps an effective query onto The Muse's taxonomy; "" means
// no match (fetch uncategorized and soft-filter instead).
func CategoryFor(term string) string {
	for _, word := range strings.Fields(strings.ToLower(term)) {
		for _, m := range categoryByKeyword {
			if word == m.keyword {
				return m.category
			}
		}
	}
	return ""
}
