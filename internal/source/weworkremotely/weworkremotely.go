package weworkremotely

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/util"
)

const defaultBaseURL = "https://weworkremotely.com"

const softFilterMin = 5

type Config struct {
	BaseURL string
}

// Scraper pulls the We Work Remotely board, which has no public JSON API;
// the listing index is plain HTML.
type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "weworkremotely" }

func (s *Scraper) Fetch(ctx context.Context, q source.Query) ([]domain.Listing, error) {
	u := s.cfg.BaseURL + "/remote-jobs"
	if q.Term != "" {
		u = s.cfg.BaseURL + "/remote-jobs/search?term=" + url.QueryEscape(q.Term)
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	req.Header.Set("User-Agent", "JobScout/1.0 (+local)")

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, u); err != nil {
			return nil, err
		}
	}
	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weworkremotely get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("weworkremotely status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("weworkremotely parse html: %w", err)
	}

	now := time.Now()
	seen := map[string]bool{}
	var out []domain.Listing

	doc.Find("section.jobs li").Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a[href*='/remote-jobs/']").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		slug := extractSlug(href)
		if slug == "" || seen[slug] {
			return
		}

		title := util.CleanText(li.Find(".title").First().Text())
		company := util.CleanText(li.Find(".company").First().Text())
		region := util.CleanText(li.Find(".region").First().Text())
		if title == "" || company == "" || looksLikeJunkTitle(title) {
			return
		}
		seen[slug] = true

		abs := href
		if strings.HasPrefix(href, "/") {
			abs = s.cfg.BaseURL + href
		}

		l := domain.Listing{
			Title:        title,
			Organization: company,
			LocationText: region,
			IsRemote:     true, // remote-only board
			URL:          abs,
		}
		out = append(out, util.Finalize(l, s.Name(), slug, now))
	})

	// The board's own search can be loose; narrow client side, but never
	// below the retention floor.
	if q.Term != "" {
		out = util.SoftFilter(out, q.Term, softFilterMin)
	}
	return out, nil
}

func extractSlug(href string) string {
	const marker = "/remote-jobs/"
	i := strings.Index(href, marker)
	if i < 0 {
		return ""
	}
	slug := href[i+len(marker):]
	if j := strings.IndexAny(slug, "/?#"); j >= 0 {
		slug = slug[:j]
	}
	if slug == "" || slug == "search" {
		return ""
	}
	return slug
}

func looksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return strings.Contains(l, "view all") || strings.Contains(l, "post a job")
}
