package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"jobscout-engine/internal/aggregate"
	"jobscout-engine/internal/cache"
	"jobscout-engine/internal/config"
	"jobscout-engine/internal/httpapi"
	"jobscout-engine/internal/query"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/adzuna"
	"jobscout-engine/internal/source/arbeitnow"
	"jobscout-engine/internal/source/coursera"
	"jobscout-engine/internal/source/jobicy"
	"jobscout-engine/internal/source/remotive"
	"jobscout-engine/internal/source/themuse"
	"jobscout-engine/internal/source/udemy"
	"jobscout-engine/internal/source/util"
	"jobscout-engine/internal/source/weworkremotely"
)

func main() {
	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("JOBSCOUT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	config.OverlayEnv(&cfg)

	cfg, val := config.NormalizeAndValidate(cfg)
	for _, w := range val.Warnings {
		log.Printf("[config] warn: %s", w)
	}
	if !val.OK() {
		log.Fatalf("[config] invalid: %v", val.Errors)
	}

	// Cache is best-effort: without redis every request pays the full
	// fetch cost, nothing else changes.
	var store cache.Store = cache.Noop{}
	if cfg.Cache.RedisAddr != "" {
		r := cache.NewRedis(cfg.Cache.RedisAddr)
		defer r.Close()
		store = r
	}

	limiter := util.NewHostLimiter(cfg.Limits.RequestsPerSecond, cfg.Limits.Burst)
	norm := query.New(cfg.Query.Fillers)
	regions := aggregate.NewRegionDetector(toRegions(cfg.Regions))

	// Job sources. Slice order is the dedupe priority: earlier sources win
	// (title, organization) collisions.
	var jobSources, recSources, fallback []source.Source

	if cfg.Sources.Remotive.Enabled {
		c := remotive.New(remotive.Config{}, limiter)
		jobSources = append(jobSources, c)
		recSources = append(recSources, c)
		fallback = append(fallback, c)
	}
	if cfg.Sources.WeWorkRemotely.Enabled {
		c := weworkremotely.New(weworkremotely.Config{}, limiter)
		jobSources = append(jobSources, c)
		recSources = append(recSources, c)
	}
	if cfg.Sources.Arbeitnow.Enabled {
		c := arbeitnow.New(arbeitnow.Config{}, limiter)
		jobSources = append(jobSources, c)
		recSources = append(recSources, c)
		fallback = append(fallback, c)
	}
	if cfg.Sources.TheMuse.Enabled {
		jobSources = append(jobSources, themuse.New(themuse.Config{}, limiter))
	}
	if cfg.Sources.Adzuna.Enabled {
		jobSources = append(jobSources, adzuna.New(adzuna.Config{
			AppID:   cfg.Sources.Adzuna.AppID,
			AppKey:  cfg.Sources.Adzuna.AppKey,
			Country: cfg.Sources.Adzuna.Country,
		}, limiter))
	}

	// Region-scoped: joins the fan-out only when the location matches a
	// configured geo bucket.
	var regional []source.Source
	if cfg.Sources.Jobicy.Enabled {
		regional = append(regional, jobicy.New(jobicy.Config{}, limiter))
	}

	// Course sources for the learning flow.
	var courseSources, courseFallback []source.Source
	if cfg.Sources.Coursera.Enabled {
		c := coursera.New(coursera.Config{}, limiter)
		courseSources = append(courseSources, c)
		courseFallback = append(courseFallback, c)
	}
	if cfg.Sources.Udemy.Enabled {
		courseSources = append(courseSources, udemy.New(udemy.Config{
			ClientID:     cfg.Sources.Udemy.ClientID,
			ClientSecret: cfg.Sources.Udemy.ClientSecret,
		}, limiter))
	}

	perSource := time.Duration(cfg.Limits.PerSourceTimeoutSeconds) * time.Second
	overall := time.Duration(cfg.Limits.OverallTimeoutSeconds) * time.Second
	searchTTL := time.Duration(cfg.Cache.SearchTTLHours) * time.Hour
	learningTTL := time.Duration(cfg.Cache.LearningTTLHours) * time.Hour

	jobs := aggregate.New(jobSources, regional, fallback, store, regions, norm, cfg.SourceWeights, aggregate.Options{
		Namespace:        "jobs",
		MinResults:       cfg.Search.MinResults,
		PageSize:         cfg.Search.PageSize,
		TTL:              searchTTL,
		PerSourceTimeout: perSource,
		OverallTimeout:   overall,
		DefaultTerm:      cfg.Recommend.DefaultTerm,
	})
	recommendations := aggregate.New(recSources, nil, fallback, store, regions, norm, cfg.SourceWeights, aggregate.Options{
		Namespace:        "recs",
		MinResults:       cfg.Recommend.MinResults,
		PageSize:         cfg.Recommend.PageSize,
		TTL:              searchTTL,
		PerSourceTimeout: perSource,
		OverallTimeout:   overall,
		DefaultTerm:      cfg.Recommend.DefaultTerm,
	})
	courses := aggregate.New(courseSources, nil, courseFallback, store, regions, norm, cfg.SourceWeights, aggregate.Options{
		Namespace:        "courses",
		MinResults:       cfg.Learning.MinResults,
		PageSize:         cfg.Learning.PageSize,
		TTL:              learningTTL,
		PerSourceTimeout: perSource,
		OverallTimeout:   overall,
		DefaultTerm:      cfg.Recommend.DefaultTerm,
	})

	mux := httpapi.NewMux(httpapi.Deps{
		Jobs:            jobs,
		Recommendations: recommendations,
		Courses:         courses,
	})
	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Printf("api listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func toRegions(in []config.RegionRule) []aggregate.Region {
	out := make([]aggregate.Region, 0, len(in))
	for _, r := range in {
		out = append(out, aggregate.Region{Geo: r.Geo, Match: r.Match})
	}
	return out
}
