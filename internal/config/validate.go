package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills defaults for anything unset and flags values
// that cannot work. The returned copy is what the engine should run with.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	if out.App.Port == 0 {
		out.App.Port = 8185
	}
	if out.App.Port < 0 || out.App.Port > 65535 {
		res.addErr("app.port %d out of range", out.App.Port)
	}

	if out.Cache.SearchTTLHours <= 0 {
		out.Cache.SearchTTLHours = 3
	}
	if out.Cache.LearningTTLHours <= 0 {
		out.Cache.LearningTTLHours = 24
	}
	if out.Cache.RedisAddr == "" {
		res.addWarn("cache.redis_addr empty; running without a result cache")
	}

	if out.Limits.PerSourceTimeoutSeconds <= 0 {
		out.Limits.PerSourceTimeoutSeconds = 10
	}
	if out.Limits.OverallTimeoutSeconds <= 0 {
		out.Limits.OverallTimeoutSeconds = 18
	}
	if out.Limits.OverallTimeoutSeconds < out.Limits.PerSourceTimeoutSeconds {
		res.addWarn("limits.overall_timeout_seconds (%d) below per-source timeout (%d); slow sources will be cut off early",
			out.Limits.OverallTimeoutSeconds, out.Limits.PerSourceTimeoutSeconds)
	}
	if out.Limits.RequestsPerSecond <= 0 {
		out.Limits.RequestsPerSecond = 4
	}
	if out.Limits.Burst <= 0 {
		out.Limits.Burst = 4
	}

	if out.Search.MinResults <= 0 {
		out.Search.MinResults = 10
	}
	if out.Search.PageSize <= 0 {
		out.Search.PageSize = 50
	}
	if out.Recommend.MinResults <= 0 {
		out.Recommend.MinResults = 5
	}
	if out.Recommend.PageSize <= 0 {
		out.Recommend.PageSize = 20
	}
	if out.Recommend.DefaultTerm == "" {
		out.Recommend.DefaultTerm = "software engineer"
	}
	if out.Learning.MinResults <= 0 {
		out.Learning.MinResults = 5
	}
	if out.Learning.PageSize <= 0 {
		out.Learning.PageSize = 20
	}

	if out.Sources.Adzuna.Country == "" {
		out.Sources.Adzuna.Country = "us"
	}
	if out.Sources.Adzuna.Enabled && (out.Sources.Adzuna.AppID == "" || out.Sources.Adzuna.AppKey == "") {
		res.addWarn("sources.adzuna enabled without credentials; it will return nothing")
	}
	if out.Sources.Udemy.Enabled && (out.Sources.Udemy.ClientID == "" || out.Sources.Udemy.ClientSecret == "") {
		res.addWarn("sources.udemy enabled without credentials; it will return nothing")
	}

	if len(out.Regions) == 0 {
		out.Regions = DefaultRegions()
	}
	seen := map[string]bool{}
	for i, r := range out.Regions {
		geo := strings.ToLower(strings.TrimSpace(r.Geo))
		if geo == "" {
			res.addErr("regions[%d]: empty geo", i)
			continue
		}
		if seen[geo] {
			res.addWarn("regions: duplicate geo %q", geo)
		}
		seen[geo] = true
		if len(trimList(r.Match)) == 0 {
			res.addWarn("regions[%d] (%s): no match substrings, rule is dead", i, geo)
		}
	}

	return out, res
}

func trimList(xs []string) []string {
	var ys []string
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			ys = append(ys, x)
		}
	}
	return ys
}

// DefaultRegions covers the geo buckets jobicy scopes by. Country name
// first, then major cities — matched as lower-cased substrings.
func DefaultRegions() []RegionRule {
	return []RegionRule{
		{Geo: "usa", Match: []string{"united states", "usa", "u.s.", "new york", "san francisco", "seattle", "austin", "boston", "chicago", "los angeles"}},
		{Geo: "canada", Match: []string{"canada", "toronto", "vancouver", "montreal", "ottawa"}},
		{Geo: "uk", Match: []string{"united kingdom", "uk", "england", "london", "manchester", "edinburgh"}},
		{Geo: "germany", Match: []string{"germany", "berlin", "munich", "hamburg", "frankfurt"}},
		{Geo: "india", Match: []string{"india", "bangalore", "bengaluru", "mumbai", "delhi", "hyderabad", "pune", "chennai"}},
		{Geo: "australia", Match: []string{"australia", "sydney", "melbourne", "brisbane", "perth"}},
	}
}
