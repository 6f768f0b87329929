package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Flow struct {
	MinResults int `yaml:"min_results"`
	PageSize   int `yaml:"page_size"`
}

type RegionRule struct {
	Geo   string   `yaml:"geo"`
	Match []string `yaml:"match"`
}

type SourceToggle struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Cache struct {
		RedisAddr        string `yaml:"redis_addr"` // empty disables caching
		SearchTTLHours   int    `yaml:"search_ttl_hours"`
		LearningTTLHours int    `yaml:"learning_ttl_hours"`
	} `yaml:"cache"`

	Limits struct {
		PerSourceTimeoutSeconds int     `yaml:"per_source_timeout_seconds"`
		OverallTimeoutSeconds   int     `yaml:"overall_timeout_seconds"`
		RequestsPerSecond       float64 `yaml:"requests_per_second"`
		Burst                   int     `yaml:"burst"`
	} `yaml:"limits"`

	Search    Flow `yaml:"search"`
	Recommend struct {
		Flow        `yaml:",inline"`
		DefaultTerm string `yaml:"default_term"`
	} `yaml:"recommend"`
	Learning Flow `yaml:"learning"`

	Query struct {
		Fillers []string `yaml:"fillers"` // empty means built-in vocabulary
	} `yaml:"query"`

	Regions []RegionRule `yaml:"regions"`

	Sources struct {
		Remotive       SourceToggle `yaml:"remotive"`
		WeWorkRemotely SourceToggle `yaml:"weworkremotely"`
		Arbeitnow      SourceToggle `yaml:"arbeitnow"`
		TheMuse        SourceToggle `yaml:"themuse"`
		Adzuna         struct {
			SourceToggle `yaml:",inline"`
			AppID        string `yaml:"app_id"`
			AppKey       string `yaml:"app_key"`
			Country      string `yaml:"country"`
		} `yaml:"adzuna"`
		Jobicy   SourceToggle `yaml:"jobicy"`
		Coursera SourceToggle `yaml:"coursera"`
		Udemy    struct {
			SourceToggle `yaml:",inline"`
			ClientID     string `yaml:"client_id"`
			ClientSecret string `yaml:"client_secret"`
		} `yaml:"udemy"`
	} `yaml:"sources"`

	// Optional fixed provider-quality weights added to every record's
	// relevance score.
	SourceWeights map[string]float64 `yaml:"source_weights"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
