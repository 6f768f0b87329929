package config

import "os"

// OverlayEnv layers environment variables over the file config. Secrets
// never have to live in the yaml; the env always wins when set.
func OverlayEnv(cfg *Config) {
	if v := os.Getenv("JOBSCOUT_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("JOBSCOUT_ADZUNA_APP_ID"); v != "" {
		cfg.Sources.Adzuna.AppID = v
	}
	if v := os.Getenv("JOBSCOUT_ADZUNA_APP_KEY"); v != "" {
		cfg.Sources.Adzuna.AppKey = v
	}
	if v := os.Getenv("JOBSCOUT_UDEMY_CLIENT_ID"); v != "" {
		cfg.Sources.Udemy.ClientID = v
	}
	if v := os.Getenv("JOBSCOUT_UDEMY_CLIENT_SECRET"); v != "" {
		cfg.Sources.Udemy.ClientSecret = v
	}
}
