// Package config loads runtime configuration from the environment,
// with optional .env file support for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the CLI needs to reach the wiki and place media.
type Config struct {
	AppEnv    string
	SiteURL   string
	Email     string
	APIToken  string
	MediaRoot string
	RPS       int
}

// Load reads config from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppEnv:    env("APP_ENV", "prod"),
		SiteURL:   env("CONFLUENCE_SITE_URL", "https://example.atlassian.net"),
		Email:     env("CONFLUENCE_EMAIL", ""),
		APIToken:  env("CONFLUENCE_API_TOKEN", ""),
		MediaRoot: env("MEDIA_ROOT", "media"),
		RPS:       atoi("CONFLUENCE_RPS", 5),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
