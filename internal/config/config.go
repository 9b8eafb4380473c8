package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const apiMaxPageLimit = 250

// Fetcher holds configuration for the snapshot fetcher binary.
//
// APIKey may be empty at load time; the API client reports the auth
// failure at the first request, so a misconfigured run never gets as
// far as touching the output directory.
type Fetcher struct {
	APIKey        string
	BaseURL       string
	OutputDir     string
	PageLimit     int
	HTTPTimeout   time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// LoadFetcher builds a Fetcher config from environment variables.
func LoadFetcher() (*Fetcher, error) {
	c := &Fetcher{
		APIKey:        os.Getenv("CONGRESS_API_KEY"),
		BaseURL:       getEnv("CONGRESS_API_BASE_URL", "https://api.congress.gov/v3"),
		OutputDir:     getEnv("SNAPSHOT_OUTPUT_DIR", "data"),
		PageLimit:     getInt("FETCH_PAGE_LIMIT", 250),
		HTTPTimeout:   getDuration("FETCH_HTTP_TIMEOUT", "30s"),
		RetryAttempts: getInt("FETCH_RETRY_ATTEMPTS", 3),
		RetryDelay:    getDuration("FETCH_RETRY_DELAY", "2s"),
	}

	if c.PageLimit <= 0 {
		return nil, fmt.Errorf("FETCH_PAGE_LIMIT must be positive")
	}
	if c.PageLimit > apiMaxPageLimit {
		c.PageLimit = apiMaxPageLimit
	}
	if c.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("FETCH_HTTP_TIMEOUT must be positive")
	}
	if c.RetryAttempts <= 0 {
		return nil, fmt.Errorf("FETCH_RETRY_ATTEMPTS must be positive")
	}
	if c.RetryDelay < 0 {
		return nil, fmt.Errorf("FETCH_RETRY_DELAY cannot be negative")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
