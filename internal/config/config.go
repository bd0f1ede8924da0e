// Package config loads zenroll settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultTermsURL is opened from the terms checkbox when none is configured.
const DefaultTermsURL = "https://prescryptive.com/terms-of-use/"

const defaultMinAge = 18

// Config holds all runtime settings.
type Config struct {
	APIURL   string
	APIKey   string
	TermsURL string
	MinAge   int
	LogFile  string
}

// SubmitConfigured reports whether records can be sent anywhere.
func (c Config) SubmitConfigured() bool {
	return c.APIURL != ""
}

// Load reads files (default ".env") into the environment, then builds the
// config. Missing files are ignored; variables already set win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		APIURL:   os.Getenv("ZENROLL_API_URL"),
		APIKey:   os.Getenv("ZENROLL_API_KEY"),
		TermsURL: os.Getenv("ZENROLL_TERMS_URL"),
		MinAge:   defaultMinAge,
		LogFile:  os.Getenv("ZENROLL_LOG_FILE"),
	}

	if cfg.TermsURL == "" {
		cfg.TermsURL = DefaultTermsURL
	}

	if v := os.Getenv("ZENROLL_MIN_AGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("ZENROLL_MIN_AGE: invalid value %q", v)
		}
		cfg.MinAge = n
	}

	return cfg, nil
}
