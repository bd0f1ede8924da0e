package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ZENROLL_API_URL", "ZENROLL_API_KEY", "ZENROLL_TERMS_URL",
		"ZENROLL_MIN_AGE", "ZENROLL_LOG_FILE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.TermsURL != DefaultTermsURL {
		t.Errorf("TermsURL = %q, want default", cfg.TermsURL)
	}
	if cfg.MinAge != 18 {
		t.Errorf("MinAge = %d, want 18", cfg.MinAge)
	}
	if cfg.SubmitConfigured() {
		t.Error("no api url should mean submit is not configured")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ZENROLL_API_URL", "https://api.example.com")
	t.Setenv("ZENROLL_API_KEY", "key")
	t.Setenv("ZENROLL_TERMS_URL", "https://example.com/terms")
	t.Setenv("ZENROLL_MIN_AGE", "21")
	t.Setenv("ZENROLL_LOG_FILE", "/tmp/zenroll.log")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Config{
		APIURL:   "https://api.example.com",
		APIKey:   "key",
		TermsURL: "https://example.com/terms",
		MinAge:   21,
		LogFile:  "/tmp/zenroll.log",
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
	if !cfg.SubmitConfigured() {
		t.Error("api url set should mean submit is configured")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	data := "ZENROLL_API_URL=https://dotenv.example.com\nZENROLL_MIN_AGE=19\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("ZENROLL_API_URL")
		os.Unsetenv("ZENROLL_MIN_AGE")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://dotenv.example.com" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.MinAge != 19 {
		t.Errorf("MinAge = %d, want 19", cfg.MinAge)
	}
}

func TestLoadEnvOverridesDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ZENROLL_API_URL", "https://env.example.com")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ZENROLL_API_URL=https://dotenv.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://env.example.com" {
		t.Errorf("APIURL = %q, want the environment value", cfg.APIURL)
	}
}

func TestLoadInvalidMinAge(t *testing.T) {
	tests := []string{"abc", "-1", "1.5"}
	for _, v := range tests {
		t.Run(v, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ZENROLL_MIN_AGE", v)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Errorf("expected error for ZENROLL_MIN_AGE=%q", v)
			}
		})
	}
}
