package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()
		if config.Credentials.Spotify.RedirectURI != DefaultRedirectURI {
			t.Errorf("expected default redirect URI, got %s", config.Credentials.Spotify.RedirectURI)
		}
		if !config.Fetch.Features {
			t.Error("expected features enabled by default")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("parses TOML file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[credentials.spotify]
client_id = "cid"
client_secret = "secret"
redirect_uri = "http://localhost:9999/cb"

[cache]
token_path = "/tmp/token.json"
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Spotify.ClientID != "cid" {
				t.Errorf("expected client_id cid, got %s", config.Credentials.Spotify.ClientID)
			}
			if config.Cache.TokenPath != "/tmp/token.json" {
				t.Errorf("expected token path, got %s", config.Cache.TokenPath)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			if _, err := LoadConfig("/nonexistent/config.toml"); !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("malformed file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte("not [valid"), 0644); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected parse error")
			}
		})
	})

	t.Run("LoadEnv", func(t *testing.T) {
		t.Run("environment overrides file values", func(t *testing.T) {
			t.Setenv(EnvClientID, "env-id")
			t.Setenv(EnvClientSecret, "env-secret")
			t.Setenv(EnvRedirectURI, "http://localhost:7777/cb")

			config := DefaultConfig()
			config.Credentials.Spotify.ClientID = "file-id"

			if err := config.LoadEnv(""); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Spotify.ClientID != "env-id" {
				t.Errorf("expected env-id, got %s", config.Credentials.Spotify.ClientID)
			}
			if config.Credentials.Spotify.RedirectURI != "http://localhost:7777/cb" {
				t.Errorf("expected env redirect, got %s", config.Credentials.Spotify.RedirectURI)
			}
		})

		t.Run("empty environment keeps file values", func(t *testing.T) {
			t.Setenv(EnvClientID, "")
			t.Setenv(EnvClientSecret, "")
			t.Setenv(EnvRedirectURI, "")

			config := DefaultConfig()
			config.Credentials.Spotify.ClientID = "file-id"

			if err := config.LoadEnv(""); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Spotify.ClientID != "file-id" {
				t.Errorf("expected file-id, got %s", config.Credentials.Spotify.ClientID)
			}
		})

		t.Run("loads explicit env file", func(t *testing.T) {
			t.Setenv(EnvClientID, "")
			t.Setenv(EnvClientSecret, "")
			t.Setenv(EnvRedirectURI, "")

			path := filepath.Join(t.TempDir(), "creds.env")
			content := EnvClientID + "=dotenv-id\n" + EnvClientSecret + "=dotenv-secret\n"
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}

			config := DefaultConfig()
			if err := config.LoadEnv(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Spotify.ClientID != "dotenv-id" {
				t.Errorf("expected dotenv-id, got %s", config.Credentials.Spotify.ClientID)
			}
		})

		t.Run("missing explicit env file is an error", func(t *testing.T) {
			config := DefaultConfig()
			if err := config.LoadEnv("/nonexistent/creds.env"); err == nil {
				t.Error("expected error for missing env file")
			}
		})
	})

	t.Run("Validate", func(t *testing.T) {
		valid := func() *Config {
			config := DefaultConfig()
			config.Credentials.Spotify.ClientID = "cid"
			config.Credentials.Spotify.ClientSecret = "secret"
			return config
		}

		t.Run("accepts complete credentials", func(t *testing.T) {
			if err := valid().Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("missing client ID", func(t *testing.T) {
			config := valid()
			config.Credentials.Spotify.ClientID = ""
			err := config.Validate()
			if !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
			if err == nil || !strings.Contains(err.Error(), EnvClientID) {
				t.Errorf("expected error to name %s, got %v", EnvClientID, err)
			}
		})

		t.Run("missing client secret", func(t *testing.T) {
			config := valid()
			config.Credentials.Spotify.ClientSecret = ""
			if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("defaults empty redirect URI", func(t *testing.T) {
			config := valid()
			config.Credentials.Spotify.RedirectURI = ""
			if err := config.Validate(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Spotify.RedirectURI != DefaultRedirectURI {
				t.Errorf("expected default redirect, got %s", config.Credentials.Spotify.RedirectURI)
			}
		})
	})
}
