package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./scx.db" {
			t.Errorf("expected database path ./scx.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.API.BaseURL != "https://api.soundcloud.com" {
			t.Errorf("expected api base URL https://api.soundcloud.com, got %s", config.API.BaseURL)
		}

		if config.API.PageSize != 50 {
			t.Errorf("expected page size 50, got %d", config.API.PageSize)
		}

		if config.Credentials.SoundCloud.ClientID != "your_soundcloud_client_id" {
			t.Errorf("expected soundcloud client_id your_soundcloud_client_id, got %s", config.Credentials.SoundCloud.ClientID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[credentials.soundcloud]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:8080/callback"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Credentials.SoundCloud.ClientID != "test_client_id" {
			t.Errorf("expected client_id test_client_id, got %s", config.Credentials.SoundCloud.ClientID)
		}
		if config.API.PageSize != 50 {
			t.Errorf("expected unset page size to keep default 50, got %d", config.API.PageSize)
		}
	})

	t.Run("SaveConfig round trips", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Credentials.SoundCloud.ClientID = "saved_id"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Credentials.SoundCloud.ClientID != "saved_id" {
			t.Errorf("expected saved_id, got %s", loaded.Credentials.SoundCloud.ClientID)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvClientID, "env_id")
		t.Setenv(EnvDatabasePath, "/tmp/env.db")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Credentials.SoundCloud.ClientID != "env_id" {
			t.Errorf("expected env_id, got %s", config.Credentials.SoundCloud.ClientID)
		}
		if config.Database.Path != "/tmp/env.db" {
			t.Errorf("expected /tmp/env.db, got %s", config.Database.Path)
		}
		if config.Credentials.SoundCloud.ClientSecret != "your_soundcloud_client_secret" {
			t.Errorf("expected unset secret to keep default, got %s", config.Credentials.SoundCloud.ClientSecret)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		t.Run("missing file is not an error", func(t *testing.T) {
			if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("loads variables", func(t *testing.T) {
			envPath := filepath.Join(t.TempDir(), ".env")
			if err := os.WriteFile(envPath, []byte("SCX_REDIRECT_URI=http://example.test/cb\n"), 0644); err != nil {
				t.Fatalf("failed to write env file: %v", err)
			}
			t.Setenv(EnvRedirectURI, "")
			os.Unsetenv(EnvRedirectURI)

			if err := LoadEnv(envPath); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := os.Getenv(EnvRedirectURI); got != "http://example.test/cb" {
				t.Errorf("expected variable to be loaded, got %q", got)
			}
		})
	})
}
