package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Setenv("WPE_API_USER", "")
	t.Setenv("WPE_API_PASS", "")

	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "https://api.wpengineapi.com/v1" {
			t.Errorf("expected default base URL, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "./wpec.db" {
			t.Errorf("expected database path ./wpec.db, got %s", config.Database.Path)
		}

		if config.Console.PageSize != 10 {
			t.Errorf("expected page size 10, got %d", config.Console.PageSize)
		}

		if config.HasCredentials() {
			t.Error("default config should not carry credentials")
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

		if config.API.BaseURL != DefaultConfig().API.BaseURL {
			t.Errorf("created config base URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://api.example.test/v1"
username = "file_user"
password = "file_pass"
rate_limit = 2.5

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[console]
page_size = 25
log_file = "/tmp/console.log"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://api.example.test/v1" {
			t.Errorf("expected custom base URL, got %s", config.API.BaseURL)
		}
		if config.API.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.API.RateLimit)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Console.PageSize != 25 {
			t.Errorf("expected page size 25, got %d", config.Console.PageSize)
		}
		if !config.HasCredentials() {
			t.Error("expected credentials from file")
		}
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv("WPE_API_USER", "env_user")
		t.Setenv("WPE_API_PASS", "env_pass")

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		testConfig := `[api]
base_url = "https://api.example.test/v1"
username = "file_user"
password = "file_pass"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.Username != "env_user" || config.API.Password != "env_pass" {
			t.Errorf("expected env credentials to win, got %s/%s", config.API.Username, config.API.Password)
		}
	})
}
