package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Bot.Prefix != "." {
			t.Errorf("expected prefix '.', got %s", config.Bot.Prefix)
		}
		if config.Files.SettingsPath != "User.json" {
			t.Errorf("expected settings path User.json, got %s", config.Files.SettingsPath)
		}
		if config.Files.TokenPath != "Token.json" {
			t.Errorf("expected token path Token.json, got %s", config.Files.TokenPath)
		}
		if config.Relay.BatchSize != 4 {
			t.Errorf("expected batch size 4, got %d", config.Relay.BatchSize)
		}
		if config.Triage.MirrorURL != "https://tnktok.com/" {
			t.Errorf("expected mirror https://tnktok.com/, got %s", config.Triage.MirrorURL)
		}
		if config.Bot.CommandTimeout.Duration != 2*time.Minute {
			t.Errorf("expected command timeout 2m, got %v", config.Bot.CommandTimeout.Duration)
		}
		if config.Server.Enabled {
			t.Error("expected status server to be disabled by default")
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to validate, got %v", err)
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

		if config.Resolver.BaseURL != DefaultConfig().Resolver.BaseURL {
			t.Errorf("created config resolver URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[bot]
prefix = "!"
workers = 4
command_timeout = "30s"

[relay]
batch_size = 10
fetch_concurrency = 3

[files]
download_dir = "/tmp/faustok"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Bot.Prefix != "!" {
			t.Errorf("expected prefix '!', got %s", config.Bot.Prefix)
		}
		if config.Bot.CommandTimeout.Duration != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", config.Bot.CommandTimeout.Duration)
		}
		if config.Relay.BatchSize != 10 || config.Relay.FetchConcurrency != 3 {
			t.Errorf("unexpected relay config: %+v", config.Relay)
		}
		if config.Files.DownloadDir != "/tmp/faustok" {
			t.Errorf("expected download dir /tmp/faustok, got %s", config.Files.DownloadDir)
		}
		if config.Files.SettingsPath != "User.json" {
			t.Errorf("expected omitted keys to keep defaults, got settings path %s", config.Files.SettingsPath)
		}
	})

	t.Run("LoadConfig Rejects Invalid Values", func(t *testing.T) {
		tt := []struct {
			name    string
			content string
		}{
			{name: "zero batch size", content: "[relay]\nbatch_size = 0\n"},
			{name: "zero workers", content: "[bot]\nworkers = 0\n"},
			{name: "empty prefix", content: "[bot]\nprefix = \"\"\n"},
			{name: "bad duration", content: "[bot]\ncommand_timeout = \"soon\"\n"},
			{name: "not toml", content: "this is = = not toml"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(tc.content), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
