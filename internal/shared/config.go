package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Bot      BotConfig      `toml:"bot"`
	Files    FilesConfig    `toml:"files"`
	Resolver ResolverConfig `toml:"resolver"`
	Relay    RelayConfig    `toml:"relay"`
	Triage   TriageConfig   `toml:"triage"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// BotConfig contains command dispatch settings.
type BotConfig struct {
	Prefix         string   `toml:"prefix"`
	Workers        int      `toml:"workers"`
	CommandTimeout Duration `toml:"command_timeout"`
}

// FilesConfig contains the locations of the token, settings and scratch files.
type FilesConfig struct {
	TokenPath    string `toml:"token_path"`
	SettingsPath string `toml:"settings_path"`
	DownloadDir  string `toml:"download_dir"`
}

// ResolverConfig contains the media resolution API settings.
type ResolverConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// RelayConfig contains media relay settings.
type RelayConfig struct {
	BatchSize        int `toml:"batch_size"`
	FetchConcurrency int `toml:"fetch_concurrency"`
}

// TriageConfig contains link rewriting settings.
type TriageConfig struct {
	MirrorURL string `toml:"mirror_url"`
}

// ServerConfig contains the optional status server settings.
type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration wraps [time.Duration] so it can be written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate rejects values the bot cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Bot.Prefix == "":
		return fmt.Errorf("%w: bot.prefix must not be empty", ErrInvalidConfig)
	case c.Bot.Workers < 1:
		return fmt.Errorf("%w: bot.workers must be at least 1", ErrInvalidConfig)
	case c.Relay.BatchSize < 1:
		return fmt.Errorf("%w: relay.batch_size must be at least 1", ErrInvalidConfig)
	case c.Relay.FetchConcurrency < 1:
		return fmt.Errorf("%w: relay.fetch_concurrency must be at least 1", ErrInvalidConfig)
	case c.Resolver.BaseURL == "":
		return fmt.Errorf("%w: resolver.base_url must not be empty", ErrInvalidConfig)
	case c.Triage.MirrorURL == "":
		return fmt.Errorf("%w: triage.mirror_url must not be empty", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
