package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mongo MongoConfig `yaml:"mongo"`
	Local LocalConfig `yaml:"local"`
	Feed  FeedConfig  `yaml:"feed"`
	Push  PushConfig  `yaml:"push"`
	Share ShareConfig `yaml:"share"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type LocalConfig struct {
	Path string `yaml:"path"`
}

type FeedConfig struct {
	PollInterval string `yaml:"poll_interval"`
}

type PushConfig struct {
	GatewayURL string `yaml:"gateway_url"`
}

type ShareConfig struct {
	BaseURL   string `yaml:"base_url"`
	ExportDir string `yaml:"export_dir"`
}

// GetPollInterval parses the poll interval string
func (f *FeedConfig) GetPollInterval() (time.Duration, error) {
	return time.ParseDuration(f.PollInterval)
}

// LogPath returns the log file location next to the local database.
func (l *LocalConfig) LogPath() string {
	return filepath.Join(filepath.Dir(l.Path), "newslist.log")
}

// Load reads configuration from file. A missing file yields the
// default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		var cfg Config
		cfg.applyDefaults()
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand home directory in local paths
	if cfg.Local.Path != "" {
		cfg.Local.Path = expandPath(cfg.Local.Path)
	}
	if cfg.Share.ExportDir != "" {
		cfg.Share.ExportDir = expandPath(cfg.Share.ExportDir)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Save writes configuration to file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = os.Getenv("MONGO_URI")
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "newslist"
	}
	if cfg.Local.Path == "" {
		cfg.Local.Path = expandPath("~/.local/share/newslist/newslist.db")
	}
	if cfg.Feed.PollInterval == "" {
		cfg.Feed.PollInterval = "30s"
	}
	if cfg.Push.GatewayURL == "" {
		cfg.Push.GatewayURL = "https://exp.host/--/api/v2/push/send"
	}
	if cfg.Share.BaseURL == "" {
		cfg.Share.BaseURL = "https://yournewsapp.com"
	}
	if cfg.Share.ExportDir == "" {
		cfg.Share.ExportDir = expandPath("~/Documents")
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "newslist", "config.yaml")
}
