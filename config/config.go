package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/gridrecon/recon"
)

// Config represents the complete gridrecon configuration
type Config struct {
	Qualifier QualifierConfig `json:"qualifier" yaml:"qualifier"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Log       LogConfig       `json:"log" yaml:"log"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}

// QualifierConfig contains portfolio qualification parameters
type QualifierConfig struct {
	MinUsers int `json:"min_users" yaml:"min_users"`
}

// OutputConfig controls where result CSVs are written
type OutputConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// JournalConfig contains run history parameters
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none" or "sqlite"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

// ServerConfig contains HTTP upload server parameters
type ServerConfig struct {
	Addr        string `json:"addr" yaml:"addr"`
	MaxUploadMB int64  `json:"max_upload_mb" yaml:"max_upload_mb"`
}

// Recon returns the pipeline configuration.
func (c *Config) Recon() recon.Config {
	return recon.Config{MinUsers: c.Qualifier.MinUsers}
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Qualifier.MinUsers < recon.MinUsersFloor || c.Qualifier.MinUsers > recon.MinUsersCeiling {
		return fmt.Errorf("qualifier.min_users must be between %d and %d", recon.MinUsersFloor, recon.MinUsersCeiling)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Journal.Type != "none" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'none' or 'sqlite'")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug|info|warn|error")
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Qualifier: QualifierConfig{
			MinUsers: 1,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Journal: JournalConfig{
			Type:   "none",
			DBPath: "./gridrecon.sqlite",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 32,
		},
	}
}
