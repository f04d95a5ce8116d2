package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scenetic/cli/internal/api"
	"github.com/scenetic/cli/internal/auth"
	"gopkg.in/yaml.v3"
)

// Environment overrides, read on every access so they are never persisted.
const (
	EnvTagURL      = "SCENETIC_TAG_URL"
	EnvHardwareURL = "SCENETIC_HARDWARE_URL"
	EnvAPIKey      = "SCENETIC_API_KEY"
)

// S3 selects the bucket for snapshot images. An empty bucket keeps images
// under the data dir.
type S3 struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// Config holds CLI configuration stored at ~/.scenetic/config.
type Config struct {
	TagURL      string        `yaml:"tag_url,omitempty"`
	HardwareURL string        `yaml:"hardware_url,omitempty"`
	APIKey      string        `yaml:"api_key,omitempty"`
	IdentityURL string        `yaml:"identity_url,omitempty"`
	Session     *auth.Session `yaml:"session,omitempty"`
	DataDir     string        `yaml:"data_dir,omitempty"`
	S3          S3            `yaml:"s3,omitempty"`
	RetryDelay  time.Duration `yaml:"retry_delay,omitempty"`
	LogLevel    string        `yaml:"log_level,omitempty"`
}

// Dir returns the config directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".scenetic")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Load reads and parses the config file. A missing file yields an empty
// config; an insecure or malformed one is an error.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// TagServiceURL resolves the tag service base URL.
func (c *Config) TagServiceURL() string {
	return firstNonEmpty(os.Getenv(EnvTagURL), c.TagURL, api.DefaultTagURL)
}

// HardwareServiceURL resolves the hardware service base URL.
func (c *Config) HardwareServiceURL() string {
	return firstNonEmpty(os.Getenv(EnvHardwareURL), c.HardwareURL, api.DefaultHardwareURL)
}

// IdentityAPIKey resolves the identity project key.
func (c *Config) IdentityAPIKey() string {
	return firstNonEmpty(os.Getenv(EnvAPIKey), c.APIKey)
}

// DataPath resolves the directory for the database, objects, and logs.
func (c *Config) DataPath() string {
	return firstNonEmpty(c.DataDir, filepath.Join(Dir(), "data"))
}

// DatabasePath is the SQLite file under the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataPath(), "scenetic.db")
}

// LogPath is the TUI log file under the data dir.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataPath(), "scenetic.log")
}

// SetSession stores s (nil clears it) and saves.
func (c *Config) SetSession(s *auth.Session) error {
	c.Session = s
	return c.Save()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
