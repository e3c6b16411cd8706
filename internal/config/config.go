// Package config loads gamecache.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file searched for by Find.
const FileName = "gamecache.toml"

// Config is the complete gamecache configuration.
type Config struct {
	LogLevel string `toml:"log_level"`

	Games     CacheConfig `toml:"games"`
	Companies CacheConfig `toml:"companies"`
}

// CacheConfig sizes one cache.
type CacheConfig struct {
	Name     string   `toml:"name"`
	Capacity int      `toml:"capacity"`
	TTL      Duration `toml:"ttl"`
}

// Duration decodes TOML strings such as "100s" or "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default mirrors the sizing the catalog services have always used.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Games: CacheConfig{
			Name:     "GameCache",
			Capacity: 50000,
			TTL:      Duration{100 * time.Second},
		},
		Companies: CacheConfig{
			Name:     "CompanyCache",
			Capacity: 5,
			TTL:      Duration{100 * time.Second},
		},
	}
}

// Load reads path on top of Default. An empty path searches upward from the
// working directory for FileName and falls back to Default when none exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		found, err := Find(".")
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.validate()
		}
		if err != nil {
			return nil, err
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find searches for FileName starting at start and walking up to the root.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s: %w", FileName, os.ErrNotExist)
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	var problems []string

	for _, cc := range []struct {
		section string
		cfg     CacheConfig
	}{
		{"games", c.Games},
		{"companies", c.Companies},
	} {
		if cc.cfg.Capacity <= 0 {
			problems = append(problems, fmt.Sprintf("%s.capacity must be positive", cc.section))
		}
		if cc.cfg.TTL.Duration < 0 {
			problems = append(problems, fmt.Sprintf("%s.ttl must not be negative", cc.section))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}
