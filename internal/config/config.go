// Package config loads the optional YAML configuration file for
// neutrino-alerts. Every field has a working default; flags override file
// values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source configures the single page fetch.
type Source struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	// Malformed selects short-row handling: skip, pad or fail.
	Malformed string `yaml:"malformed"`
}

// Output configures how the filtered table is rendered.
type Output struct {
	Format string `yaml:"format"`
	// Path writes the table to a file instead of stdout. A .gz suffix
	// gzip-compresses the output.
	Path string `yaml:"path"`
	Sort string `yaml:"sort"`
}

// ConeSearch configures the optional per-alert catalog cross-match.
type ConeSearch struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
	MaxRows int           `yaml:"max_rows"`
}

// Config is the root configuration document.
type Config struct {
	Source     Source     `yaml:"source"`
	Output     Output     `yaml:"output"`
	ConeSearch ConeSearch `yaml:"cone_search"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads and parses a YAML config file, then fills defaults for any
// field left at its zero value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Source.URL == "" {
		c.Source.URL = "https://gcn.gsfc.nasa.gov/amon_icecube_gold_bronze_events.html"
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 30 * time.Second
	}
	if c.Source.Malformed == "" {
		c.Source.Malformed = "fail"
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.ConeSearch.URL == "" {
		c.ConeSearch.URL = "https://ned.ipac.caltech.edu/tap/sync"
	}
	if c.ConeSearch.Dir == "" {
		c.ConeSearch.Dir = "ned_search"
	}
	if c.ConeSearch.Timeout == 0 {
		c.ConeSearch.Timeout = 60 * time.Second
	}
	if c.ConeSearch.MaxRows == 0 {
		c.ConeSearch.MaxRows = 5
	}
}
