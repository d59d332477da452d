// Package config handles configuration loading and validation for lector.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Theme       string            `yaml:"theme"`
	Reader      ReaderConfig      `yaml:"reader"`
	DeepLink    DeepLinkConfig    `yaml:"deep_link"`
	Queue       QueueConfig       `yaml:"queue"`
	Annotations AnnotationsConfig `yaml:"annotations"`
	Database    DatabaseConfig    `yaml:"database"`
	DataDir     string            `yaml:"-"` // set by caller, not from config file
}

// ReaderConfig controls layout, virtualization, and progress tracking.
type ReaderConfig struct {
	WrapWidth       int           `yaml:"wrap_width"`        // columns; 0 follows the terminal width
	MinWrapWidth    int           `yaml:"min_wrap_width"`    // lower bound for the < key
	EstimateRows    int           `yaml:"estimate_rows"`     // initial height estimate per chunk
	Overscan        int           `yaml:"overscan"`          // chunks rendered beyond the viewport
	PageRows        int           `yaml:"page_rows"`         // nominal page height for pages-left
	Throttle        time.Duration `yaml:"throttle"`          // minimum spacing of progress updates
	SaveDelay       time.Duration `yaml:"save_delay"`        // debounce before persisting progress
	HeaderTopZone   int           `yaml:"header_top_zone"`   // header always visible above this row
	HeaderHideDelta int           `yaml:"header_hide_delta"` // downward rows that hide the header
	HeaderShowDelta int           `yaml:"header_show_delta"` // upward rows that show the header
	Watch           *bool         `yaml:"watch"`             // reload when the file changes on disk
}

// DeepLinkConfig bounds the seek performed when jumping to a character.
type DeepLinkConfig struct {
	Attempts     int           `yaml:"attempts"`
	Delay        time.Duration `yaml:"delay"`
	HighlightTTL time.Duration `yaml:"highlight_ttl"`
}

// QueueConfig sizes the background write queue.
type QueueConfig struct {
	Size int `yaml:"size"`
}

// AnnotationsConfig toggles the vocabulary underline overlay.
type AnnotationsConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: "tokyo-night",
		Reader: ReaderConfig{
			WrapWidth:       80,
			MinWrapWidth:    20,
			EstimateRows:    2,
			Overscan:        2,
			PageRows:        40,
			Throttle:        100 * time.Millisecond,
			SaveDelay:       time.Second,
			HeaderTopZone:   2,
			HeaderHideDelta: 3,
			HeaderShowDelta: 3,
		},
		DeepLink: DeepLinkConfig{
			Attempts:     10,
			Delay:        50 * time.Millisecond,
			HighlightTTL: 2 * time.Second,
		},
		Queue: QueueConfig{
			Size: 64,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 2,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Theme == "" {
		c.Theme = defaults.Theme
	}

	r := &c.Reader
	if r.MinWrapWidth == 0 {
		r.MinWrapWidth = defaults.Reader.MinWrapWidth
	}
	if r.EstimateRows == 0 {
		r.EstimateRows = defaults.Reader.EstimateRows
	}
	if r.PageRows == 0 {
		r.PageRows = defaults.Reader.PageRows
	}
	if r.Throttle == 0 {
		r.Throttle = defaults.Reader.Throttle
	}
	if r.SaveDelay == 0 {
		r.SaveDelay = defaults.Reader.SaveDelay
	}

	if c.DeepLink.Attempts == 0 {
		c.DeepLink.Attempts = defaults.DeepLink.Attempts
	}
	if c.DeepLink.Delay == 0 {
		c.DeepLink.Delay = defaults.DeepLink.Delay
	}
	if c.DeepLink.HighlightTTL == 0 {
		c.DeepLink.HighlightTTL = defaults.DeepLink.HighlightTTL
	}

	if c.Queue.Size == 0 {
		c.Queue.Size = defaults.Queue.Size
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	r := c.Reader
	if r.MinWrapWidth < 1 {
		return fmt.Errorf("reader.min_wrap_width must be at least 1")
	}
	if r.WrapWidth != 0 && r.WrapWidth < r.MinWrapWidth {
		return fmt.Errorf("reader.wrap_width must be 0 or at least %d", r.MinWrapWidth)
	}
	if r.EstimateRows < 1 {
		return fmt.Errorf("reader.estimate_rows must be at least 1")
	}
	if r.Overscan < 0 {
		return fmt.Errorf("reader.overscan cannot be negative")
	}
	if r.PageRows < 1 {
		return fmt.Errorf("reader.page_rows must be at least 1")
	}
	if r.Throttle < 0 {
		return fmt.Errorf("reader.throttle cannot be negative")
	}
	if r.SaveDelay < 0 {
		return fmt.Errorf("reader.save_delay cannot be negative")
	}
	if r.HeaderTopZone < 0 || r.HeaderHideDelta < 0 || r.HeaderShowDelta < 0 {
		return fmt.Errorf("reader header thresholds cannot be negative")
	}

	if c.DeepLink.Attempts < 1 {
		return fmt.Errorf("deep_link.attempts must be at least 1")
	}
	if c.DeepLink.Delay <= 0 {
		return fmt.Errorf("deep_link.delay must be positive")
	}
	if c.DeepLink.HighlightTTL <= 0 {
		return fmt.Errorf("deep_link.highlight_ttl must be positive")
	}

	if c.Queue.Size < 1 {
		return fmt.Errorf("queue.size must be at least 1")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	return nil
}

// AnnotationsEnabled reports whether the vocabulary overlay is on. Defaults to true.
func (c *Config) AnnotationsEnabled() bool {
	return c.Annotations.Enabled == nil || *c.Annotations.Enabled
}

// WatchEnabled reports whether open documents reload on change. Defaults to true.
func (c *Config) WatchEnabled() bool {
	return c.Reader.Watch == nil || *c.Reader.Watch
}

// DatabaseFile returns the path of the SQLite database.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "lector.db")
}
