// Package config handles configuration loading and validation for plandiff.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/plandiff/internal/core/comments"
	"github.com/hay-kot/plandiff/internal/core/linediff"
	"github.com/hay-kot/plandiff/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Diff    DiffConfig   `yaml:"diff"`
	Render  RenderConfig `yaml:"render"`
	Review  ReviewConfig `yaml:"review"`
	Watch   WatchConfig  `yaml:"watch"`
	GitPath string       `yaml:"git_path"`
	DataDir string       `yaml:"-"` // set by caller, not from config file
}

// DiffConfig controls raw hunk output.
type DiffConfig struct {
	// ContextLines is a pointer so an explicit 0 can be told apart from unset.
	ContextLines *int              `yaml:"context_lines"`
	ViewMode     linediff.ViewMode `yaml:"view_mode"`
}

// RenderConfig controls terminal rendering.
type RenderConfig struct {
	Theme    string `yaml:"theme"`
	WordWrap int    `yaml:"word_wrap"`
}

// ReviewConfig controls the review session and prompt output.
type ReviewConfig struct {
	PromptHeader string `yaml:"prompt_header"`
	// CopyCommand is a shell command that receives the prompt on stdin. When
	// empty the system clipboard is used.
	CopyCommand string `yaml:"copy_command"`
}

// WatchConfig controls file watching in review mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Diff: DiffConfig{
			ContextLines: intPtr(linediff.DefaultContextLines),
			ViewMode:     linediff.ViewUnified,
		},
		Render: RenderConfig{
			Theme:    styles.DefaultTheme,
			WordWrap: 100,
		},
		Review: ReviewConfig{
			PromptHeader: comments.DefaultPromptHeader,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		GitPath: "git",
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
	if c.Diff.ContextLines == nil {
		c.Diff.ContextLines = defaults.Diff.ContextLines
	}
	if c.Diff.ViewMode == "" {
		c.Diff.ViewMode = defaults.Diff.ViewMode
	}
	if c.Render.Theme == "" {
		c.Render.Theme = defaults.Render.Theme
	}
	if c.Render.WordWrap == 0 {
		c.Render.WordWrap = defaults.Render.WordWrap
	}
	if c.Review.PromptHeader == "" {
		c.Review.PromptHeader = defaults.Review.PromptHeader
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = defaults.Watch.Debounce
	}
	if c.GitPath == "" {
		c.GitPath = defaults.GitPath
	}
}

func intPtr(v int) *int { return &v }

// ContextLines returns the configured hunk context.
func (c *Config) ContextLines() int {
	if c.Diff.ContextLines == nil {
		return linediff.DefaultContextLines
	}
	return *c.Diff.ContextLines
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.GitPath == "" {
		return fmt.Errorf("git_path cannot be empty")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Diff.ContextLines != nil && *c.Diff.ContextLines < 0 {
		return fmt.Errorf("diff.context_lines must be at least 0")
	}

	if !c.Diff.ViewMode.IsValid() {
		return fmt.Errorf("diff.view_mode %q is invalid (use %q or %q)", c.Diff.ViewMode, linediff.ViewUnified, linediff.ViewSplit)
	}

	if c.Render.WordWrap < 0 {
		return fmt.Errorf("render.word_wrap must be at least 0")
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}

	return nil
}
