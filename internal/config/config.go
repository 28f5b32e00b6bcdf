// Package config loads and validates CLI/service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdreport/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Bounds for validated numeric fields.
const (
	MaxRenderWorkers     = 8    // matches the service pool cap; Chrome pages are heavy
	MaxRenderTimeoutSecs = 60   // a single diagram should never need a minute
	MaxTTLMinutes        = 1440 // one day
	MaxInputMiB          = 256
	MinMarginInches      = 0.25
	MaxMarginInches      = 3.0
)

// Config holds all configuration for document conversion.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Render    RenderConfig    `yaml:"render"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Limits    LimitsConfig    `yaml:"limits"`
	Page      PageConfig      `yaml:"page"`
	Style     StyleConfig     `yaml:"style"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// RenderConfig defines diagram rendering options.
type RenderConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"` // Per-diagram timeout (0 = default)
	Workers        int `yaml:"workers"`        // Concurrent render sessions per document (0 = default)
}

// ArtifactsConfig defines artifact store options.
type ArtifactsConfig struct {
	TTLMinutes int `yaml:"ttlMinutes"` // Artifact lifetime (0 = default 60)
}

// LimitsConfig defines input size limits.
type LimitsConfig struct {
	MaxInputMiB int `yaml:"maxInputMiB"` // Maximum accepted input size (0 = default 16)
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// StyleConfig defines stylesheet options.
type StyleConfig struct {
	Path string `yaml:"path"` // Path to a custom CSS file (empty = embedded default)
}

// Validate checks numeric bounds and enum fields.
func (c *Config) Validate() error {
	if c.Render.TimeoutSeconds < 0 || c.Render.TimeoutSeconds > MaxRenderTimeoutSecs {
		return fmt.Errorf("%w: render.timeoutSeconds %d (must be 0-%d)", ErrInvalidValue, c.Render.TimeoutSeconds, MaxRenderTimeoutSecs)
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxRenderWorkers {
		return fmt.Errorf("%w: render.workers %d (must be 0-%d)", ErrInvalidValue, c.Render.Workers, MaxRenderWorkers)
	}
	if c.Artifacts.TTLMinutes < 0 || c.Artifacts.TTLMinutes > MaxTTLMinutes {
		return fmt.Errorf("%w: artifacts.ttlMinutes %d (must be 0-%d)", ErrInvalidValue, c.Artifacts.TTLMinutes, MaxTTLMinutes)
	}
	if c.Limits.MaxInputMiB < 0 || c.Limits.MaxInputMiB > MaxInputMiB {
		return fmt.Errorf("%w: limits.maxInputMiB %d (must be 0-%d)", ErrInvalidValue, c.Limits.MaxInputMiB, MaxInputMiB)
	}

	if c.Page.Size != "" {
		switch strings.ToLower(c.Page.Size) {
		case "letter", "a4", "legal":
		default:
			return fmt.Errorf("%w: page.size %q (must be letter, a4, or legal)", ErrInvalidValue, c.Page.Size)
		}
	}
	if c.Page.Orientation != "" {
		switch strings.ToLower(c.Page.Orientation) {
		case "portrait", "landscape":
		default:
			return fmt.Errorf("%w: page.orientation %q (must be portrait or landscape)", ErrInvalidValue, c.Page.Orientation)
		}
	}
	if c.Page.Margin != 0 && (c.Page.Margin < MinMarginInches || c.Page.Margin > MaxMarginInches) {
		return fmt.Errorf("%w: page.margin %.2f (must be %.2f-%.2f)", ErrInvalidValue, c.Page.Margin, MinMarginInches, MaxMarginInches)
	}

	return nil
}

// DefaultConfig returns a neutral configuration; zero values mean "use the
// library defaults".
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdreport/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mdreport", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
