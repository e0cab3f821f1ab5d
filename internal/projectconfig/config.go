// Package projectconfig provides the ProjectConfig struct and loader for
// .benchconsole.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".benchconsole.yaml"

// Environment variables that override the file.
const (
	EnvBaseURL = "BENCHCONSOLE_BASE_URL"
	EnvToken   = "BENCHCONSOLE_TOKEN"
)

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultBaseURL        = "http://localhost:8080/api"
	DefaultRequestTimeout = 30

	DefaultPollIntervalMs         = 2000
	DefaultMaxConsecutiveFailures = 30

	DefaultModerateThreshold = 0.5
	DefaultHighThreshold     = 0.7

	DefaultResultsDir = ".benchconsole/results"

	DefaultServerPort = 3000

	DefaultHistoryWindowDays = 30
)

// BackendConfig locates the benchmark job service.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	Token          string `yaml:"token,omitempty"`
	RequestTimeout int    `yaml:"request_timeout,omitempty"`
}

// Timeout returns the per-request timeout.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.RequestTimeout) * time.Second
}

// PollingConfig tunes the job status loop.
type PollingConfig struct {
	IntervalMs             int `yaml:"interval_ms,omitempty"`
	MaxConsecutiveFailures int `yaml:"max_consecutive_failures,omitempty"`
}

// Interval returns the delay between status requests.
func (p PollingConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMs) * time.Millisecond
}

// DuplicatesConfig holds the severity band thresholds.
type DuplicatesConfig struct {
	ModerateThreshold *float64 `yaml:"moderate_threshold,omitempty"`
	HighThreshold     *float64 `yaml:"high_threshold,omitempty"`
}

// RateConfig is a USD price per million tokens.
type RateConfig struct {
	InputPerMillion  float64 `yaml:"input_per_million"`
	OutputPerMillion float64 `yaml:"output_per_million"`
}

// PricingConfig maps models to token rates. Model keys are
// "provider/name" or a bare model name.
type PricingConfig struct {
	Default *RateConfig           `yaml:"default,omitempty"`
	Models  map[string]RateConfig `yaml:"models,omitempty"`
}

// PathsConfig holds directory paths.
type PathsConfig struct {
	Results string `yaml:"results,omitempty"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
}

// HistoryConfig holds comparison-over-time settings.
type HistoryConfig struct {
	WindowDays int `yaml:"window_days,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .benchconsole.yaml.
type ProjectConfig struct {
	Backend    BackendConfig    `yaml:"backend,omitempty"`
	Polling    PollingConfig    `yaml:"polling,omitempty"`
	Duplicates DuplicatesConfig `yaml:"duplicates,omitempty"`
	Pricing    PricingConfig    `yaml:"pricing,omitempty"`
	Paths      PathsConfig      `yaml:"paths,omitempty"`
	Server     ServerConfig     `yaml:"server,omitempty"`
	History    HistoryConfig    `yaml:"history,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Backend: BackendConfig{
			BaseURL:        DefaultBaseURL,
			RequestTimeout: DefaultRequestTimeout,
		},
		Polling: PollingConfig{
			IntervalMs:             DefaultPollIntervalMs,
			MaxConsecutiveFailures: DefaultMaxConsecutiveFailures,
		},
		Duplicates: DuplicatesConfig{
			ModerateThreshold: floatPtr(DefaultModerateThreshold),
			HighThreshold:     floatPtr(DefaultHighThreshold),
		},
		Pricing: PricingConfig{
			Default: &RateConfig{},
		},
		Paths: PathsConfig{
			Results: DefaultResultsDir,
		},
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
		History: HistoryConfig{
			WindowDays: DefaultHistoryWindowDays,
		},
	}
}

// Load finds .benchconsole.yaml by walking up from startDir (max 10
// levels), unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return parse(data, FileName)
}

// LoadFile reads the configuration at an explicit path. The file must exist.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, name string) (*ProjectConfig, error) {
	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	cfg := New()
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// ApplyEnv overrides backend settings from the environment. lookup is
// usually os.LookupEnv.
func (c *ProjectConfig) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.Backend.BaseURL = v
	}
	if v, ok := lookup(EnvToken); ok && v != "" {
		c.Backend.Token = v
	}
}

// findConfigFile walks up from dir looking for .benchconsole.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for range 10 {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Backend
	if src.Backend.BaseURL != "" {
		dst.Backend.BaseURL = src.Backend.BaseURL
	}
	if src.Backend.Token != "" {
		dst.Backend.Token = src.Backend.Token
	}
	if src.Backend.RequestTimeout != 0 {
		dst.Backend.RequestTimeout = src.Backend.RequestTimeout
	}

	// Polling
	if src.Polling.IntervalMs != 0 {
		dst.Polling.IntervalMs = src.Polling.IntervalMs
	}
	if src.Polling.MaxConsecutiveFailures != 0 {
		dst.Polling.MaxConsecutiveFailures = src.Polling.MaxConsecutiveFailures
	}

	// Duplicates
	if src.Duplicates.ModerateThreshold != nil {
		dst.Duplicates.ModerateThreshold = src.Duplicates.ModerateThreshold
	}
	if src.Duplicates.HighThreshold != nil {
		dst.Duplicates.HighThreshold = src.Duplicates.HighThreshold
	}

	// Pricing
	if src.Pricing.Default != nil {
		dst.Pricing.Default = src.Pricing.Default
	}
	if len(src.Pricing.Models) > 0 {
		dst.Pricing.Models = src.Pricing.Models
	}

	if src.Paths.Results != "" {
		dst.Paths.Results = src.Paths.Results
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.History.WindowDays != 0 {
		dst.History.WindowDays = src.History.WindowDays
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
