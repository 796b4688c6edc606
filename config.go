package apiresult

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type (
	// configFile is the top-level document structure.
	configFile struct {
		Retry map[string]RetryConfig `json:"retry" yaml:"retry"`
	}

	// RetryConfig holds the decoded configuration of one retry profile.
	// Embed it in your own config struct for JSON or YAML unmarshaling, then
	// call [BuildRetryOptions] to obtain options for [RetryWithBackoff].
	// Unset fields keep the defaults.
	RetryConfig struct {
		// MaxAttempts is the total number of attempts. Example: 3.
		MaxAttempts *int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
		// InitialDelay is parsed via time.ParseDuration. Example: "500ms".
		InitialDelay *string `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty"`
		// DelayFactor multiplies the delay after each failure. Example: 2.
		DelayFactor *float64 `json:"delay_factor,omitempty" yaml:"delay_factor,omitempty"`
		// MaxDelay is parsed via time.ParseDuration. Example: "10s".
		MaxDelay *string `json:"max_delay,omitempty" yaml:"max_delay,omitempty"`
		// JitterFactor is the relative jitter. Example: 0.25.
		JitterFactor *float64 `json:"jitter_factor,omitempty" yaml:"jitter_factor,omitempty"`
	}
)

// LoadConfig reads a configuration file of named retry profiles. Files
// ending in .yaml or .yml are decoded as YAML, anything else as JSON:
//
//	{"retry": {"payments": {"max_attempts": 5, "initial_delay": "100ms"}}}
//
// Every profile is validated eagerly so errors surface at load time.
func LoadConfig(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("apiresult: read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAMLConfig(data)
	default:
		return ParseConfig(data)
	}
}

// ParseConfig is [LoadConfig] for an in-memory JSON document.
func ParseConfig(data []byte) (*Registry, error) {
	var cfg configFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("apiresult: parse config: %w", err)
	}

	return buildRegistry(cfg)
}

// ParseYAMLConfig is [LoadConfig] for an in-memory YAML document.
func ParseYAMLConfig(data []byte) (*Registry, error) {
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("apiresult: parse config: %w", err)
	}

	return buildRegistry(cfg)
}

func buildRegistry(cfg configFile) (*Registry, error) {
	reg := NewRegistry()

	for name, rc := range cfg.Retry {
		opts, err := BuildRetryOptions(&rc)
		if err != nil {
			return nil, fmt.Errorf("apiresult: retry profile %q: %w", name, err)
		}

		reg.Register(name, opts...)
	}

	return reg, nil
}

// BuildRetryOptions converts a [RetryConfig] into options for
// [RetryWithBackoff].
func BuildRetryOptions(rc *RetryConfig) ([]RetryOption, error) {
	var opts []RetryOption

	if rc.MaxAttempts != nil {
		if *rc.MaxAttempts <= 0 {
			return nil, fmt.Errorf(
				"max_attempts: %w: got %d", ErrInvalidMaxAttempts, *rc.MaxAttempts,
			)
		}

		opts = append(opts, MaxAttempts(*rc.MaxAttempts))
	}

	if rc.InitialDelay != nil {
		d, err := parseDelay(*rc.InitialDelay)
		if err != nil {
			return nil, fmt.Errorf("initial_delay: %w", err)
		}

		opts = append(opts, InitialDelay(d))
	}

	if rc.MaxDelay != nil {
		d, err := parseDelay(*rc.MaxDelay)
		if err != nil {
			return nil, fmt.Errorf("max_delay: %w", err)
		}

		opts = append(opts, MaxDelay(d))
	}

	if rc.DelayFactor != nil {
		if *rc.DelayFactor < 1 {
			return nil, fmt.Errorf(
				"delay_factor: must be at least 1, got %v", *rc.DelayFactor,
			)
		}

		opts = append(opts, DelayFactor(*rc.DelayFactor))
	}

	if rc.JitterFactor != nil {
		if *rc.JitterFactor < 0 || *rc.JitterFactor >= 1 {
			return nil, fmt.Errorf(
				"jitter_factor: must be in [0, 1), got %v", *rc.JitterFactor,
			)
		}

		opts = append(opts, JitterFactor(*rc.JitterFactor))
	}

	return opts, nil
}

var errNegativeDelay = errors.New("delay must not be negative")

func parseDelay(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}

	if d < 0 {
		return 0, errNegativeDelay
	}

	return d, nil
}
