// Package config provides centralized configuration for the reap probe suite.
// It loads configuration from CLI flags and environment variables, validates
// required fields, and provides sensible defaults.
//
// CLI flags select the run mode (-mode all|ui|api), scenario filters
// (-run, -skip), and report output (-report). Environment variables carry the
// target URLs and tuning knobs. The loaded Config is constructed once at
// process start and passed by reference; nothing reads configuration through
// a hidden global afterwards.
package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Run modes selecting which scenario subset executes.
const (
	ModeAll = "all"
	ModeUI  = "ui"
	ModeAPI = "api"
)

// DefaultUserAgent marks every probe request so suite traffic is identifiable
// in the target's access logs.
const DefaultUserAgent = "reap-probe/1.0"

// Config holds all suite configuration.
type Config struct {
	// Target endpoints. Empty means self-test mode: the CLI starts the
	// built-in stand-in application and probes that instead.
	UIBaseURL  string
	APIBaseURL string

	// HTTP behavior. Retry policy deliberately has no knob here: the suite
	// never retries on its own, the host test runner owns that.
	RequestTimeout time.Duration
	UserAgent      string

	// Browser behavior
	ViewportWidth  int
	ViewportHeight int
	Headless       bool

	// Diagnostics
	MaxBodyLogBytes int

	// Run selection (CLI flags)
	Mode       string
	RunFilter  string
	SkipFilter string
	Report     bool
	Debug      bool
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Flags holds parsed CLI flag values. Call ParseFlags before LoadConfig.
type Flags struct {
	Mode       string
	RunFilter  string
	SkipFilter string
	Report     bool
	Debug      bool
	UIBaseURL  string
	APIBaseURL string
}

// ParseFlags registers and parses the suite's CLI flags from args.
func ParseFlags(args []string) (Flags, error) {
	var f Flags
	fs := flag.NewFlagSet("reap", flag.ContinueOnError)
	fs.StringVar(&f.Mode, "mode", ModeAll, "scenario subset to run: all, ui, or api")
	fs.StringVar(&f.RunFilter, "run", "", "regex pattern to select scenarios to run")
	fs.StringVar(&f.SkipFilter, "skip", "", "regex pattern to select scenarios not to run")
	fs.BoolVar(&f.Report, "report", false, "print a human-readable report after the run")
	fs.BoolVar(&f.Debug, "debug", false, "log request/response detail for every scenario")
	fs.StringVar(&f.UIBaseURL, "ui-url", "", "base URL of the target web UI (default: built-in stand-in)")
	fs.StringVar(&f.APIBaseURL, "api-url", "", "base URL of the target account API (default: built-in stand-in)")
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	return f, nil
}

// LoadConfig loads configuration from environment variables and parsed flags.
// Flag values override environment variables.
func LoadConfig(f Flags) (*Config, error) {
	cfg := &Config{}

	cfg.UIBaseURL = strings.TrimSpace(getEnvOrDefault("REAP_UI_URL", ""))
	cfg.APIBaseURL = strings.TrimSpace(getEnvOrDefault("REAP_API_URL", ""))
	if f.UIBaseURL != "" {
		cfg.UIBaseURL = f.UIBaseURL
	}
	if f.APIBaseURL != "" {
		cfg.APIBaseURL = f.APIBaseURL
	}

	cfg.RequestTimeout = parseDurationOrDefault("REAP_REQUEST_TIMEOUT", 10*time.Second)
	cfg.UserAgent = getEnvOrDefault("REAP_USER_AGENT", DefaultUserAgent)

	cfg.ViewportWidth = parseIntOrDefault("REAP_VIEWPORT_WIDTH", 1280)
	cfg.ViewportHeight = parseIntOrDefault("REAP_VIEWPORT_HEIGHT", 720)
	cfg.Headless = parseBoolOrDefault("REAP_HEADLESS", true)

	cfg.MaxBodyLogBytes = parseIntOrDefault("REAP_MAX_BODY_LOG_BYTES", 4096)

	cfg.Mode = f.Mode
	cfg.RunFilter = f.RunFilter
	cfg.SkipFilter = f.SkipFilter
	cfg.Report = f.Report
	cfg.Debug = f.Debug

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all configuration is coherent.
func (c *Config) Validate() error {
	var errs []string

	switch c.Mode {
	case ModeAll, ModeUI, ModeAPI:
	default:
		errs = append(errs, fmt.Sprintf("mode must be %q, %q, or %q (got %q)", ModeAll, ModeUI, ModeAPI, c.Mode))
	}

	for name, raw := range map[string]string{"ui-url": c.UIBaseURL, "api-url": c.APIBaseURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("%s must be an absolute http(s) URL (got %q)", name, raw))
		}
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, "REAP_REQUEST_TIMEOUT must be positive")
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		errs = append(errs, "viewport dimensions must be positive")
	}
	if c.MaxBodyLogBytes < 0 {
		errs = append(errs, "REAP_MAX_BODY_LOG_BYTES must not be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// SelfTest reports whether the run targets the built-in stand-in application.
func (c *Config) SelfTest() bool {
	return c.UIBaseURL == "" && c.APIBaseURL == ""
}

// RunsUI reports whether the UI scenario subset is selected.
func (c *Config) RunsUI() bool {
	return c.Mode == ModeAll || c.Mode == ModeUI
}

// RunsAPI reports whether the API scenario subset is selected.
func (c *Config) RunsAPI() bool {
	return c.Mode == ModeAll || c.Mode == ModeAPI
}

// PrintStartupSummary prints a human-readable summary of the configuration to stderr.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "reap probe suite starting...")

	if c.SelfTest() {
		fmt.Fprintln(os.Stderr, "  Target:  built-in stand-in (self-test)")
	} else {
		fmt.Fprintf(os.Stderr, "  UI:      %s\n", c.UIBaseURL)
		fmt.Fprintf(os.Stderr, "  API:     %s\n", c.APIBaseURL)
	}
	fmt.Fprintf(os.Stderr, "  Mode:    %s\n", c.Mode)
	fmt.Fprintf(os.Stderr, "  Timeout: %s\n", c.RequestTimeout)
	if c.RunFilter != "" {
		fmt.Fprintf(os.Stderr, "  Run:     %s\n", c.RunFilter)
	}
	if c.SkipFilter != "" {
		fmt.Fprintf(os.Stderr, "  Skip:    %s\n", c.SkipFilter)
	}
	fmt.Fprintln(os.Stderr, "")
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
