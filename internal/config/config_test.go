package config

import (
	"strings"
	"testing"
	"time"
)

func validTestConfig() Config {
	return Config{
		UIBaseURL:       "http://localhost:8080",
		APIBaseURL:      "http://localhost:8080/api",
		RequestTimeout:  10 * time.Second,
		UserAgent:       DefaultUserAgent,
		ViewportWidth:   1280,
		ViewportHeight:  720,
		Headless:        true,
		MaxBodyLogBytes: 4096,
		Mode:            ModeAll,
	}
}

func TestValidate_MinimalConfigPasses(t *testing.T) {
	t.Parallel()
	cfg := validTestConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
}

func TestValidate_SelfTestConfigPasses(t *testing.T) {
	t.Parallel()
	cfg := validTestConfig()
	cfg.UIBaseURL = ""
	cfg.APIBaseURL = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("self-test config should validate: %v", err)
	}
	if !cfg.SelfTest() {
		t.Fatal("config with no URLs should report self-test mode")
	}
}

func TestValidate_RejectsBadModeAndURL(t *testing.T) {
	t.Parallel()
	cfg := validTestConfig()
	cfg.Mode = "browser"
	cfg.APIBaseURL = "not a url"
	cfg.RequestTimeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	msg := err.Error()
	for _, want := range []string{"mode must be", "api-url must be", "REAP_REQUEST_TIMEOUT"} {
		if !strings.Contains(msg, want) {
			t.Errorf("validation message missing %q: %s", want, msg)
		}
	}
}

func TestParseFlags_RunModes(t *testing.T) {
	t.Parallel()
	f, err := ParseFlags([]string{"-mode", "api", "-report", "-run", "signup.*", "-api-url", "https://qa.example.com"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	cfg, err := LoadConfig(f)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.RunsUI() {
		t.Error("api mode should not run UI scenarios")
	}
	if !cfg.RunsAPI() {
		t.Error("api mode should run API scenarios")
	}
	if !cfg.Report {
		t.Error("report flag lost")
	}
	if cfg.RunFilter != "signup.*" {
		t.Errorf("run filter lost: %q", cfg.RunFilter)
	}
	if cfg.APIBaseURL != "https://qa.example.com" {
		t.Errorf("api url lost: %q", cfg.APIBaseURL)
	}
}

func TestParseFlags_DefaultsToAllMode(t *testing.T) {
	t.Parallel()
	f, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if f.Mode != ModeAll {
		t.Fatalf("default mode = %q, want %q", f.Mode, ModeAll)
	}
}
