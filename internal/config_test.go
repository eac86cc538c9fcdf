package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/habitus/internal/journal"
	pkgconfig "github.com/starford/habitus/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Journal.Path != journal.MemoryDSN {
		t.Errorf("journal path = %q", cfg.Journal.Path)
	}
	if cfg.Pulse.Duration != time.Second {
		t.Errorf("pulse = %v", cfg.Pulse.Duration)
	}
}

func TestSeedConfig_WatchNeedsPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Seed.Watch = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("watch without path should fail")
	}
	cfg.Seed.Path = "habits.yaml"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("watch with path should pass: %v", err)
	}
}

func TestPulseConfig_Bounds(t *testing.T) {
	for _, d := range []time.Duration{0, time.Millisecond, 2 * time.Minute} {
		cfg := PulseConfig{Duration: d}
		if err := cfg.Validate(); err == nil {
			t.Errorf("duration %v should fail", d)
		}
	}
}

func TestLoad_YAMLWithEnv(t *testing.T) {
	t.Setenv("HABITUS_TEST_TOKEN", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
app:
  log_level: debug
  http:
    port: 9090
auth:
  mode: token
  token: ${HABITUS_TEST_TOKEN}
seed:
  path: habits.yaml
  watch: true
pulse:
  duration: 1500ms
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.Auth.Token != "s3cret" || !cfg.Auth.AuthEnabled() {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Pulse.Duration != 1500*time.Millisecond {
		t.Errorf("pulse = %v", cfg.Pulse.Duration)
	}
	if cfg.Journal.Path != journal.MemoryDSN {
		t.Errorf("journal default lost: %q", cfg.Journal.Path)
	}
}

func TestLoadOptional_MissingFileKeepsDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
}
