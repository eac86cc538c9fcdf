package internal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testRuntime(t *testing.T, mutate func(*Config)) *runtime {
	t.Helper()
	cfg := NewDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)
	rt, err := setup(context.Background(),
		WithConfig(cfg),
		WithLogOutput(io.Discard),
		WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(rt.close)
	return rt
}

func TestSetup_RequiresConfig(t *testing.T) {
	if _, err := setup(context.Background(), WithLogOutput(io.Discard)); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	rt := testRuntime(t, nil)
	r := rt.router()

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s = %d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/habits/3/toggle", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("toggle = %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	if !strings.Contains(body, `habitus_toggles_total{action="completed"} 1`) {
		t.Errorf("toggle counter missing:\n%s", body)
	}
	if !strings.Contains(body, "habitus_habits 4") {
		t.Errorf("habit gauge missing:\n%s", body)
	}
}

func TestRouter_AuthProtectsAPIOnly(t *testing.T) {
	rt := testRuntime(t, func(c *Config) {
		c.Auth.Mode = AuthModeToken
		c.Auth.Token = "secret"
	})
	r := rt.router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("api without token = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}
}

func TestSetup_SeedFileAndJournal(t *testing.T) {
	seedPath := filepath.Join(t.TempDir(), "habits.yaml")
	data := `
habits:
  - id: 7
    name: Journal
    color: "#123456"
    target: 3
    streak: 2
    completed: [1, 2]
`
	if err := os.WriteFile(seedPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	rt := testRuntime(t, func(c *Config) { c.Seed.Path = seedPath })

	w := httptest.NewRecorder()
	rt.router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/habits/7", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("detail = %d: %s", w.Code, w.Body.String())
	}
	var detail struct {
		Stats struct {
			BestStreak       int `json:"best_streak"`
			TotalCompletions int `json:"total_completions"`
		} `json:"stats"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if detail.Stats.BestStreak != 2 || detail.Stats.TotalCompletions != 2 {
		t.Errorf("stats = %+v", detail.Stats)
	}

	w = httptest.NewRecorder()
	rt.router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/habits/7/history?days=7", nil))
	if !strings.Contains(w.Body.String(), `"2026-10-18","2026-10-19"`) {
		t.Errorf("history = %s", w.Body.String())
	}
}
