package seed

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/habitus/internal/models"
)

func TestDefault(t *testing.T) {
	hs := Default()
	if len(hs) != 4 {
		t.Fatalf("len = %d, want 4", len(hs))
	}
	var done, target int
	for _, h := range hs {
		done += len(h.Completed)
		target += h.Target
	}
	if done != 15 || target != 26 {
		t.Errorf("totals = %d/%d, want 15/26", done, target)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
habits:
  - id: 1
    name: Walk
    color: "#00FF00"
    target: 4
    streak: 2
    completed: [1, 3]
  - id: 2
    name: Read
    color: "#0000FF"
    target: 7
`)
	hs, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(hs) != 2 {
		t.Fatalf("len = %d", len(hs))
	}
	if hs[0].Name != "Walk" || hs[0].Streak != 2 || len(hs[0].Completed) != 2 {
		t.Errorf("hs[0] = %+v", hs[0])
	}
	if hs[1].Completed == nil {
		t.Error("missing completed should decode as empty, not nil")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("habits: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	hs, err := Load("")
	if err != nil || len(hs) != 4 {
		t.Fatalf("Load(\"\") = %d habits, %v", len(hs), err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	initial := []byte("habits:\n  - {id: 1, name: A, color: \"#000000\", target: 1}\n")
	if err := os.WriteFile(path, initial, 0o644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var applied [][]models.Habit
	done := make(chan struct{})
	go func() {
		_ = Watch(ctx, path, logger, func(records []models.Habit) error {
			mu.Lock()
			applied = append(applied, records)
			mu.Unlock()
			return nil
		})
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)

	// Same content: ignored.
	if err := os.WriteFile(path, initial, 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)
	mu.Lock()
	if len(applied) != 0 {
		t.Errorf("unchanged content applied %d times", len(applied))
	}
	mu.Unlock()

	changed := []byte("habits:\n  - {id: 1, name: B, color: \"#000000\", target: 2}\n")
	if err := os.WriteFile(path, changed, 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(applied)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	mu.Lock()
	if len(applied) != 1 || applied[0][0].Name != "B" {
		t.Errorf("applied = %+v", applied)
	}
	mu.Unlock()

	cancel()
	<-done
}
