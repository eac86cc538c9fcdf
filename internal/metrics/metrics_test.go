package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/starford/habitus/internal/habitstore"
	"github.com/starford/habitus/internal/models"
	"github.com/starford/habitus/internal/seed"
)

type staticSource []models.Habit

func (s staticSource) OverallProgress() float64 { return habitstore.OverallProgress(s) }
func (s staticSource) Habits() []models.Habit    { return s }

func TestObserverCountsToggles(t *testing.T) {
	m := New(staticSource(seed.Default()))
	obs := m.Observer()

	obs(habitstore.Event{Kind: habitstore.EventCompleted})
	obs(habitstore.Event{Kind: habitstore.EventCompleted})
	obs(habitstore.Event{Kind: habitstore.EventUncompleted})
	obs(habitstore.Event{Kind: habitstore.EventPulseCleared})

	if got := testutil.ToFloat64(m.Toggles.WithLabelValues("completed")); got != 2 {
		t.Errorf("completed toggles = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Toggles.WithLabelValues("uncompleted")); got != 1 {
		t.Errorf("uncompleted toggles = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.StoreEvents.WithLabelValues("pulse_cleared")); got != 1 {
		t.Errorf("pulse events = %v, want 1", got)
	}
}

func TestHandlerExposesGauges(t *testing.T) {
	m := New(staticSource(seed.Default()))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	for _, want := range []string{"habitus_overall_progress_percent 57.69", "habitus_habits 4"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
