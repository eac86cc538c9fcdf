package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/habitus/internal/habitstore"
	"github.com/starford/habitus/internal/view"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(store *habitstore.Store, views *view.Builder, history HistorySource, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(store, views, history)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Habits.
	r.Get("/habits", h.ListHabits)
	r.Post("/habits", h.CreateHabit)
	r.Get("/habits/{id}", h.GetHabit)
	r.Post("/habits/{id}/toggle", h.ToggleHabit)
	r.Get("/habits/{id}/history", h.HabitHistory)

	// Views.
	r.Get("/dashboard", h.Dashboard)
	r.Get("/progress", h.Progress)
	r.Get("/week", h.Week)

	// Settings.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
