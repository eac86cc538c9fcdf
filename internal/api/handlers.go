package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/habitus/internal/habitstore"
	"github.com/starford/habitus/internal/models"
	"github.com/starford/habitus/internal/view"
)

const (
	defaultHistoryDays = 30
	maxHistoryDays     = 366
)

// HistorySource returns completed dates of a habit.
type HistorySource interface {
	History(ctx context.Context, habitID int, since time.Time) ([]string, error)
}

// Handler holds API route handlers.
type Handler struct {
	store   *habitstore.Store
	views   *view.Builder
	history HistorySource
}

// NewHandler creates a new Handler. history may be nil, in which case the
// history endpoint answers with an empty list.
func NewHandler(store *habitstore.Store, views *view.Builder, history HistorySource) *Handler {
	return &Handler{store: store, views: views, history: history}
}

// habitID parses the {id} URL parameter.
func habitID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListHabits handles GET /api/habits.
//
//	@Summary	List habits
//	@Tags		habits
//	@Produce	json
//	@Success	200	{object}	HabitListResponse
//	@Router		/habits [get]
func (h *Handler) ListHabits(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HabitListResponse{Habits: h.store.Habits()})
}

// CreateHabit handles POST /api/habits.
//
//	@Summary	Create a habit
//	@Tags		habits
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateHabitRequest	true	"Habit to create"
//	@Success	201		{object}	models.Habit
//	@Failure	400		{object}	errResponse
//	@Router		/habits [post]
func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req CreateHabitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	habit, err := h.store.AddHabit(habitstore.NewHabit(req))
	if err != nil {
		writeError(w, "create habit", err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

// GetHabit handles GET /api/habits/{id}.
//
//	@Summary	Habit detail view
//	@Tags		habits
//	@Produce	json
//	@Param		id	path		int	true	"Habit id"
//	@Success	200	{object}	view.Detail
//	@Failure	404	{object}	errResponse
//	@Router		/habits/{id} [get]
func (h *Handler) GetHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := habitID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid habit id"))
		return
	}
	detail, err := h.views.Detail(r.Context(), id)
	if err != nil {
		writeError(w, "get habit", err, slog.Int("habit_id", id))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// ToggleHabit handles POST /api/habits/{id}/toggle.
//
//	@Summary	Toggle completion of a day (today when day is omitted)
//	@Tags		habits
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Habit id"
//	@Param		body	body		ToggleRequest	false	"Day slot 1-7"
//	@Success	200		{object}	habitstore.ToggleResult
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/habits/{id}/toggle [post]
func (h *Handler) ToggleHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := habitID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid habit id"))
		return
	}
	var req ToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	var (
		res habitstore.ToggleResult
		err error
	)
	if req.Day == nil {
		res, err = h.store.Toggle(id)
	} else {
		res, err = h.store.ToggleCompletion(id, *req.Day)
	}
	if err != nil {
		writeError(w, "toggle habit", err, slog.Int("habit_id", id))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HabitHistory handles GET /api/habits/{id}/history.
//
//	@Summary	Completed dates over the last days
//	@Tags		habits
//	@Produce	json
//	@Param		id		path		int	true	"Habit id"
//	@Param		days	query		int	false	"Window size in days (default 30)"
//	@Success	200		{object}	HistoryResponse
//	@Failure	404		{object}	errResponse
//	@Router		/habits/{id}/history [get]
func (h *Handler) HabitHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := habitID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid habit id"))
		return
	}
	if _, err := h.store.Habit(id); err != nil {
		writeError(w, "habit history", err, slog.Int("habit_id", id))
		return
	}

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = defaultHistoryDays
	}
	days = min(days, maxHistoryDays)

	now := h.store.Now()
	y, m, d := now.Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))

	dates := []string{}
	if h.history != nil {
		got, err := h.history.History(r.Context(), id, since)
		if err != nil {
			writeError(w, "habit history", err, slog.Int("habit_id", id))
			return
		}
		dates = append(dates, got...)
	}
	writeJSON(w, http.StatusOK, HistoryResponse{
		HabitID:        id,
		Days:           days,
		Since:          since.Format(time.DateOnly),
		CompletedDates: dates,
	})
}

// Dashboard handles GET /api/dashboard.
//
//	@Summary	Dashboard view
//	@Tags		views
//	@Produce	json
//	@Success	200	{object}	view.Dashboard
//	@Router		/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.views.Dashboard())
}

// Progress handles GET /api/progress.
//
//	@Summary	Overall and per-habit progress
//	@Tags		views
//	@Produce	json
//	@Success	200	{object}	ProgressResponse
//	@Router		/progress [get]
func (h *Handler) Progress(w http.ResponseWriter, _ *http.Request) {
	habits := h.store.Habits()
	resp := ProgressResponse{
		Overall: view.NewProgress(habitstore.OverallProgress(habits)),
		Habits:  make([]HabitProgress, 0, len(habits)),
	}
	for _, hb := range habits {
		resp.Habits = append(resp.Habits, HabitProgress{
			ID:        hb.ID,
			Completed: len(hb.Completed),
			Target:    hb.Target,
			Progress:  view.NewProgress(habitstore.HabitProgress(hb)),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Week handles GET /api/week.
//
//	@Summary	Days of the current week
//	@Tags		views
//	@Produce	json
//	@Success	200	{object}	WeekResponse
//	@Router		/week [get]
func (h *Handler) Week(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, WeekResponse{Today: h.store.Today(), Days: h.store.CurrentWeekDays()})
}

// GetSettings handles GET /api/settings.
//
//	@Summary	Stored preferences
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	models.Settings
//	@Router		/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Settings())
}

// UpdateSettings handles PUT /api/settings.
//
//	@Summary	Replace stored preferences
//	@Tags		settings
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.Settings	true	"Preferences"
//	@Success	200		{object}	models.Settings
//	@Failure	400		{object}	errResponse
//	@Router		/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.Settings
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	s, err := h.store.UpdateSettings(req)
	if err != nil {
		writeError(w, "update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
