package api

import (
	"github.com/starford/habitus/internal/models"
	"github.com/starford/habitus/internal/view"
)

// CreateHabitRequest is the request body for creating a habit.
type CreateHabitRequest struct {
	Name   string `json:"name" example:"Stretch" validate:"required"`
	Color  string `json:"color" example:"#FF9800" validate:"required"`
	Target int    `json:"target" example:"5" validate:"required"`
}

// ToggleRequest is the optional body of a toggle. A missing day means today.
type ToggleRequest struct {
	Day *int `json:"day,omitempty" example:"3"`
}

// HabitListResponse wraps the habit list.
type HabitListResponse struct {
	Habits []models.Habit `json:"habits" validate:"required"`
}

// HistoryResponse lists completed dates of a habit.
type HistoryResponse struct {
	HabitID        int      `json:"habit_id" example:"1"`
	Days           int      `json:"days" example:"30"`
	Since          string   `json:"since" example:"2026-09-20"`
	CompletedDates []string `json:"completed_dates" validate:"required"`
}

// HabitProgress is the progress of one habit.
type HabitProgress struct {
	ID        int           `json:"id" example:"1"`
	Completed int           `json:"completed" example:"3"`
	Target    int           `json:"target" example:"7"`
	Progress  view.Progress `json:"progress"`
}

// ProgressResponse wraps overall and per-habit progress.
type ProgressResponse struct {
	Overall view.Progress   `json:"overall"`
	Habits  []HabitProgress `json:"habits" validate:"required"`
}

// WeekResponse lists the days of the current week.
type WeekResponse struct {
	Today int          `json:"today" example:"4"`
	Days  []models.Day `json:"days" validate:"required"`
}
