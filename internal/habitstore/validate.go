package habitstore

import (
	"fmt"
	"regexp"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/habitus/internal/apperr"
	"github.com/starford/habitus/internal/models"
	"github.com/starford/habitus/internal/week"
)

var (
	colorRe        = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	reminderTimeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// NewHabit is the input of AddHabit.
type NewHabit struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Target int    `json:"target"`
}

// Validate checks the new habit fields.
func (n NewHabit) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Name, validation.Required, validation.Length(1, 80)),
		validation.Field(&n.Color, validation.Required, validation.Match(colorRe)),
		validation.Field(&n.Target, validation.Required, validation.Min(1), validation.Max(week.LastSlot)),
	)
}

// normalize validates a seed record and returns a copy whose completed set
// is sorted and free of duplicates.
func normalize(rec models.Habit) (models.Habit, error) {
	err := validation.ValidateStruct(&rec,
		validation.Field(&rec.ID, validation.Required, validation.Min(1)),
		validation.Field(&rec.Name, validation.Required),
		validation.Field(&rec.Color, validation.Required, validation.Match(colorRe)),
		validation.Field(&rec.Target, validation.Required, validation.Min(1), validation.Max(week.LastSlot)),
		validation.Field(&rec.Streak, validation.Min(0)),
	)
	if err != nil {
		return models.Habit{}, fmt.Errorf("%w: habit %d: %v", apperr.ErrValidation, rec.ID, err)
	}

	out := rec.Clone()
	for _, d := range out.Completed {
		if !week.ValidSlot(d) {
			return models.Habit{}, fmt.Errorf("habit %d: %w: got %d", rec.ID, apperr.ErrInvalidDaySlot, d)
		}
	}
	slices.Sort(out.Completed)
	out.Completed = slices.Compact(out.Completed)
	return out, nil
}

func validateSettings(s *models.Settings) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Theme, validation.Required,
			validation.In(models.ThemeDefault, models.ThemeDark, models.ThemeLight, models.ThemeBlue)),
		validation.Field(&s.ReminderTime, validation.Required, validation.Match(reminderTimeRe)),
	)
}
