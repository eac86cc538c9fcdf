package week

import (
	"testing"
	"time"
)

func TestSlot(t *testing.T) {
	// 2026-10-18 is a Sunday.
	sun := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	if got := Slot(sun); got != 1 {
		t.Errorf("Slot(sunday) = %d, want 1", got)
	}
	sat := sun.AddDate(0, 0, 6)
	if got := Slot(sat); got != 7 {
		t.Errorf("Slot(saturday) = %d, want 7", got)
	}
}

func TestStart(t *testing.T) {
	wed := time.Date(2026, 10, 21, 23, 59, 0, 0, time.UTC)
	want := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	if got := Start(wed); !got.Equal(want) {
		t.Errorf("Start = %v, want %v", got, want)
	}
	if got := Start(want); !got.Equal(want) {
		t.Errorf("Start(sunday midnight) = %v, want itself", got)
	}
}

func TestDays_SpansMonthBoundary(t *testing.T) {
	// Tuesday 2026-11-03; the week starts on Sunday 2026-11-01.
	now := time.Date(2026, 11, 3, 12, 0, 0, 0, time.UTC)
	days := Days(now)
	if len(days) != 7 {
		t.Fatalf("len = %d, want 7", len(days))
	}
	wantDates := []int{1, 2, 3, 4, 5, 6, 7}
	wantNames := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, d := range days {
		if d.Slot != i+1 {
			t.Errorf("days[%d].Slot = %d", i, d.Slot)
		}
		if d.Date != wantDates[i] || d.Name != wantNames[i] {
			t.Errorf("days[%d] = %+v", i, d)
		}
		if d.IsToday != (i == 2) {
			t.Errorf("days[%d].IsToday = %v", i, d.IsToday)
		}
	}

	// Saturday 2026-10-31 belongs to the week starting 2026-10-25.
	days = Days(time.Date(2026, 10, 31, 8, 0, 0, 0, time.UTC))
	if days[0].Date != 25 || days[6].Date != 31 || !days[6].IsToday {
		t.Errorf("unexpected week: %+v", days)
	}
}

func TestValidSlot(t *testing.T) {
	for _, s := range []int{0, -1, 8} {
		if ValidSlot(s) {
			t.Errorf("ValidSlot(%d) = true", s)
		}
	}
	for s := 1; s <= 7; s++ {
		if !ValidSlot(s) {
			t.Errorf("ValidSlot(%d) = false", s)
		}
	}
}
