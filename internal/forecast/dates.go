package forecast

import (
	"math"
	"time"

	"github.com/Dan9191/cash-coach/internal/models"
)

// parseDay parses a calendar day, ignoring any time-of-day suffix
func parseDay(s string) (time.Time, bool) {
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// truncateDay drops the time of day, keeping the calendar date of t
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ShiftDate moves a calendar day by n days using real calendar arithmetic
func ShiftDate(date string, days int) (string, bool) {
	t, ok := parseDay(date)
	if !ok {
		return "", false
	}
	return t.AddDate(0, 0, days).Format(models.DateLayout), true
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
