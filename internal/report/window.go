package report

import (
	"fmt"
	"time"
)

// WeekMode selects which week a report run covers relative to "today".
type WeekMode string

const (
	// WeekCurrent reports on the week containing today.
	WeekCurrent WeekMode = "current"
	// WeekPrevious reports on the week before the one containing today.
	WeekPrevious WeekMode = "previous"
	// WeekAuto picks the week most likely to be of interest: early in the
	// week (Fri through Mon) the previous week, mid-week the current one.
	WeekAuto WeekMode = "auto"
)

func ParseWeekMode(s string) (WeekMode, error) {
	switch WeekMode(s) {
	case WeekCurrent, WeekPrevious, WeekAuto:
		return WeekMode(s), nil
	default:
		return "", fmt.Errorf("invalid week mode '%s' (must be current, previous or auto)", s)
	}
}

// Window is the 7-day Sunday-through-Saturday span a report covers.
// Start and End are midnight dates in the report timezone; End is the
// last day of the span, inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// FetchEnd is the exclusive upper bound for event retrieval: the midnight
// after the last day of the window.
func (w Window) FetchEnd() time.Time {
	return w.End.AddDate(0, 0, 1)
}

func (w Window) String() string {
	return fmt.Sprintf("%s to %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// ComputeWindow derives the report window from the current time and a
// mode. The window always starts on the most recent Sunday at or before
// today and spans exactly 7 days; WeekPrevious shifts it back one week.
// It is a pure function of its inputs.
func ComputeWindow(now time.Time, mode WeekMode) Window {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekday := int(today.Weekday()) // 0=Sunday .. 6=Saturday

	if mode == WeekAuto {
		// On Fri, Sat, Sun and Mon the previous week is the one worth
		// reporting on; mid-week the current week is.
		switch today.Weekday() {
		case time.Friday, time.Saturday, time.Sunday, time.Monday:
			mode = WeekPrevious
		default:
			mode = WeekCurrent
		}
	}

	start := today.AddDate(0, 0, -weekday)
	if mode == WeekPrevious {
		start = start.AddDate(0, 0, -7)
	}

	return Window{
		Start: start,
		End:   start.AddDate(0, 0, 6),
	}
}
