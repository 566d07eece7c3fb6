package analysis

import "time"

// Window resolves the period to a half-open [start, end) interval in the
// given location. bounded is false for PeriodAll, whose window is the whole
// table.
func (p Period) Window(now time.Time, loc *time.Location) (start, end time.Time, bounded bool) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch p {
	case PeriodDaily:
		return today.AddDate(0, 0, -1), today, true
	case PeriodWeekly:
		// Monday of the current week, then back one full week.
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday
		}
		thisMonday := today.AddDate(0, 0, -(weekday - 1))
		return thisMonday.AddDate(0, 0, -7), thisMonday, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// WindowDate returns the label date identifying the window: the covered day
// for daily, the covered week's Monday for weekly. Used in dedup keys and
// summary object names.
func (p Period) WindowDate(now time.Time, loc *time.Location) string {
	start, _, bounded := p.Window(now, loc)
	if !bounded {
		return "all"
	}
	return start.Format("2006-01-02")
}
