package core

import "time"

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Period narrows KPI aggregation to a window of business dates.
type Period string

func (p Period) IsValid() bool {
	switch p {
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth:
		return true
	default:
		return false
	}
}

// Start returns the inclusive lower bound for the window as a YYYY-MM-DD
// string, relative to ref. Business dates compare lexicographically, so the
// bound can be applied directly to Movement.Date. An empty string means no
// lower bound. Weeks start on Monday.
func (p Period) Start(ref time.Time) string {
	switch p {
	case PeriodToday:
		return ref.Format("2006-01-02")
	case PeriodWeek:
		weekday := int(ref.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return ref.AddDate(0, 0, -(weekday - 1)).Format("2006-01-02")
	case PeriodMonth:
		return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).Format("2006-01-02")
	default:
		return ""
	}
}
