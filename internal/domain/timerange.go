package domain

import "time"

// DateRange is an inclusive [Start, End] window for export generation.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StartDate returns the range start as a calendar-date string.
func (r DateRange) StartDate() string { return r.Start.Format(DateLayout) }

// EndDate returns the range end as a calendar-date string.
func (r DateRange) EndDate() string { return r.End.Format(DateLayout) }

// RangeForView resolves a view to a concrete date range relative to now.
// Today spans the current calendar day; the week views span Monday through
// Sunday with last-week shifted back exactly one week. Boundaries are
// normalized to the start and end of their days.
func RangeForView(v View, now time.Time) DateRange {
	switch v {
	case ViewThisWeek:
		return weekOf(now)
	case ViewLastWeek:
		return weekOf(now.AddDate(0, 0, -7))
	default:
		return DateRange{Start: startOfDay(now), End: endOfDay(now)}
	}
}

// weekOf returns the Monday-anchored week containing t, running from
// Monday 00:00:00 through Sunday 23:59:59.
func weekOf(t time.Time) DateRange {
	// time.Weekday numbers Sunday as 0; fold it onto the end of the week.
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	monday := t.AddDate(0, 0, -offset)
	return DateRange{Start: startOfDay(monday), End: endOfDay(monday.AddDate(0, 0, 6))}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
