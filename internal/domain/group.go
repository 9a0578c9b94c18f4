package domain

import "sort"

// DayGroup holds the logs for one calendar date, ordered by start time.
type DayGroup struct {
	Date string
	Logs []Log
}

// GroupByDay buckets logs by calendar date. Groups are ordered by ascending
// date string and entries within a group by ascending start time. The input
// slice is not modified.
func GroupByDay(logs []Log) []DayGroup {
	byDate := make(map[string][]Log)
	for _, l := range logs {
		byDate[l.Date] = append(byDate[l.Date], l)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	groups := make([]DayGroup, 0, len(dates))
	for _, d := range dates {
		day := byDate[d]
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].StartTime.Before(day[j].StartTime)
		})
		groups = append(groups, DayGroup{Date: d, Logs: day})
	}
	return groups
}
