// Package dashboard implements the dashboard widgets: the calendar
// month grid and the meal menu, timetable and school lookups behind it.
package dashboard

import "time"

// Event is a calendar entry on a single day.
type Event struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// Day is one cell of the month grid. InMonth is false for the leading
// and trailing days borrowed from adjacent months.
type Day struct {
	Date    time.Time
	InMonth bool
	Events  []Event
}

// Week is one row of the grid, Sunday first.
type Week [7]Day

// MonthGrid builds the calendar grid for a month: full weeks from the
// Sunday on or before the 1st through the Saturday on or after the last
// day, with events placed on their days. Event timestamps are compared
// in the grid's location by calendar date, not by instant.
func MonthGrid(year int, month time.Month, events []Event, loc *time.Location) []Week {
	if loc == nil {
		loc = time.Local
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	last := first.AddDate(0, 1, -1)
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	byDate := make(map[string][]Event)
	for _, ev := range events {
		key := ev.Date.In(loc).Format("2006-01-02")
		byDate[key] = append(byDate[key], ev)
	}

	var weeks []Week
	for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
		var week Week
		for i := 0; i < 7; i++ {
			day := d.AddDate(0, 0, i)
			week[i] = Day{
				Date:    day,
				InMonth: day.Month() == month,
				Events:  byDate[day.Format("2006-01-02")],
			}
		}
		weeks = append(weeks, week)
	}
	return weeks
}
