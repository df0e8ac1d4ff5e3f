package month_grid

import (
	"errors"
	"fmt"
	"time"
)

// MonthLayout is the query format of a displayed month, e.g. "2026-10".
const MonthLayout = "2006-01"

var ErrInvalidMonth = errors.New("month must be in yyyy-MM format")

// Cell is one day of the displayed grid.
type Cell struct {
	Date           time.Time
	Day            int
	IsCurrentMonth bool
	IsToday        bool
}

type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// Generate returns the days of monthRef's month padded to full Sunday-first
// weeks, in ascending order. IsToday is evaluated against now.
func Generate(monthRef time.Time, now time.Time) []Cell {
	first := time.Date(monthRef.Year(), monthRef.Month(), 1, 0, 0, 0, 0, monthRef.Location())
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	nowInLoc := now.In(monthRef.Location())
	cells := make([]Cell, 0, 42)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		cells = append(cells, Cell{
			Date:           d,
			Day:            d.Day(),
			IsCurrentMonth: d.Month() == monthRef.Month(),
			IsToday:        sameDay(d, nowInLoc),
		})
	}
	return cells
}

// Navigate moves monthRef one month in the given direction. The day of month
// is clamped to the length of the target month, so Jan 31 becomes Feb 28.
func Navigate(monthRef time.Time, direction Direction) time.Time {
	step := 1
	if direction == Previous {
		step = -1
	}
	firstOfTarget := time.Date(monthRef.Year(), monthRef.Month()+time.Month(step), 1,
		monthRef.Hour(), monthRef.Minute(), monthRef.Second(), monthRef.Nanosecond(), monthRef.Location())
	day := min(monthRef.Day(), daysIn(firstOfTarget))
	return firstOfTarget.AddDate(0, 0, day-1)
}

// MonthName returns the grid title, e.g. "October 2026".
func MonthName(monthRef time.Time) string {
	return monthRef.Format("January 2006")
}

func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return t, nil
}

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "next":
		return Next, true
	case "prev", "previous":
		return Previous, true
	default:
		return 0, false
	}
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
