package calendar

import (
	"strings"
	"time"
)

// DateLayout is the persisted format of Event.Date.
const DateLayout = "2006-01-02"

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryOther    Category = "other"
)

// ParseCategory maps unknown or empty values to CategoryOther.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryWork:
		return CategoryWork
	case CategoryPersonal:
		return CategoryPersonal
	default:
		return CategoryOther
	}
}

type Event struct {
	UID         string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
}

// TimeRange parses the start and end times of the event.
func (e Event) TimeRange() (TimeRange, error) {
	start, err := ParseTimeOfDay(e.StartTime)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := ParseTimeOfDay(e.EndTime)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: start, End: end}, nil
}

// Day parses Event.Date as a calendar date in the given location.
func (e Event) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, e.Date, loc)
}

// normalized returns a copy with trimmed text, zero-padded times and a known category.
// Times that do not parse are left as they are so validation can report them.
func (e Event) normalized() Event {
	e.Title = strings.TrimSpace(e.Title)
	e.Date = strings.TrimSpace(e.Date)
	e.Description = strings.TrimSpace(e.Description)
	e.Category = ParseCategory(string(e.Category))
	if t, err := ParseTimeOfDay(e.StartTime); err == nil {
		e.StartTime = t.String()
	}
	if t, err := ParseTimeOfDay(e.EndTime); err == nil {
		e.EndTime = t.String()
	}
	return e
}

// FormatDate formats t the way Event.Date is stored.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func eventsForDate(events []Event, date string) []Event {
	result := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Date == date {
			result = append(result, e)
		}
	}
	return result
}
