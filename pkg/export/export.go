package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/klokku/eventcal/internal/utils"
	"github.com/klokku/eventcal/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatICS  Format = "ics"
)

var csvHeader = []string{"ID", "Title", "Date", "Start Time", "End Time", "Description"}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatICS:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatICS:
		return "text/calendar"
	default:
		return "application/octet-stream"
	}
}

// Payload is a rendered export ready to be downloaded.
type Payload struct {
	Format      Format
	ContentType string
	FileName    string
	Data        []byte
}

type Exporter struct {
	clock utils.Clock
	loc   *time.Location
}

func NewExporter(clock utils.Clock, loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.Local
	}
	return &Exporter{clock: clock, loc: loc}
}

// Export renders events in the requested format.
func (x *Exporter) Export(events []calendar.Event, format string) (Payload, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return Payload{}, err
	}

	var data []byte
	switch f {
	case FormatJSON:
		data, err = renderJSON(events)
	case FormatCSV:
		data = []byte(renderCSV(events))
	case FormatICS:
		data, err = x.renderICS(events)
	}
	if err != nil {
		log.Errorf("export to %s failed: %v", f, err)
		return Payload{}, err
	}

	return Payload{
		Format:      f,
		ContentType: f.ContentType(),
		FileName:    fmt.Sprintf("events_%s.%s", calendar.FormatDate(utils.Today(x.clock, x.loc)), f),
		Data:        data,
	}, nil
}

func renderJSON(events []calendar.Event) ([]byte, error) {
	if events == nil {
		events = []calendar.Event{}
	}
	return json.MarshalIndent(events, "", "  ")
}

// renderCSV quotes every value, unlike encoding/csv which only quotes when needed.
func renderCSV(events []calendar.Event) string {
	lines := make([]string, 0, len(events)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, e := range events {
		values := []string{e.UID, e.Title, e.Date, e.StartTime, e.EndTime, e.Description}
		for i, v := range values {
			values[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(values, ","))
	}
	return strings.Join(lines, "\n")
}

func (x *Exporter) renderICS(events []calendar.Event) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//klokku//eventcal//EN")

	stamp := x.clock.Now()
	for _, e := range events {
		day, err := e.Day(x.loc)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", e.UID, err)
		}
		r, err := e.TimeRange()
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", e.UID, err)
		}

		ve := cal.AddEvent(e.UID)
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(r.Start.On(day))
		ve.SetEndAt(r.End.On(day))
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(e.Category)))
	}
	return []byte(cal.Serialize()), nil
}
