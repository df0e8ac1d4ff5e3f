package month_grid

import (
	"context"
	"net/http"
	"time"

	"github.com/klokku/eventcal/internal/rest"
	"github.com/klokku/eventcal/internal/utils"
	"github.com/klokku/eventcal/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

// EventsProvider returns every stored event; used to count events per cell.
type EventsProvider func(ctx context.Context) ([]calendar.Event, error)

type Handler struct {
	events EventsProvider
	clock  utils.Clock
	loc    *time.Location
}

type CellDTO struct {
	Date           string `json:"date"`
	Day            int    `json:"day"`
	IsCurrentMonth bool   `json:"isCurrentMonth"`
	IsToday        bool   `json:"isToday"`
	EventCount     int    `json:"eventCount"`
}

type GridDTO struct {
	Month string    `json:"month"`
	Title string    `json:"title"`
	Cells []CellDTO `json:"cells"`
}

func NewHandler(events EventsProvider, clock utils.Clock, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{events: events, clock: clock, loc: loc}
}

// GetGrid godoc
// @Summary Get calendar grid
// @Description Full weeks around the given month (current month by default), optionally moved by direction
// @Param month query string false "Month in yyyy-MM format"
// @Param direction query string false "next or prev"
// @Router /api/calendar/grid [get]
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now().In(h.loc)
	monthRef := now
	if month := r.URL.Query().Get("month"); month != "" {
		parsed, err := ParseMonth(month, h.loc)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid month format", "'month' must be in yyyy-MM format")
			return
		}
		monthRef = parsed
	}
	if direction := r.URL.Query().Get("direction"); direction != "" {
		d, ok := ParseDirection(direction)
		if !ok {
			rest.WriteError(w, http.StatusBadRequest, "Invalid direction", "'direction' must be next or prev")
			return
		}
		monthRef = Navigate(monthRef, d)
	}

	events, err := h.events(r.Context())
	if err != nil {
		log.Errorf("failed to load events for grid: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load events", err.Error())
		return
	}
	counts := make(map[string]int, len(events))
	for _, e := range events {
		counts[e.Date]++
	}

	cells := Generate(monthRef, now)
	dto := GridDTO{
		Month: monthRef.Format(MonthLayout),
		Title: MonthName(monthRef),
		Cells: make([]CellDTO, 0, len(cells)),
	}
	for _, c := range cells {
		date := calendar.FormatDate(c.Date)
		dto.Cells = append(dto.Cells, CellDTO{
			Date:           date,
			Day:            c.Day,
			IsCurrentMonth: c.IsCurrentMonth,
			IsToday:        c.IsToday,
			EventCount:     counts[date],
		})
	}
	log.Tracef("grid %s with %d cells", dto.Month, len(dto.Cells))
	rest.WriteJSON(w, http.StatusOK, dto)
}
