package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/klokku/eventcal/internal/rest"
	"github.com/klokku/eventcal/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

type EventsProvider func(ctx context.Context) ([]calendar.Event, error)

type Handler struct {
	events   EventsProvider
	exporter *Exporter
}

func NewHandler(events EventsProvider, exporter *Exporter) *Handler {
	return &Handler{events: events, exporter: exporter}
}

// Export godoc
// @Summary Download all events
// @Param format query string false "json (default), csv or ics"
// @Router /api/calendar/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(FormatJSON)
	}

	events, err := h.events(r.Context())
	if err != nil {
		log.Errorf("failed to load events for export: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load events", err.Error())
		return
	}

	payload, err := h.exporter.Export(events, format)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			rest.WriteError(w, http.StatusBadRequest, "Unsupported export format", "'format' must be one of json, csv, ics")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Export failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", payload.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload.Data); err != nil {
		log.Errorf("failed to write export: %v", err)
	}
}
