package app

import (
	"github.com/gorilla/mux"
	"github.com/klokku/eventcal/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Events
	r.HandleFunc("/api/calendar/event", deps.CalendarHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/calendar/event", deps.CalendarHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/calendar/event/{eventUid}", deps.CalendarHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/calendar/event/{eventUid}", deps.CalendarHandler.DeleteEvent).Methods("DELETE")

	// Free slots
	r.HandleFunc("/api/calendar/slots", deps.CalendarHandler.GetFreeSlots).Methods("GET")

	// Month grid
	r.HandleFunc("/api/calendar/grid", deps.MonthGridHandler.GetGrid).Methods("GET")

	// Export
	r.HandleFunc("/api/calendar/export", deps.ExportHandler.Export).Methods("GET")
}
