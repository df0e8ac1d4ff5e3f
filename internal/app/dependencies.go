package app

import (
	"time"

	"github.com/klokku/eventcal/internal/config"
	"github.com/klokku/eventcal/internal/event_bus"
	"github.com/klokku/eventcal/internal/utils"
	"github.com/klokku/eventcal/pkg/calendar"
	"github.com/klokku/eventcal/pkg/export"
	"github.com/klokku/eventcal/pkg/month_grid"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock
	Location *time.Location

	CalendarStore   calendar.Store
	CalendarService *calendar.Service
	CalendarHandler *calendar.Handler

	MonthGridHandler *month_grid.Handler

	Exporter      *export.Exporter
	ExportHandler *export.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(store calendar.Store, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	subscribeChangeLog(deps.EventBus)

	deps.Clock = utils.SystemClock{}
	deps.Location = time.Local

	deps.CalendarStore = store
	deps.CalendarService = calendar.NewService(store, deps.EventBus)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	deps.MonthGridHandler = month_grid.NewHandler(deps.CalendarService.GetAll, deps.Clock, deps.Location)

	deps.Exporter = export.NewExporter(deps.Clock, deps.Location)
	deps.ExportHandler = export.NewHandler(deps.CalendarService.GetAll, deps.Exporter)

	return deps
}

func subscribeChangeLog(eb *event_bus.EventBus) {
	logChanged := func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
		log.Debugf("%s: %s %q on %s %s-%s", e.Type, e.Data.UID, e.Data.Title, e.Data.Date, e.Data.StartTime, e.Data.EndTime)
		return nil
	}
	event_bus.SubscribeTyped(eb, event_bus.CalendarEventCreatedType, logChanged)
	event_bus.SubscribeTyped(eb, event_bus.CalendarEventUpdatedType, logChanged)
	event_bus.SubscribeTyped(eb, event_bus.CalendarEventDeletedType, func(e event_bus.EventT[event_bus.CalendarEventDeleted]) error {
		log.Debugf("%s: %s on %s", e.Type, e.Data.UID, e.Data.Date)
		return nil
	})
}
