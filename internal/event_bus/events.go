package event_bus

const (
	CalendarEventCreatedType EventType = "calendar.event.created"
	CalendarEventUpdatedType EventType = "calendar.event.updated"
	CalendarEventDeletedType EventType = "calendar.event.deleted"
)

type CalendarEventChanged struct {
	UID       string
	Title     string
	Date      string
	StartTime string
	EndTime   string
	Category  string
}

type CalendarEventDeleted struct {
	UID  string
	Date string
}
