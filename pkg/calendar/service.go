package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/eventcal/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

var ErrTimeConflict = errors.New("an event already exists during this time")
var ErrEventNotFound = errors.New("event not found")

// ConflictError is returned when a candidate overlaps events on the same date.
type ConflictError struct {
	Conflicting    []Event
	SuggestedSlots []TimeSlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v (%d conflicting)", ErrTimeConflict, len(e.Conflicting))
}

func (e *ConflictError) Unwrap() error {
	return ErrTimeConflict
}

// Service applies validation and conflict rules before handing the new
// collection to the store.
type Service struct {
	mu       sync.Mutex
	store    Store
	eventBus *event_bus.EventBus
}

func NewService(store Store, eventBus *event_bus.EventBus) *Service {
	return &Service{
		store:    store,
		eventBus: eventBus,
	}
}

func (s *Service) AddEvent(ctx context.Context, event Event) (*Event, error) {
	event = event.normalized()
	if err := validateForStore(event); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	if err := checkConflicts(events, event, ""); err != nil {
		return nil, err
	}

	event.UID = uuid.NewString()
	if err := s.store.SaveAll(ctx, append(events, event)); err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}
	log.Debugf("event %s added on %s", event.UID, event.Date)

	s.publish(ctx, event_bus.CalendarEventCreatedType, changedPayload(event))
	return &event, nil
}

// UpdateEvent replaces the stored event with the same UID, keeping its
// position in the collection.
func (s *Service) UpdateEvent(ctx context.Context, event Event) (*Event, error) {
	event = event.normalized()
	if event.UID == "" {
		return nil, ErrEventNotFound
	}
	if err := validateForStore(event); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	idx := indexOf(events, event.UID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, event.UID)
	}
	if err := checkConflicts(events, event, event.UID); err != nil {
		return nil, err
	}

	events[idx] = event
	if err := s.store.SaveAll(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	log.Debugf("event %s updated", event.UID)

	s.publish(ctx, event_bus.CalendarEventUpdatedType, changedPayload(event))
	return &event, nil
}

func (s *Service) DeleteEvent(ctx context.Context, eventUid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	idx := indexOf(events, eventUid)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrEventNotFound, eventUid)
	}
	deleted := events[idx]

	remaining := make([]Event, 0, len(events)-1)
	remaining = append(remaining, events[:idx]...)
	remaining = append(remaining, events[idx+1:]...)
	if err := s.store.SaveAll(ctx, remaining); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	log.Debugf("event %s deleted", eventUid)

	s.publish(ctx, event_bus.CalendarEventDeletedType, event_bus.CalendarEventDeleted{UID: deleted.UID, Date: deleted.Date})
	return nil
}

func (s *Service) GetAll(ctx context.Context) ([]Event, error) {
	return s.store.LoadAll(ctx)
}

func (s *Service) GetEventsForDate(ctx context.Context, date string) ([]Event, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return eventsForDate(events, date), nil
}

// SuggestSlots returns the free slots of date lasting at least minDuration.
func (s *Service) SuggestSlots(ctx context.Context, date string, minDuration time.Duration) ([]TimeSlot, error) {
	events, err := s.GetEventsForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return SuggestSlotsFor(events, minDuration), nil
}

func (s *Service) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}

func validateForStore(event Event) error {
	if err := Validate(event); err != nil {
		return err
	}
	return validateDate(event.Date)
}

func checkConflicts(events []Event, candidate Event, excludeUid string) error {
	sameDay := eventsForDate(events, candidate.Date)
	r, err := candidate.TimeRange()
	if err != nil {
		return err
	}
	if !HasConflict(sameDay, r, excludeUid) {
		return nil
	}

	var others []Event
	for _, e := range sameDay {
		if e.UID != excludeUid {
			others = append(others, e)
		}
	}
	return &ConflictError{
		Conflicting:    Conflicts(sameDay, r, excludeUid),
		SuggestedSlots: SuggestSlotsFor(others, r.Duration()),
	}
}

func indexOf(events []Event, uid string) int {
	for i, e := range events {
		if e.UID == uid {
			return i
		}
	}
	return -1
}

func changedPayload(e Event) event_bus.CalendarEventChanged {
	return event_bus.CalendarEventChanged{
		UID:       e.UID,
		Title:     e.Title,
		Date:      e.Date,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Category:  string(e.Category),
	}
}
