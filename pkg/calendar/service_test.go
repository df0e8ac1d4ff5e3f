package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/eventcal/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServiceTest(t *testing.T, existing ...Event) (*Service, *RepositoryStub, *event_bus.EventBus) {
	t.Helper()
	repo := NewRepositoryStub(existing...)
	bus := event_bus.NewEventBus()
	return NewService(repo, bus), repo, bus
}

func meeting(uid, date, start, end string) Event {
	return Event{UID: uid, Title: "Meeting " + uid, Date: date, StartTime: start, EndTime: end, Category: CategoryWork}
}

func TestService_AddEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns uid and normalizes fields", func(t *testing.T) {
		s, repo, bus := setupServiceTest(t)
		var published []event_bus.CalendarEventChanged
		event_bus.SubscribeTyped(bus, event_bus.CalendarEventCreatedType, func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
			published = append(published, e.Data)
			return nil
		})

		added, err := s.AddEvent(ctx, Event{
			UID:       "ignored",
			Title:     "  Dentist ",
			Date:      "2026-10-14",
			StartTime: "9:5",
			EndTime:   "10:00",
		})

		require.NoError(t, err)
		assert.NotEqual(t, "ignored", added.UID)
		_, parseErr := uuid.Parse(added.UID)
		assert.NoError(t, parseErr)
		assert.Equal(t, "Dentist", added.Title)
		assert.Equal(t, "09:05", added.StartTime)
		assert.Equal(t, CategoryOther, added.Category)

		stored, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, *added, stored[0])

		require.Len(t, published, 1)
		assert.Equal(t, added.UID, published[0].UID)
	})

	t.Run("rejects invalid input without saving", func(t *testing.T) {
		s, repo, _ := setupServiceTest(t)

		_, err := s.AddEvent(ctx, Event{Title: " ", Date: "2026-10-14", StartTime: "09:00", EndTime: "10:00"})
		assert.ErrorIs(t, err, ErrMissingTitle)

		_, err = s.AddEvent(ctx, Event{Title: "Late", Date: "2026-10-14", StartTime: "10:00", EndTime: "09:00"})
		assert.ErrorIs(t, err, ErrInvalidOrder)

		_, err = s.AddEvent(ctx, Event{Title: "No date", StartTime: "09:00", EndTime: "10:00"})
		assert.ErrorIs(t, err, ErrMissingDate)

		_, err = s.AddEvent(ctx, Event{Title: "Bad date", Date: "14.10.2026", StartTime: "09:00", EndTime: "10:00"})
		assert.ErrorIs(t, err, ErrInvalidDate)

		assert.Equal(t, 0, repo.Saves())
	})

	t.Run("rejects conflicting event with suggestions", func(t *testing.T) {
		s, repo, _ := setupServiceTest(t,
			meeting("a", "2026-10-14", "09:00", "10:00"),
			meeting("b", "2026-10-14", "13:00", "14:00"),
		)

		_, err := s.AddEvent(ctx, Event{Title: "Overlap", Date: "2026-10-14", StartTime: "09:30", EndTime: "10:30"})

		require.ErrorIs(t, err, ErrTimeConflict)
		var conflictErr *ConflictError
		require.True(t, errors.As(err, &conflictErr))
		require.Len(t, conflictErr.Conflicting, 1)
		assert.Equal(t, "a", conflictErr.Conflicting[0].UID)
		assert.Equal(t, []TimeSlot{
			slot("00:00", "09:00"),
			slot("10:00", "13:00"),
			slot("14:00", "23:59"),
		}, conflictErr.SuggestedSlots)
		assert.Equal(t, 0, repo.Saves())
	})

	t.Run("same time on another date is not a conflict", func(t *testing.T) {
		s, _, _ := setupServiceTest(t, meeting("a", "2026-10-14", "09:00", "10:00"))

		_, err := s.AddEvent(ctx, Event{Title: "Tomorrow", Date: "2026-10-15", StartTime: "09:00", EndTime: "10:00"})

		assert.NoError(t, err)
	})

	t.Run("adjacent event is accepted", func(t *testing.T) {
		s, _, _ := setupServiceTest(t, meeting("a", "2026-10-14", "09:00", "10:00"))

		_, err := s.AddEvent(ctx, Event{Title: "Next", Date: "2026-10-14", StartTime: "10:00", EndTime: "11:00"})

		assert.NoError(t, err)
	})

	t.Run("storage error is returned", func(t *testing.T) {
		s, repo, _ := setupServiceTest(t)
		repo.SetSaveError(ErrStorage)

		_, err := s.AddEvent(ctx, Event{Title: "Any", Date: "2026-10-14", StartTime: "09:00", EndTime: "10:00"})

		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestService_UpdateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps identity and position", func(t *testing.T) {
		s, repo, _ := setupServiceTest(t,
			meeting("a", "2026-10-14", "09:00", "10:00"),
			meeting("b", "2026-10-14", "13:00", "14:00"),
		)

		updated, err := s.UpdateEvent(ctx, Event{UID: "a", Title: "Moved", Date: "2026-10-14", StartTime: "09:30", EndTime: "10:30", Category: "personal"})

		require.NoError(t, err)
		assert.Equal(t, "a", updated.UID)
		stored, _ := repo.LoadAll(ctx)
		require.Len(t, stored, 2)
		assert.Equal(t, "a", stored[0].UID)
		assert.Equal(t, "Moved", stored[0].Title)
		assert.Equal(t, CategoryPersonal, stored[0].Category)
		assert.Equal(t, "b", stored[1].UID)
	})

	t.Run("does not conflict with itself", func(t *testing.T) {
		s, _, _ := setupServiceTest(t, meeting("a", "2026-10-14", "09:00", "10:00"))

		_, err := s.UpdateEvent(ctx, Event{UID: "a", Title: "Longer", Date: "2026-10-14", StartTime: "09:00", EndTime: "11:00"})

		assert.NoError(t, err)
	})

	t.Run("conflicts with other events", func(t *testing.T) {
		s, _, _ := setupServiceTest(t,
			meeting("a", "2026-10-14", "09:00", "10:00"),
			meeting("b", "2026-10-14", "10:00", "11:00"),
		)

		_, err := s.UpdateEvent(ctx, Event{UID: "a", Title: "Longer", Date: "2026-10-14", StartTime: "09:00", EndTime: "10:30"})

		assert.ErrorIs(t, err, ErrTimeConflict)
	})

	t.Run("unknown event", func(t *testing.T) {
		s, _, _ := setupServiceTest(t)

		_, err := s.UpdateEvent(ctx, meeting("missing", "2026-10-14", "09:00", "10:00"))
		assert.ErrorIs(t, err, ErrEventNotFound)

		_, err = s.UpdateEvent(ctx, meeting("", "2026-10-14", "09:00", "10:00"))
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestService_DeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("removes event and publishes", func(t *testing.T) {
		s, repo, bus := setupServiceTest(t,
			meeting("a", "2026-10-14", "09:00", "10:00"),
			meeting("b", "2026-10-14", "13:00", "14:00"),
		)
		var deleted []string
		event_bus.SubscribeTyped(bus, event_bus.CalendarEventDeletedType, func(e event_bus.EventT[event_bus.CalendarEventDeleted]) error {
			deleted = append(deleted, e.Data.UID)
			return nil
		})

		require.NoError(t, s.DeleteEvent(ctx, "a"))

		stored, _ := repo.LoadAll(ctx)
		require.Len(t, stored, 1)
		assert.Equal(t, "b", stored[0].UID)
		assert.Equal(t, []string{"a"}, deleted)
	})

	t.Run("unknown event", func(t *testing.T) {
		s, _, _ := setupServiceTest(t)
		assert.ErrorIs(t, s.DeleteEvent(ctx, "missing"), ErrEventNotFound)
	})
}

func TestService_GetEventsForDate(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupServiceTest(t,
		meeting("a", "2026-10-14", "09:00", "10:00"),
		meeting("b", "2026-10-15", "09:00", "10:00"),
		meeting("c", "2026-10-14", "13:00", "14:00"),
	)

	events, err := s.GetEventsForDate(ctx, "2026-10-14")

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].UID)
	assert.Equal(t, "c", events[1].UID)

	_, err = s.GetEventsForDate(ctx, "tomorrow")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestService_SuggestSlots(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupServiceTest(t,
		meeting("a", "2026-10-14", "09:00", "10:00"),
		meeting("b", "2026-10-14", "13:00", "14:00"),
		meeting("c", "2026-10-15", "00:00", "23:59"),
	)

	slots, err := s.SuggestSlots(ctx, "2026-10-14", 0)
	require.NoError(t, err)
	assert.Equal(t, []TimeSlot{
		slot("00:00", "09:00"),
		slot("10:00", "13:00"),
		slot("14:00", "23:59"),
	}, slots)

	slots, err = s.SuggestSlots(ctx, "2026-10-14", 4*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []TimeSlot{slot("00:00", "09:00"), slot("14:00", "23:59")}, slots)

	slots, err = s.SuggestSlots(ctx, "2026-10-15", 0)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
