package calendar

import (
	"context"
	"testing"

	"github.com/klokku/eventcal/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupKeyValueRepository(t *testing.T) *KeyValueRepository {
	db := test_utils.SetupTestDB(t)
	return NewKeyValueRepository(db)
}

func TestKeyValueRepository_LoadAllEmpty(t *testing.T) {
	repo := setupKeyValueRepository(t)

	events, err := repo.LoadAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestKeyValueRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := setupKeyValueRepository(t)
	events := []Event{
		meeting("b", "2026-10-14", "13:00", "14:00"),
		{UID: "a", Title: `Quote "me"`, Date: "2026-10-14", StartTime: "09:00", EndTime: "10:00", Description: "notes", Category: CategoryPersonal},
	}

	require.NoError(t, repo.SaveAll(ctx, events))
	got, err := repo.LoadAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, events, got)
}

func TestKeyValueRepository_SaveAllReplaces(t *testing.T) {
	ctx := context.Background()
	repo := setupKeyValueRepository(t)

	require.NoError(t, repo.SaveAll(ctx, []Event{meeting("a", "2026-10-14", "09:00", "10:00")}))
	require.NoError(t, repo.SaveAll(ctx, nil))
	got, err := repo.LoadAll(ctx)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestKeyValueRepository_WithService(t *testing.T) {
	ctx := context.Background()
	s := NewService(setupKeyValueRepository(t), nil)

	added, err := s.AddEvent(ctx, Event{Title: "Gym", Date: "2026-10-14", StartTime: "18:00", EndTime: "19:00"})
	require.NoError(t, err)

	events, err := s.GetEventsForDate(ctx, "2026-10-14")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, added.UID, events[0].UID)
}
