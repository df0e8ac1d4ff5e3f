package calendar

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/eventcal/internal/test_utils"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	var err error
	pgContainer, openDb, err = test_utils.TestWithDB()
	if err != nil {
		log.Warnf("postgres tests disabled: %v", err)
		openDb = nil
	}
	code := m.Run()
	if pgContainer != nil {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl) {
	if openDb == nil {
		t.Skip("postgres container not available")
	}
	ctx := context.Background()
	db := openDb()
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	return ctx, NewRepository(db)
}

func TestRepositoryImpl_LoadAllEmpty(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	events, err := repo.LoadAll(ctx)

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRepositoryImpl_SaveAll(t *testing.T) {
	t.Run("should keep order and fields", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		events := []Event{
			meeting("b", "2026-10-14", "13:00", "14:00"),
			meeting("a", "2026-10-14", "09:00", "10:00"),
			{UID: "c", Title: "Call mom", Date: "2026-10-15", StartTime: "19:00", EndTime: "19:30", Description: "weekly", Category: CategoryPersonal},
		}

		// when
		err := repo.SaveAll(ctx, events)

		// then
		require.NoError(t, err)
		got, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, events, got)
	})

	t.Run("should replace previous collection", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		require.NoError(t, repo.SaveAll(ctx, []Event{meeting("a", "2026-10-14", "09:00", "10:00")}))

		// when
		err := repo.SaveAll(ctx, []Event{meeting("b", "2026-10-14", "11:00", "12:00")})

		// then
		require.NoError(t, err)
		got, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].UID)
	})

	t.Run("should roll back on duplicate uid", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		original := []Event{meeting("a", "2026-10-14", "09:00", "10:00")}
		require.NoError(t, repo.SaveAll(ctx, original))

		// when
		err := repo.SaveAll(ctx, []Event{
			meeting("x", "2026-10-14", "09:00", "10:00"),
			meeting("x", "2026-10-14", "11:00", "12:00"),
		})

		// then
		assert.ErrorIs(t, err, ErrStorage)
		got, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, original, got)
	})
}
