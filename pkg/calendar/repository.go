package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// RepositoryImpl keeps one row per event in PostgreSQL.
type RepositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *RepositoryImpl) getQueryer() interface {
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo *RepositoryImpl) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// The Rollback will be a no-op if the transaction was already committed
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	txRepo := &RepositoryImpl{db: r.db, tx: tx}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) LoadAll(ctx context.Context) ([]Event, error) {
	query := `SELECT uid, title, event_date, start_time, end_time, description, category
			  FROM calendar_event
			  ORDER BY position`

	rows, err := r.getQueryer().Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("%w: could not query calendar events: %v", ErrStorage, err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 10)
	for rows.Next() {
		var e Event
		var category string
		if err := rows.Scan(&e.UID, &e.Title, &e.Date, &e.StartTime, &e.EndTime, &e.Description, &category); err != nil {
			err := fmt.Errorf("%w: could not scan row: %v", ErrStorage, err)
			log.Error(err)
			return nil, err
		}
		e.Category = ParseCategory(category)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return events, nil
}

// SaveAll replaces the stored collection in a single transaction.
func (r *RepositoryImpl) SaveAll(ctx context.Context, events []Event) error {
	if r.tx == nil {
		return r.WithTransaction(ctx, func(repo *RepositoryImpl) error {
			return repo.SaveAll(ctx, events)
		})
	}

	if _, err := r.tx.Exec(ctx, `DELETE FROM calendar_event`); err != nil {
		err := fmt.Errorf("%w: could not clear calendar events: %v", ErrStorage, err)
		log.Error(err)
		return err
	}
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, e := range events {
		batch.Queue(`INSERT INTO calendar_event (
                            uid,
                            title,
                            event_date,
                            start_time,
                            end_time,
                            description,
                            category,
                            position
						) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.UID, e.Title, e.Date, e.StartTime, e.EndTime, e.Description, string(e.Category), i)
	}
	results := r.tx.SendBatch(ctx, batch)
	defer results.Close()
	for range events {
		if _, err := results.Exec(); err != nil {
			err := fmt.Errorf("%w: could not insert calendar event: %v", ErrStorage, err)
			log.Error(err)
			return err
		}
	}
	return nil
}
