package calendar

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// StorageKey is the key the event collection is stored under.
const StorageKey = "calendar-events"

// KeyValueRepository stores the whole collection as one JSON value in a
// key-value table, the way a browser keeps it in local storage.
type KeyValueRepository struct {
	db  *sql.DB
	key string
}

func NewKeyValueRepository(db *sql.DB) *KeyValueRepository {
	return &KeyValueRepository{db: db, key: StorageKey}
}

func (r *KeyValueRepository) LoadAll(ctx context.Context) ([]Event, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []Event{}, nil
	}
	if err != nil {
		err := fmt.Errorf("%w: could not read %s: %v", ErrStorage, r.key, err)
		log.Error(err)
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal([]byte(value), &events); err != nil {
		err := fmt.Errorf("%w: could not decode %s: %v", ErrStorage, r.key, err)
		log.Error(err)
		return nil, err
	}
	for i := range events {
		events[i].Category = ParseCategory(string(events[i].Category))
	}
	return events, nil
}

func (r *KeyValueRepository) SaveAll(ctx context.Context, events []Event) error {
	if events == nil {
		events = []Event{}
	}
	value, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("%w: could not encode events: %v", ErrStorage, err)
	}

	query := `INSERT INTO kv_store (key, value) VALUES (?, ?)
			  ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("%w: could not prepare query: %v", ErrStorage, err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, r.key, string(value)); err != nil {
		err := fmt.Errorf("%w: could not execute query: %v", ErrStorage, err)
		log.Error(err)
		return err
	}
	return nil
}
