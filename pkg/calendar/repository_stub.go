package calendar

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu      sync.RWMutex
	events  []Event
	saveErr error
	saves   int
}

func NewRepositoryStub(events ...Event) *RepositoryStub {
	return &RepositoryStub{events: append([]Event(nil), events...)}
}

func (r *RepositoryStub) LoadAll(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Event{}, r.events...), nil
}

func (r *RepositoryStub) SaveAll(ctx context.Context, events []Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.events = append([]Event{}, events...)
	r.saves++
	return nil
}

// SetSaveError makes every following SaveAll fail with err.
func (r *RepositoryStub) SetSaveError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}

// Saves returns how many times SaveAll succeeded.
func (r *RepositoryStub) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.saveErr = nil
	r.saves = 0
}
