package calendar

import (
	"context"
	"errors"
)

var ErrStorage = errors.New("event storage failure")

// Store persists the whole event collection. The order of events passed to
// SaveAll is the order LoadAll returns them in.
type Store interface {
	LoadAll(ctx context.Context) ([]Event, error)
	SaveAll(ctx context.Context, events []Event) error
}
