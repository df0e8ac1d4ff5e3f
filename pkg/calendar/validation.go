package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMissingTitle = errors.New("event title is required")
var ErrMissingTime = errors.New("start and end times are required")
var ErrInvalidTime = errors.New("time must be in HH:MM format")
var ErrInvalidOrder = errors.New("end time must be after start time")
var ErrMissingDate = errors.New("event date is required")
var ErrInvalidDate = errors.New("event date must be in yyyy-MM-dd format")

// Validate checks the title and time fields of a candidate event.
func Validate(e Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(e.StartTime) == "" || strings.TrimSpace(e.EndTime) == "" {
		return ErrMissingTime
	}
	r, err := e.TimeRange()
	if err != nil {
		return err
	}
	if r.End <= r.Start {
		return ErrInvalidOrder
	}
	return nil
}

// IsValidationError reports whether err is one of the user-correctable input errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingTitle) ||
		errors.Is(err, ErrMissingTime) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrInvalidOrder) ||
		errors.Is(err, ErrMissingDate) ||
		errors.Is(err, ErrInvalidDate)
}

func validateDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return ErrMissingDate
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}
