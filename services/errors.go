package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("invalid booking request")
	ErrNoAvailability   = errors.New("no table available for the requested slot")
	ErrConflict         = errors.New("table already booked for an overlapping slot")
	ErrCapacityExceeded = errors.New("party size exceeds table seats")
	ErrNotFound         = errors.New("booking not found")
	ErrTableNotFound    = errors.New("table not found")
	ErrUnauthorized     = errors.New("not allowed to administer bookings")
	ErrStorage          = errors.New("storage failure")
)

// ValidationError names the rejected field and the message key shown to
// the requester. Args fill placeholders of that message.
type ValidationError struct {
	Field string
	Key   string
	Args  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Key)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, key string, args ...string) *ValidationError {
	return &ValidationError{Field: field, Key: key, Args: args}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// asStorage wraps err as a storage failure unless it already is one.
func asStorage(op string, err error) error {
	if errors.Is(err, ErrStorage) {
		return err
	}
	return storageErr(op, err)
}
