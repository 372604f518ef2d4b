package prescription

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no row matched an edit or delete target.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned by the store when an allocated prescription
	// id already exists.
	ErrDuplicateID = errors.New("duplicate prescription id")
	// ErrConflict means every create attempt collided on the prescription id.
	ErrConflict = errors.New("prescription id conflict")
	// ErrIDSpaceExhausted means RX9999 has been allocated.
	ErrIDSpaceExhausted = errors.New("prescription id space exhausted")
)

// ValidationError reports missing or malformed input. It is raised before
// the store is touched.
type ValidationError struct {
	Msg    string
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Fields)
}

// StoreError wraps an unexpected failure talking to the database.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
