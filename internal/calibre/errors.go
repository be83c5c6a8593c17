package calibre

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a library resource (cover, format file,
// library folder) does not exist or is not readable.
var ErrNotFound = errors.New("record not found")

// StoreError wraps a failure reported by the metadata database.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("calibre: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// storeErr wraps err into a StoreError, passing nil through.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
