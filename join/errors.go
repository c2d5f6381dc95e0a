package join

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when two data items share a key in one pass.
var ErrDuplicateKey = errors.New("join: duplicate key")

// DuplicateKeyError reports the first colliding key and both positions.
type DuplicateKeyError struct {
	Key    any
	First  int
	Second int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("join: duplicate key %v at index %d and %d", e.Key, e.First, e.Second)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }
