package respool

import (
	"errors"
	"fmt"

	"github.com/hupe1980/respool/workerpool"
)

var (
	// ErrClosed is returned when work is submitted after Close.
	ErrClosed = errors.New("resource pool manager closed")

	// ErrNilTask is returned when a nil task function is submitted.
	ErrNilTask = errors.New("nil task function")
)

// ErrInvalidConfig indicates a negative or otherwise unusable Config field.
type ErrInvalidConfig struct {
	Field string
	Value int
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config: %s = %d", e.Field, e.Value)
}

// ErrTaskPanic reports a panic raised by a submitted task function. The panic
// is contained so pool workers survive; callers receive it as a regular error.
type ErrTaskPanic struct {
	Value any
	Stack []byte
}

func (e *ErrTaskPanic) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// ErrResolve indicates the key resolver rejected an identifier.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrResolve struct {
	Identifier string
	cause      error
}

func (e *ErrResolve) Error() string {
	return fmt.Sprintf("resolve resource key for %q: %v", e.Identifier, e.cause)
}

func (e *ErrResolve) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Closed-state unification.
	if errors.Is(err, workerpool.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	return err
}
