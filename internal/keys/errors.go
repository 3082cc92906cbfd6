package keys

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType matches any *UnsupportedTypeError.
	ErrUnsupportedType = errors.New("unsupported entity type")

	// ErrLookupFailed matches any *LookupError.
	ErrLookupFailed = errors.New("existing key lookup failed")
)

// UnsupportedTypeError is returned when an entity type is not one of
// emoji, channel, role or webhook.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("keys: unsupported entity type %q", e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// LookupError wraps a failure of the existing-key provider. No partial
// key is ever returned alongside it.
type LookupError struct {
	Type EntityType
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("keys: failed to list existing %s keys: %v", e.Type, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailed
}
