package simpleblog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrPostNotFound indicates a post lookup by id matched no row
	ErrPostNotFound = errors.New("post not found")

	// ErrCommentNotFound indicates a comment lookup by id matched no row
	ErrCommentNotFound = errors.New("comment not found")

	// ErrUserNotFound indicates a referenced author does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrNotOwner indicates an ownership-guarded update affected zero rows.
	// It deliberately conflates "row does not exist" with "row is not yours"
	// so non-owners cannot probe for existence.
	ErrNotOwner = errors.New("not the author or no such row")
)

// ValidationError reports a required request field that is missing or empty.
// The field name is the wire name the client sent (or failed to send).
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field %q is missing or empty", e.Field)
}

// StoreError wraps a failure reported by the underlying store. The cause is
// kept for server-side logging; callers surface only a generic message.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
