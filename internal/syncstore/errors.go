package syncstore

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad matches every *LoadError.
	ErrLoad = errors.New("failed to load")
	// ErrMutation matches every *MutationError.
	ErrMutation = errors.New("mutation failed")

	ErrEmptyURL    = errors.New("url is required")
	ErrUnknownTeam = errors.New("unknown team")
)

// Mutation kinds, also used as metric labels.
const (
	OpCreate = "create"
	OpToggle = "toggle"
)

// LoadError reports that the authoritative list could not be fetched. It blocks
// rendering of the list until a later load succeeds.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", ErrLoad, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// MutationError reports a failed create or toggle. It is recovered locally by rollback.
type MutationError struct {
	Op     string
	TeamID int64
	Err    error
}

func (e *MutationError) Error() string {
	if e.Op == OpToggle {
		return fmt.Sprintf("%s: %s team %d: %v", ErrMutation, e.Op, e.TeamID, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMutation, e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

func (e *MutationError) Is(target error) bool { return target == ErrMutation }
