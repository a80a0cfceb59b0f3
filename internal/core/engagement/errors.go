package engagement

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates a mutating action was blocked by the auth gate
	ErrUnauthenticated = errors.New("viewer is not authenticated")

	// ErrConfirmationFailed indicates the remote service did not confirm a toggle
	// and the optimistic change was rolled back
	ErrConfirmationFailed = errors.New("reaction was not saved")

	// ErrDesync indicates a transition would drive a count below zero.
	// The local record no longer matches the server and needs re-hydration.
	ErrDesync = errors.New("engagement record out of sync with server")

	// ErrEntityRemoved indicates the entity was removed from view
	ErrEntityRemoved = errors.New("entity removed")

	// ErrInvalidSnapshot indicates the server returned an impossible snapshot
	ErrInvalidSnapshot = errors.New("invalid engagement snapshot")

	// ErrInvalidReaction indicates an unknown reaction value
	ErrInvalidReaction = errors.New("invalid reaction")

	// ErrInvalidTarget indicates a toggle target other than like or dislike
	ErrInvalidTarget = errors.New("invalid reaction target")

	// ErrInvalidKind indicates an unknown entity kind
	ErrInvalidKind = errors.New("invalid entity kind")

	// ErrInvalidEntity indicates a malformed entity identity
	ErrInvalidEntity = errors.New("invalid entity")
)

// ConfirmationError is returned by Toggle when the remote service rejected or
// never acknowledged a reaction. The optimistic update has already been undone
// (or scheduled for re-hydration) by the time the caller sees it.
type ConfirmationError struct {
	Ref    EntityRef
	Target Target
	Err    error
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("could not %s %s: %v", e.Target, e.Ref, e.Err)
}

func (e *ConfirmationError) Unwrap() error {
	return e.Err
}

// Is reports ErrConfirmationFailed so callers can distinguish this from auth failures.
func (e *ConfirmationError) Is(target error) bool {
	return target == ErrConfirmationFailed
}
