package session

import "github.com/rotisserie/eris"

var (
	// ErrNotReady means a required input is missing.
	ErrNotReady = eris.New("session: required fields missing")
	// ErrBusy means the same action is already in flight.
	ErrBusy = eris.New("session: action already in progress")
	// ErrUnknownArea means the area is not in the registry.
	ErrUnknownArea = eris.New("session: unknown area")
	// ErrLocationNotFound means the place search returned nothing usable.
	ErrLocationNotFound = eris.New("session: location not found")
	// ErrOperationFailed covers every other failure of a search or prediction.
	ErrOperationFailed = eris.New("session: operation failed")
	// ErrNotFound means no session has the requested id.
	ErrNotFound = eris.New("session: not found")
)

// OperationError is a failed search or prediction. It matches
// ErrOperationFailed with errors.Is and unwraps to the upstream cause.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return "session: " + e.Op + " failed: " + e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrOperationFailed.
func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailed
}
