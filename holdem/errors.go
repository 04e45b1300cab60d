package holdem

import "errors"

var (
	ErrHandEnded      = errors.New("hand already ended")
	ErrOutOfTurn      = errors.New("action out of turn")
	ErrHandInProgress = errors.New("hand already in progress")
	ErrIllegalAction  = errors.New("illegal action")
)

// InvalidStateError marks an internal invariant violation: chip
// non-conservation, deck corruption, or any state the engine should never
// reach. Callers treat it as fatal for the current hand.
type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
