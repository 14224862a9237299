package record

import "github.com/pkg/errors"

var (
	ErrRosterUnavailable = errors.New("team roster could not be loaded")
	ErrNotReady          = errors.New("record draft is not initialized")
	ErrNoScore           = errors.New("no game has a score")
	ErrInFlight          = errors.New("submission already in progress")
	ErrSubmitted         = errors.New("record already submitted")
	ErrGameIndex         = errors.New("game index out of range")
	ErrNegativeValue     = errors.New("scores, goals and assists must not be negative")
	ErrUnknownPlayer     = errors.New("player record needs a user id")
)

// RosterError is returned by the first failed roster load. It matches
// ErrRosterUnavailable and unwraps to the loader's error.
type RosterError struct {
	Err error
}

func (e *RosterError) Error() string {
	return ErrRosterUnavailable.Error() + ": " + e.Err.Error()
}

func (e *RosterError) Is(target error) bool { return target == ErrRosterUnavailable }

func (e *RosterError) Unwrap() error { return e.Err }
