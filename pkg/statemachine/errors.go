package statemachine

import "errors"

var (
	ErrStateExists           = errors.New("state already exists")
	ErrUnknownState          = errors.New("unknown state")
	ErrTransitionExists      = errors.New("transition already exists on source state")
	ErrDuplicateTarget       = errors.New("source state already has a transition to target state")
	ErrUnknownTransition     = errors.New("transition does not leave state")
	ErrListenerExists        = errors.New("listener already attached")
	ErrNilListener           = errors.New("listener cannot be nil")
	ErrListenerNotComparable = errors.New("listener must be a comparable value such as a pointer")
	ErrNoStates              = errors.New("state machine has no states")
	ErrTerminalState         = errors.New("current state is terminal")
	ErrNoRoute               = errors.New("no route to state")
	ErrRunning               = errors.New("state machine is running")
)

// IsNotFound reports whether err refers to a state or transition that does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownState) || errors.Is(err, ErrUnknownTransition)
}

// IsConflict reports whether err was caused by something already being defined.
func IsConflict(err error) bool {
	return errors.Is(err, ErrStateExists) ||
		errors.Is(err, ErrTransitionExists) ||
		errors.Is(err, ErrDuplicateTarget) ||
		errors.Is(err, ErrListenerExists)
}
