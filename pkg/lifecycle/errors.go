package lifecycle

import (
	"errors"
	"fmt"
)

// ErrNoTransition is matched by every *TransitionError.
var ErrNoTransition = errors.New("no lifecycle transition available")

// TransitionError reports a trigger that is not valid in the current phase.
type TransitionError struct {
	Phase   Phase
	Trigger Trigger
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no transition from phase '%s' for trigger '%s'", e.Phase, e.Trigger)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrNoTransition
}

// IsTransitionError reports whether err is or wraps a *TransitionError.
func IsTransitionError(err error) bool {
	var e *TransitionError
	return errors.As(err, &e)
}
