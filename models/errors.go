// models/errors.go - Engine error taxonomy
//
// State-machine violations are routine conditions under concurrent and
// adversarial use. They are cheap typed values that handlers translate into
// specific HTTP responses, never panics or generic 500s.
package models

import (
	"errors"
	"fmt"
)

var (
	// ErrEditingDisabled rejects a code edit or submit while the editing
	// window is closed (paused, ended, or deliberately frozen).
	ErrEditingDisabled = errors.New("editing is currently disabled")

	// ErrParticipantLocked rejects any edit or submit from a disqualified
	// participant, regardless of the challenge-level editing flag.
	ErrParticipantLocked = errors.New("participant is locked out of this challenge")

	// ErrUnknownChallenge and ErrUnknownParticipant surface as not-found.
	ErrUnknownChallenge   = errors.New("challenge not found")
	ErrUnknownParticipant = errors.New("participant not found")

	// ErrChallengeRunning rejects deletion of a challenge that is active
	// or paused.
	ErrChallengeRunning = errors.New("challenge is running and cannot be deleted")

	// ErrTeamsFrozen rejects team assignment changes after the draft phase.
	ErrTeamsFrozen = errors.New("team membership is fixed once the challenge has started")

	// ErrSeatClaimed rejects a join for a seat whose first join already
	// happened, when the request does not carry that seat's join token.
	ErrSeatClaimed = errors.New("seat already claimed from another device")

	// ErrTransitionConflict is returned when an optimistic status update
	// loses its compare-and-swap twice in a row. Transient; the admin can
	// simply retry.
	ErrTransitionConflict = errors.New("challenge state changed concurrently, please retry")
)

// InvalidTransitionError reports a lifecycle action attempted from a state
// that does not permit it. It keeps both sides so the admin console can show
// "challenge already active" rather than a generic failure.
type InvalidTransitionError struct {
	Action string
	From   ChallengeStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s challenge", e.Action, e.From)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
