package brackets

import "errors"

// Bracket core errors. Every one of them means the operation was rejected and
// the tournament was left untouched.
var (
	ErrInvalidBracketSize = errors.New("participant count must be a power of two and at least 2")

	ErrWrongMatchCount      = errors.New("wrong number of matches for bracket")
	ErrUnknownParticipant   = errors.New("participant is not registered in tournament")
	ErrDuplicateParticipant = errors.New("participant used multiple times in first round")
	ErrIncompletePairing    = errors.New("all participants must be paired in the first round")

	ErrTiedScore             = errors.New("scores cannot be equal")
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchAlreadyCompleted = errors.New("match result already recorded")
	ErrWinnerScoreMismatch   = errors.New("winner does not match the higher score")

	ErrIllegalStateTransition = errors.New("operation not allowed in current tournament status")
	ErrUnsupportedType        = errors.New("unsupported tournament type")
)
