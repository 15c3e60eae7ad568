package globetrotter

import "errors"

var (
	// ErrContentUnavailable means the provider could not supply a
	// destination or its options. Callers may ask the user to try again.
	ErrContentUnavailable = errors.New("content unavailable")

	// ErrMissingContent means a destination lacks the fun fact or trivia
	// needed to resolve a round. It is a catalog data problem.
	ErrMissingContent = errors.New("destination is missing fact content")

	ErrAlreadyAnswered = errors.New("round already answered")
	ErrRoundState      = errors.New("round is not accepting this action")
	ErrUnknownOption   = errors.New("option was not offered in this round")

	ErrUnknownPlayer     = errors.New("unknown player")
	ErrInvalidInvitation = errors.New("invalid invitation")
	ErrInvalidUsername   = errors.New("username must be 1 to 30 characters")
)
