package tournament

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientCandidates is returned when fewer than two candidates are
	// available where a match is required.
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// ErrInvalidCandidate is returned when a winner is not part of the current
	// match, or when a pool contains duplicate IDs.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrBracketComplete is returned by CurrentMatch and ChooseWinner once a
	// winner exists. It wraps ErrInsufficientCandidates.
	ErrBracketComplete = fmt.Errorf("%w: bracket already has a winner", ErrInsufficientCandidates)
)
