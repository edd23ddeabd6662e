package pickem

import (
	"errors"
	"fmt"
)

// ErrInvalidPickSet is the common ancestor of every rejection reason, so
// callers can treat any of them as a bad request with errors.Is.
var ErrInvalidPickSet = errors.New("invalid pick set")

var (
	ErrBothSides            = fmt.Errorf("%w: both sides of the same game picked", ErrInvalidPickSet)
	ErrDuplicateConfidence  = fmt.Errorf("%w: duplicate confidence value", ErrInvalidPickSet)
	ErrConfidenceOutOfRange = fmt.Errorf("%w: confidence value out of range", ErrInvalidPickSet)
	ErrUnknownGame          = fmt.Errorf("%w: unknown game", ErrInvalidPickSet)
)

// ValidatePicks checks a candidate pick set for one user and week against the
// full list of games in that week. Rules run in a fixed order and the first
// failure wins, so rejection messages are deterministic: no game may be picked
// on both sides, no confidence value may repeat, and every confidence value
// must fall inside the legal range for the week's total game count. Partial
// sets are fine; the range stays anchored to the full week, not the number of
// picks submitted.
func ValidatePicks(picks []PickInput, games []Game) error {
	pickedGames := make(map[string]bool, len(picks))
	for _, p := range picks {
		if pickedGames[p.GameID] {
			return fmt.Errorf("%w (game %s)", ErrBothSides, p.GameID)
		}
		pickedGames[p.GameID] = true
	}

	seen := make(map[int]bool, len(picks))
	for _, p := range picks {
		if seen[p.Confidence] {
			return fmt.Errorf("%w (%d)", ErrDuplicateConfidence, p.Confidence)
		}
		seen[p.Confidence] = true
	}

	legal := legalConfidenceSet(len(games))
	for _, p := range picks {
		if !legal[p.Confidence] {
			return fmt.Errorf("%w (%d)", ErrConfidenceOutOfRange, p.Confidence)
		}
	}

	known := make(map[string]bool, len(games))
	for _, g := range games {
		known[g.ID] = true
	}
	for _, p := range picks {
		if !known[p.GameID] {
			return fmt.Errorf("%w (%s)", ErrUnknownGame, p.GameID)
		}
	}

	return nil
}
