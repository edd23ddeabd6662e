package pickem

// Outcome is the resolved result of a game: one of the two sides, a tie, or
// undecided while the game has not gone final.
type Outcome string

const (
	OutcomeHome      Outcome = "home"
	OutcomeAway      Outcome = "away"
	OutcomeTied      Outcome = "tied"
	OutcomeUndecided Outcome = "undecided"
)

// Resolve derives a game's outcome from its status and scores. It is safe to
// call repeatedly as score refreshes arrive: anything short of final is
// undecided, and a final game with unchanged scores always resolves the same
// way.
func Resolve(g Game) Outcome {
	if g.Status != GameFinal {
		return OutcomeUndecided
	}
	switch {
	case g.HomeScore == g.AwayScore:
		return OutcomeTied
	case g.HomeScore > g.AwayScore:
		return OutcomeHome
	default:
		return OutcomeAway
	}
}

// Credits reports whether a pick of the given side earns its confidence under
// this outcome. Ties and undecided games credit nobody.
func (o Outcome) Credits(s Side) bool {
	return (o == OutcomeHome && s == SideHome) || (o == OutcomeAway && s == SideAway)
}

// WinnerID returns the winning team for a final, non-tied game, nil otherwise.
func WinnerID(g Game) *string {
	switch Resolve(g) {
	case OutcomeHome:
		id := g.HomeTeamID
		return &id
	case OutcomeAway:
		id := g.AwayTeamID
		return &id
	}
	return nil
}
