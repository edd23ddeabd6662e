package pickem

import "sort"

// ScoreWeek sums each user's credited confidence for one week. A pick is
// credited when its side matches the game's resolved outcome; ties and
// undecided games contribute nothing. Every user with at least one stored
// pick appears in the result, zero totals included.
func ScoreWeek(outcomes map[string]Outcome, picks []Pick) map[string]int {
	totals := make(map[string]int)
	for _, p := range picks {
		if _, ok := totals[p.UserName]; !ok {
			totals[p.UserName] = 0
		}
		if outcomes[p.GameID].Credits(p.Side) {
			totals[p.UserName] += p.Confidence
		}
	}
	return totals
}

type Standing struct {
	User  string `json:"user"`
	Total int    `json:"total"`
}

// Standings ranks totals by descending score, with the user name as a stable
// tie-break so the ordering is deterministic.
func Standings(totals map[string]int) []Standing {
	standings := make([]Standing, 0, len(totals))
	for user, total := range totals {
		standings = append(standings, Standing{User: user, Total: total})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Total != standings[j].Total {
			return standings[i].Total > standings[j].Total
		}
		return standings[i].User < standings[j].User
	})
	return standings
}
