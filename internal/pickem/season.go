package pickem

import "time"

// SeasonFor returns the NFL season a date belongs to. The regular season runs
// September through early January, so January and February count toward the
// prior year's season.
func SeasonFor(t time.Time) int {
	if t.Month() < time.March {
		return t.Year() - 1
	}
	return t.Year()
}
