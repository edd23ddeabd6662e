package pickem

// LegalConfidence returns the confidence values a player may spend when a week
// has n games. The top value is anchored at 16 no matter how short the week is,
// so a 14-game bye week plays {3..16} rather than rescaling to {1..14}.
// For n = 0 there are no legal values.
func LegalConfidence(n int) []int {
	if n <= 0 {
		return nil
	}
	lo := 17 - n
	if lo < 1 {
		lo = 1
	}
	values := make([]int, 0, 17-lo)
	for v := lo; v <= 16; v++ {
		values = append(values, v)
	}
	return values
}

func legalConfidenceSet(n int) map[int]bool {
	set := make(map[int]bool)
	for _, v := range LegalConfidence(n) {
		set[v] = true
	}
	return set
}
