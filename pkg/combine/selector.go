package combine

// SelectBest returns the candidate with the lowest frequency score. Ties go
// to the earliest candidate, so results follow dictionary order. ok is false
// when there are no candidates.
func SelectBest(candidates []string, table FrequencyTable) (best string, ok bool) {
	bestScore := 0
	for _, w := range candidates {
		score := table.Score(w)
		if !ok || score < bestScore {
			best, bestScore, ok = w, score, true
		}
	}
	return best, ok
}
