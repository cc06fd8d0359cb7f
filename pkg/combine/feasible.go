package combine

import "github.com/samber/lo"

// IsFeasible reports whether word can be assembled from the pool, using each
// tile at most once. Tile order does not matter.
func IsFeasible(pool *Pool, word string) bool {
	return fits(pool.Counts(), word, make(map[rune]int, 8))
}

// fits checks word against a precomputed pool count. need is scratch space
// reused between calls.
func fits(have map[rune]int, word string, need map[rune]int) bool {
	if word == "" {
		return false
	}
	clear(need)
	for _, r := range word {
		need[r]++
		if need[r] > have[r] {
			return false
		}
	}
	return true
}

// FullScan tests every dictionary word against the pool and returns the
// assemblable ones in dictionary order.
func FullScan(words []string, pool *Pool) []string {
	have := pool.Counts()
	need := make(map[rune]int, 8)
	var candidates []string
	for _, w := range words {
		if fits(have, w, need) {
			candidates = append(candidates, w)
		}
	}
	return candidates
}

// Refine drops candidates that the shrunk pool can no longer assemble.
// Only valid while the pool has not grown since the candidates were computed.
func Refine(candidates []string, pool *Pool) []string {
	have := pool.Counts()
	need := make(map[rune]int, 8)
	return lo.Filter(candidates, func(w string, _ int) bool {
		return fits(have, w, need)
	})
}
