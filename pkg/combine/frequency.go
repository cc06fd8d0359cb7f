package combine

// FrequencyTable maps each letter to the number of times it occurs across a
// dictionary. It is built once per dictionary pass and never mutated.
type FrequencyTable struct {
	counts map[rune]int
}

// BuildFrequencyTable counts every rune of every word.
func BuildFrequencyTable(words []string) FrequencyTable {
	counts := make(map[rune]int)
	for _, w := range words {
		for _, r := range w {
			counts[r]++
		}
	}
	return FrequencyTable{counts: counts}
}

// Count returns how often r occurs in the source dictionary.
func (t FrequencyTable) Count(r rune) int {
	return t.counts[r]
}

// Len returns the number of distinct letters in the table.
func (t FrequencyTable) Len() int {
	return len(t.counts)
}

// Score sums the table count of every rune occurrence in word. Letters
// missing from the table contribute 0. Lower scores mean rarer letters.
func (t FrequencyTable) Score(word string) int {
	score := 0
	for _, r := range word {
		score += t.counts[r]
	}
	return score
}
