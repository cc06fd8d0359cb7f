package combine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequencyTable(t *testing.T) {
	table := BuildFrequencyTable([]string{"ab", "abc", "cab"})

	assert.Equal(t, 3, table.Count('a'))
	assert.Equal(t, 3, table.Count('b'))
	assert.Equal(t, 2, table.Count('c'))
	assert.Equal(t, 0, table.Count('z'))
	assert.Equal(t, 3, table.Len())

	testCases := []struct {
		word  string
		score int
	}{
		{"ab", 6},
		{"abc", 8},
		{"aa", 6}, // repeats count again
		{"az", 3}, // unknown letters add nothing
		{"", 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.score, table.Score(tc.word), "score of %q", tc.word)
	}
}

func TestFrequencyTableEmpty(t *testing.T) {
	table := BuildFrequencyTable(nil)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 0, table.Score("가나다"))
}

func TestIsFeasible(t *testing.T) {
	testCases := []struct {
		description string
		pool        string
		word        string
		expected    bool
	}{
		{"exact multiset", "가나다", "다가나", true},
		{"subset", "가나다라", "나라", true},
		{"repeat within limit", "가가나", "가가", true},
		{"repeat beyond limit", "가나", "가가", false},
		{"missing letter", "가나", "가다", false},
		// a sorted-subsequence test against an unsorted pool rejects this
		{"pool out of sorted order", "cba", "abc", true},
		{"empty word", "가", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsFeasible(NewPool(tc.pool), tc.word))
		})
	}
}

func TestFullScanKeepsDictionaryOrder(t *testing.T) {
	dict := []string{"다나", "가나", "라마", "나가", "가가"}
	assert.Equal(t, []string{"다나", "가나", "나가"}, FullScan(dict, NewPool("가나다")))
	assert.Empty(t, FullScan(nil, NewPool("가나다")))
}

func TestSelectBest(t *testing.T) {
	table := BuildFrequencyTable([]string{"ab", "abc", "cab"})

	best, ok := SelectBest([]string{"abc", "cab", "ab"}, table)
	assert.True(t, ok)
	assert.Equal(t, "ab", best)

	// abc and cab tie at 8, first one wins
	best, ok = SelectBest([]string{"cab", "abc"}, table)
	assert.True(t, ok)
	assert.Equal(t, "cab", best)

	best, ok = SelectBest(nil, table)
	assert.False(t, ok)
	assert.Equal(t, "", best)
}
