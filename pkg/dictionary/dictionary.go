package dictionary

import (
	"sort"

	"github.com/kkuko-utils/jokak/internal/utils"
	"github.com/kkuko-utils/jokak/pkg/combine"
	"github.com/samber/lo"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Dictionary is the word list of one tier.
//
// entries keeps every listed word in file order, repeats included, and is
// what the engine scores letters against. words is the distinct subset used
// for lookups; the trie maps each of them to its position so results come
// back in list order. A Dictionary is immutable once built.
type Dictionary struct {
	Name    string
	Length  int
	entries []string
	words   []string
	trie    *patricia.Trie
}

// New builds a dictionary from raw lines. Lines are trimmed and NFC-composed,
// empty lines are dropped, and when length > 0 only words of exactly that
// many runes are kept. Repeated words stay in the pass so their letters keep
// counting towards the frequency table.
func New(name string, length int, lines []string) *Dictionary {
	d := &Dictionary{
		Name:    name,
		Length:  length,
		entries: make([]string, 0, len(lines)),
		trie:    patricia.NewTrie(),
	}
	for _, line := range lines {
		w := utils.NormalizeWord(line)
		if w == "" {
			continue
		}
		if length > 0 && utils.RuneLen(w) != length {
			continue
		}
		d.entries = append(d.entries, w)
		if d.trie.Insert(patricia.Prefix(w), len(d.words)) {
			d.words = append(d.words, w)
		}
	}
	return d
}

// Words returns a copy of the distinct words in file order.
func (d *Dictionary) Words() []string {
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Contains reports whether word is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	return d.trie.Match(patricia.Prefix(utils.NormalizeWord(word)))
}

// StartingWith returns up to limit words beginning with prefix, in list order.
// A limit of 0 or less returns every match.
func (d *Dictionary) StartingWith(prefix string, limit int) []string {
	prefix = utils.NormalizeWord(prefix)
	if prefix == "" {
		words := d.Words()
		if limit > 0 && len(words) > limit {
			words = words[:limit]
		}
		return words
	}
	var idx []int
	err := d.trie.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
		idx = append(idx, item.(int))
		return nil
	})
	if err != nil {
		return nil
	}
	sort.Ints(idx)
	if limit > 0 && len(idx) > limit {
		idx = idx[:limit]
	}
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = d.words[n]
	}
	return out
}

// Entries returns how many words the list holds, repeats included.
func (d *Dictionary) Entries() int {
	return len(d.entries)
}

// Pass returns the dictionary as an extraction pass over the full list,
// repeats included. The word slice is shared and must not be modified.
func (d *Dictionary) Pass() combine.Pass {
	return combine.Pass{Name: d.Name, Words: d.entries}
}

// Passes converts tiers into passes, keeping their order.
func Passes(dicts []*Dictionary) []combine.Pass {
	return lo.Map(dicts, func(d *Dictionary, _ int) combine.Pass {
		return d.Pass()
	})
}
