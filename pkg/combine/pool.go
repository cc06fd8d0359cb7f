package combine

import (
	"errors"
	"fmt"
)

// ErrNotAssemblable is returned by Pool.Consume when the pool does not hold
// every letter of the word with the required multiplicity.
var ErrNotAssemblable = errors.New("word is not assemblable from pool")

// Pool is the mutable multiset of tiles a player currently holds.
// Tile order is kept for display only; containment ignores it.
// A Pool must not be shared between concurrent invocations.
type Pool struct {
	tiles []rune
}

// NewPool creates a pool from a tile string, one tile per rune.
func NewPool(tiles string) *Pool {
	return &Pool{tiles: []rune(tiles)}
}

// Remaining returns a copy of the tiles still in the pool.
func (p *Pool) Remaining() []rune {
	out := make([]rune, len(p.tiles))
	copy(out, p.tiles)
	return out
}

func (p *Pool) String() string {
	return string(p.tiles)
}

// Len returns the number of tiles in the pool.
func (p *Pool) Len() int {
	return len(p.tiles)
}

// Empty reports whether the pool has no tiles left.
func (p *Pool) Empty() bool {
	return len(p.tiles) == 0
}

// Counts returns the multiplicity of every distinct tile.
func (p *Pool) Counts() map[rune]int {
	counts := make(map[rune]int, len(p.tiles))
	for _, r := range p.tiles {
		counts[r]++
	}
	return counts
}

// Consume removes one occurrence of every rune in word, taking the first
// matching tile each time. If the word cannot be assembled the pool is left
// untouched and ErrNotAssemblable is returned.
func (p *Pool) Consume(word string) error {
	if !IsFeasible(p, word) {
		return fmt.Errorf("consume %q from %q: %w", word, p.String(), ErrNotAssemblable)
	}
	for _, r := range word {
		for i, t := range p.tiles {
			if t == r {
				p.tiles = append(p.tiles[:i], p.tiles[i+1:]...)
				break
			}
		}
	}
	return nil
}
