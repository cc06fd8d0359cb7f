/*
Package combine implements the letter-tile word combination engine.

Given a pool of tiles and an ordered list of dictionary passes, the engine
repeatedly extracts the assemblable word built from the rarest letters,
removes its tiles from the pool and continues until nothing fits. Each pass
reuses the tiles the previous pass left behind, so longer tiers listed first
get the first claim on rare tiles.

	eng := combine.NewEngine(combine.EngineConfig{})
	res, err := eng.Combine(ctx, "가나다라마바사", six, five)

A pass moves through three states: start (full feasibility scan), extracting
(select, consume, refine) and done (no candidate left). Cancellation and the
optional deadline are checked once per round.
*/
package combine

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kkuko-utils/jokak/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Pass is one dictionary tier processed against the pool.
type Pass struct {
	Name  string
	Words []string
}

// PassResult is the extraction record of one pass.
type PassResult struct {
	Name  string
	Words []string
}

// Result holds every pass record and the tiles left at the end.
type Result struct {
	Passes   []PassResult
	Leftover string
}

// Words returns every extracted word across all passes, in extraction order.
func (r Result) Words() []string {
	var out []string
	for _, p := range r.Passes {
		out = append(out, p.Words...)
	}
	return out
}

// Step describes a single extraction.
type Step struct {
	Pass   string
	Round  int
	Word   string
	Score  int
	Before string
	After  string
}

// Observer is called after every extraction.
type Observer func(Step)

// EngineConfig holds the optional knobs of an Engine.
type EngineConfig struct {
	// Deadline bounds a single Combine call. Zero means no deadline.
	Deadline time.Duration
	// Observer must be safe for concurrent use when CombineAll is called.
	Observer Observer
	Logger   *log.Logger
}

// Engine runs extraction passes. It holds no pool state of its own and can
// be shared; every call works on a pool it owns exclusively.
type Engine struct {
	deadline time.Duration
	observer Observer
	log      *log.Logger
}

// NewEngine creates an engine from cfg.
func NewEngine(cfg EngineConfig) *Engine {
	l := cfg.Logger
	if l == nil {
		l = logger.New("combine")
	}
	return &Engine{
		deadline: cfg.Deadline,
		observer: cfg.Observer,
		log:      l,
	}
}

type passState int

const (
	stateStart passState = iota
	stateExtracting
	stateDone
)

// RunPass drives one dictionary pass to completion against pool.
// On cancellation the words extracted so far are returned with the error.
func (e *Engine) RunPass(ctx context.Context, pool *Pool, pass Pass) (PassResult, error) {
	res := PassResult{Name: pass.Name, Words: []string{}}

	var (
		table      FrequencyTable
		candidates []string
		round      int
	)

	state := stateStart
	for state != stateDone {
		switch state {
		case stateStart:
			table = BuildFrequencyTable(pass.Words)
			candidates = FullScan(pass.Words, pool)
			e.log.Debugf("pass %s: %d words, %d candidates for %d tiles",
				pass.Name, len(pass.Words), len(candidates), pool.Len())
			if len(candidates) == 0 {
				state = stateDone
				continue
			}
			state = stateExtracting

		case stateExtracting:
			if err := ctx.Err(); err != nil {
				return res, err
			}
			word, ok := SelectBest(candidates, table)
			if !ok {
				state = stateDone
				continue
			}
			before := pool.String()
			if err := pool.Consume(word); err != nil {
				return res, fmt.Errorf("pass %s round %d: %w", pass.Name, round, err)
			}
			res.Words = append(res.Words, word)
			if e.observer != nil {
				e.observer(Step{
					Pass:   pass.Name,
					Round:  round,
					Word:   word,
					Score:  table.Score(word),
					Before: before,
					After:  pool.String(),
				})
			}
			round++
			candidates = Refine(candidates, pool)
			if len(candidates) == 0 {
				state = stateDone
			}
		}
	}

	e.log.Debugf("pass %s done: %d words, %d tiles left", pass.Name, len(res.Words), pool.Len())
	return res, nil
}

// Combine runs passes in order on a fresh pool built from tiles.
func (e *Engine) Combine(ctx context.Context, tiles string, passes ...Pass) (Result, error) {
	if e.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.deadline)
		defer cancel()
	}

	pool := NewPool(tiles)
	res := Result{Passes: make([]PassResult, 0, len(passes))}
	for _, pass := range passes {
		pr, err := e.RunPass(ctx, pool, pass)
		res.Passes = append(res.Passes, pr)
		if err != nil {
			res.Leftover = pool.String()
			return res, err
		}
	}
	res.Leftover = pool.String()
	return res, nil
}

// CombineAll runs Combine for every tile string concurrently, one pool per
// input. Runs are independent: a failing run never cancels the others.
// Results and errors are returned in input order, errs[i] is nil when run i
// finished.
func (e *Engine) CombineAll(ctx context.Context, pools []string, passes ...Pass) ([]Result, []error) {
	results := make([]Result, len(pools))
	errs := make([]error, len(pools))
	var g errgroup.Group
	for i, tiles := range pools {
		g.Go(func() error {
			results[i], errs[i] = e.Combine(ctx, tiles, passes...)
			return nil
		})
	}
	_ = g.Wait()
	return results, errs
}
