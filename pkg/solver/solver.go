// Package solver ties tile normalization, the loaded dictionary tiers and the
// combine engine together for the CLI and the IPC server.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kkuko-utils/jokak/internal/logger"
	"github.com/kkuko-utils/jokak/internal/utils"
	"github.com/kkuko-utils/jokak/pkg/combine"
	"github.com/kkuko-utils/jokak/pkg/config"
	"github.com/kkuko-utils/jokak/pkg/dictionary"
	"github.com/kkuko-utils/jokak/pkg/inventory"
)

var (
	// ErrInvalidTiles is returned for input that can never be a tile string.
	ErrInvalidTiles = errors.New("invalid tiles")
	// ErrTooManyTiles is returned when the input exceeds the configured maximum.
	ErrTooManyTiles = errors.New("too many tiles")
)

// Solver runs combinations against the tiers of a loader.
type Solver struct {
	engine *combine.Engine
	loader *dictionary.Loader
	cfg    config.EngineConfig
	log    *log.Logger
}

// GradeResult is the combination of one inventory grade. Err is set when
// this grade alone failed; its tiles are then all left over.
type GradeResult struct {
	Grade   inventory.Grade
	Tiles   string
	Result  combine.Result
	Elapsed time.Duration
	Err     error
}

// New creates a solver. The engine deadline comes from cfg.
func New(loader *dictionary.Loader, cfg config.EngineConfig, observer combine.Observer) *Solver {
	return &Solver{
		engine: combine.NewEngine(combine.EngineConfig{
			Deadline: cfg.Deadline(),
			Observer: observer,
		}),
		loader: loader,
		cfg:    cfg,
		log:    logger.New("solver"),
	}
}

// Loader returns the dictionary loader the solver reads from.
func (s *Solver) Loader() *dictionary.Loader {
	return s.loader
}

// PrepareTiles normalizes raw input the way the engine expects it.
func (s *Solver) PrepareTiles(raw string) (string, error) {
	tiles := utils.NormalizeTiles(raw, s.cfg.StripWhitespace, s.cfg.SortTiles)
	if !utils.IsValidTiles(tiles) {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidTiles)
	}
	if n := utils.RuneLen(tiles); s.cfg.MaxTiles > 0 && n > s.cfg.MaxTiles {
		return "", fmt.Errorf("%d tiles, limit %d: %w", n, s.cfg.MaxTiles, ErrTooManyTiles)
	}
	if hangul := utils.CountHangul(tiles); hangul < utils.RuneLen(tiles) {
		s.log.Debugf("%d of %d tiles are not hangul syllables", utils.RuneLen(tiles)-hangul, utils.RuneLen(tiles))
	}
	return tiles, nil
}

// Solve combines raw tiles against the named tiers, or every tier when none
// are named. Longer tiers run first.
func (s *Solver) Solve(ctx context.Context, raw string, tiers ...string) (combine.Result, error) {
	tiles, err := s.PrepareTiles(raw)
	if err != nil {
		return combine.Result{Leftover: raw}, err
	}
	passes, err := s.passes(tiers)
	if err != nil {
		return combine.Result{Leftover: tiles}, err
	}
	return s.engine.Combine(ctx, tiles, passes...)
}

// SolveInventory combines every grade of inv separately and concurrently.
// Grades are never mixed and a failing grade does not affect the others.
// Results follow inventory.Grades order. The returned error is only set when
// no grade could run at all.
func (s *Solver) SolveInventory(ctx context.Context, inv *inventory.Inventory, tiers ...string) ([]GradeResult, error) {
	passes, err := s.passes(tiers)
	if err != nil {
		return nil, err
	}

	pools := inv.Pools()
	out := make([]GradeResult, len(pools))
	prepared := make([]string, len(pools))
	for i, raw := range pools {
		out[i].Grade = inventory.Grades[i]
		tiles, err := s.PrepareTiles(raw)
		if err != nil {
			s.log.Warnf("%s tiles skipped: %v", inventory.Grades[i], err)
			out[i].Tiles = raw
			out[i].Result = combine.Result{Passes: []combine.PassResult{}, Leftover: raw}
			out[i].Err = fmt.Errorf("%s tiles: %w", inventory.Grades[i], err)
			continue
		}
		out[i].Tiles = tiles
		prepared[i] = tiles
	}

	start := time.Now()
	results, errs := s.engine.CombineAll(ctx, prepared, passes...)
	elapsed := time.Since(start)

	for i, res := range results {
		if out[i].Err != nil {
			continue
		}
		out[i].Result = res
		out[i].Elapsed = elapsed
		if errs[i] != nil {
			out[i].Err = fmt.Errorf("%s tiles: %w", inventory.Grades[i], errs[i])
		}
	}
	return out, nil
}

func (s *Solver) passes(tiers []string) ([]combine.Pass, error) {
	dicts, err := s.loader.Tiers(tiers...)
	if err != nil {
		return nil, err
	}
	return dictionary.Passes(dicts), nil
}
