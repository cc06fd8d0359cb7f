// Package cli is an interactive terminal front end for trying tile strings and
// inventory exports against the loaded word lists.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kkuko-utils/jokak/internal/utils"
	"github.com/kkuko-utils/jokak/pkg/config"
	"github.com/kkuko-utils/jokak/pkg/inventory"
	"github.com/kkuko-utils/jokak/pkg/solver"
)

const (
	cmdHTML = ":html"
	cmdInfo = ":info"
	cmdQuit = ":q"
)

// InputHandler reads tile strings line by line and prints what they combine into.
// Lines starting with ':' are commands:
//
//	:html <file>  combine every grade of an inventory export
//	:info         list the loaded tiers
//	:q            quit
type InputHandler struct {
	solver       *solver.Solver
	cfg          config.CliConfig
	tiers        []string
	in           io.Reader
	out          io.Writer
	styles       styles
	requestCount int
}

// NewInputHandler creates a handler. tiers narrows the dictionaries used;
// empty means all of them.
func NewInputHandler(s *solver.Solver, cfg config.CliConfig, tiers []string, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		solver: s,
		cfg:    cfg,
		tiers:  tiers,
		in:     in,
		out:    out,
		styles: newStyles(out, cfg.Color),
	}
}

// Start runs the loop until the input ends, :q is entered or ctx is cancelled.
func (h *InputHandler) Start(ctx context.Context) error {
	fmt.Fprintln(h.out, h.styles.header.Render("jokak CLI"))
	fmt.Fprintln(h.out, h.styles.faint.Render("enter tiles and press Enter, :html <file> for an inventory export, :q to quit"))

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == cmdQuit {
			return nil
		}
		h.handleInput(ctx, line)
	}
}

// handleInput processes a single line.
func (h *InputHandler) handleInput(ctx context.Context, line string) {
	h.requestCount++
	log.Debug("Processing input", "n", h.requestCount, "line", line)

	switch {
	case line == cmdInfo:
		h.renderStats(h.solver.Loader().Stats())
	case strings.HasPrefix(line, cmdHTML):
		path := strings.TrimSpace(strings.TrimPrefix(line, cmdHTML))
		if path == "" {
			h.renderError(fmt.Errorf("usage: %s <file>", cmdHTML))
			return
		}
		if err := h.RunHTML(ctx, path); err != nil {
			h.renderError(err)
		}
	case strings.HasPrefix(line, ":"):
		h.renderError(fmt.Errorf("unknown command %q", line))
	default:
		start := time.Now()
		res, err := h.solver.Solve(ctx, line, h.tiers...)
		if err != nil {
			h.renderError(err)
			if len(res.Passes) == 0 {
				return
			}
		}
		h.renderResult(res, time.Since(start))
	}
}

// RunHTML loads an inventory export and prints the combination of each grade.
// When only is non-empty, only those grades are printed.
func (h *InputHandler) RunHTML(ctx context.Context, path string, only ...inventory.Grade) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open inventory: %w", err)
	}
	defer file.Close()

	inv, err := inventory.ParseHTML(file)
	if err != nil {
		return err
	}
	log.Debugf("Read %d tile items from %s", inv.Items(), path)

	results, err := h.solver.SolveInventory(ctx, inv, h.tiers...)
	if err != nil {
		return err
	}
	for _, g := range results {
		if len(only) > 0 && !slices.Contains(only, g.Grade) {
			continue
		}
		fmt.Fprintln(h.out, h.styles.header.Render(fmt.Sprintf("%s (%s) %d tiles",
			g.Grade.Label(), g.Grade, utils.RuneLen(g.Tiles))))
		if g.Err != nil {
			h.renderError(g.Err)
		}
		h.renderResult(g.Result, g.Elapsed)
	}
	return nil
}
