package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/kkuko-utils/jokak/internal/utils"
	"github.com/kkuko-utils/jokak/pkg/combine"
	"github.com/kkuko-utils/jokak/pkg/dictionary"
)

// styles renders results for the terminal. With color off every style is plain.
type styles struct {
	header   lipgloss.Style
	tier     lipgloss.Style
	word     lipgloss.Style
	leftover lipgloss.Style
	faint    lipgloss.Style
	err      lipgloss.Style
}

func newStyles(out io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(out)
	if !color {
		plain := r.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F5A97F")),
		tier:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8AADF4")),
		word:     r.NewStyle().Foreground(lipgloss.Color("75")),
		leftover: r.NewStyle().Foreground(lipgloss.Color("#EED49F")),
		faint:    r.NewStyle().Faint(true),
		err:      r.NewStyle().Foreground(lipgloss.Color("#ED8796")),
	}
}

// renderResult prints each tier's words and the tiles nobody used.
func (h *InputHandler) renderResult(res combine.Result, elapsed time.Duration) {
	for _, pass := range res.Passes {
		fmt.Fprintf(h.out, "%s %s\n",
			h.styles.tier.Render("["+pass.Name+"]"),
			h.styles.faint.Render(fmt.Sprintf("%d words", len(pass.Words))))
		for i, w := range pass.Words {
			fmt.Fprintf(h.out, "  %3d. %s\n", i+1, h.styles.word.Render(w))
		}
	}
	if h.cfg.ShowLeftover {
		fmt.Fprintf(h.out, "%s %s %s\n",
			h.styles.leftover.Render("leftover:"),
			res.Leftover,
			h.styles.faint.Render(fmt.Sprintf("(%d)", utils.RuneLen(res.Leftover))))
	}
	fmt.Fprintln(h.out, h.styles.faint.Render(fmt.Sprintf("took %v", elapsed)))
}

func (h *InputHandler) renderStats(stats dictionary.LoaderStats) {
	for _, t := range stats.Tiers {
		fmt.Fprintf(h.out, "%s %s, length %d, %d words\n",
			h.styles.tier.Render("["+t.Name+"]"), t.File, t.Length, t.Words)
	}
	fmt.Fprintf(h.out, "%d words total\n", stats.TotalWords)
}

func (h *InputHandler) renderError(err error) {
	fmt.Fprintln(h.out, h.styles.err.Render("error: "+err.Error()))
}
