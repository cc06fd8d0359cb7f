/*
Package inventory reads letter tiles out of an exported inventory page.

The page lists one item per tile kind:

	<div class="dress-item expl-mother">
		<div class="jt-image dress-item-image">x12</div>
		<div class="dress-item-title">고급 글자 조각 - 가</div>
	</div>

The title tells the grade and the letter, the image caption tells how many of
that letter are held. Items without both parts are ignored.
*/
package inventory

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"golang.org/x/net/html"
)

// Grade is the rarity class of a tile. Tiles of different grades never mix.
type Grade int

const (
	Normal Grade = iota
	Advanced
	Rare
)

// Grades lists every grade in display order.
var Grades = []Grade{Normal, Advanced, Rare}

const (
	titleSuffix   = "글자 조각"
	titleAdvanced = "고급 " + titleSuffix
	titleRare     = "희귀 " + titleSuffix
	titleSep      = " - "
)

func (g Grade) String() string {
	switch g {
	case Normal:
		return "normal"
	case Advanced:
		return "advanced"
	case Rare:
		return "rare"
	}
	return fmt.Sprintf("grade(%d)", int(g))
}

// Label returns the in-game name of the grade.
func (g Grade) Label() string {
	switch g {
	case Advanced:
		return "고급"
	case Rare:
		return "희귀"
	}
	return "일반"
}

// ParseGrade accepts the English or Korean grade name.
func ParseGrade(s string) (Grade, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "일반":
		return Normal, nil
	case "advanced", "high", "고급":
		return Advanced, nil
	case "rare", "희귀":
		return Rare, nil
	}
	return Normal, fmt.Errorf("unknown grade %q", s)
}

// Inventory holds the tiles of each grade in page order.
type Inventory struct {
	tiles [3]strings.Builder
	items int
}

// Tiles returns the tiles of one grade as a string, one rune per tile.
func (inv *Inventory) Tiles(g Grade) string {
	if g < Normal || g > Rare {
		return ""
	}
	return inv.tiles[g].String()
}

// Pools returns the tiles of every grade in Grades order.
func (inv *Inventory) Pools() []string {
	pools := make([]string, len(Grades))
	for i, g := range Grades {
		pools[i] = inv.Tiles(g)
	}
	return pools
}

// Items returns how many item blocks contributed tiles.
func (inv *Inventory) Items() int {
	return inv.items
}

// Add appends count copies of letter to the grade.
func (inv *Inventory) Add(g Grade, letter string, count int) {
	if g < Normal || g > Rare || letter == "" || count <= 0 {
		return
	}
	inv.tiles[g].WriteString(strings.Repeat(letter, count))
	inv.items++
}

// ParseHTML reads an inventory page.
func ParseHTML(r io.Reader) (*Inventory, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse inventory html: %w", err)
	}

	inv := &Inventory{}
	skipped := 0
	for _, item := range findAll(doc, "dress-item", "expl-mother") {
		countNode := findFirst(item, "jt-image", "dress-item-image")
		titleNode := findFirst(item, "dress-item-title")
		if countNode == nil || titleNode == nil {
			skipped++
			continue
		}
		grade, letter, ok := parseTitle(strings.TrimSpace(textContent(titleNode)))
		if !ok {
			skipped++
			continue
		}
		inv.Add(grade, letter, parseCount(textContent(countNode)))
	}
	log.Debugf("Inventory: %d items read, %d skipped", inv.items, skipped)
	return inv, nil
}

// parseTitle splits "고급 글자 조각 - 가" into its grade and letter.
func parseTitle(title string) (Grade, string, bool) {
	var grade Grade
	var prefix string
	switch {
	case strings.Contains(title, titleAdvanced):
		grade, prefix = Advanced, titleAdvanced
	case strings.Contains(title, titleRare):
		grade, prefix = Rare, titleRare
	case strings.Contains(title, titleSuffix):
		grade, prefix = Normal, titleSuffix
	default:
		return Normal, "", false
	}
	letter := strings.TrimSpace(strings.Replace(title, prefix+titleSep, "", 1))
	if letter == "" || letter == title {
		return Normal, "", false
	}
	return grade, letter, true
}

// parseCount reads the leading number of captions like "x12" or "12개".
// Anything unreadable counts as zero.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(s, "x"), "X"))
	// captions may carry a unit after the number, e.g. "12개"
	if end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }); end >= 0 {
		s = s[:end]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func hasClasses(n *html.Node, classes ...string) bool {
	if n.Type != html.ElementNode || n.Data != "div" {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		return lo.Every(strings.Fields(attr.Val), classes)
	}
	return false
}

func findAll(root *html.Node, classes ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if hasClasses(n, classes...) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func findFirst(root *html.Node, classes ...string) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if hasClasses(c, classes...) {
			return c
		}
		if n := findFirst(c, classes...); n != nil {
			return n
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
