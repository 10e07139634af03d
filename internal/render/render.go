// Package render draws a bored for the terminal or the browser. Rendering
// only reads the bored.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dyluth/bored/pkg/address"
	"github.com/dyluth/bored/pkg/bored"
)

// Format selects how a bored is rendered
type Format string

const (
	// FormatText draws the notices with their borders, topmost last
	FormatText Format = "text"
	// FormatHTML exports the visible notices as sanitized HTML
	FormatHTML Format = "html"
	// FormatOcclusion prints the occlusion map
	FormatOcclusion Format = "occlusion"
	// FormatLinks prints the hyperlink map followed by every hyperlink
	FormatLinks Format = "links"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatHTML, FormatOcclusion, FormatLinks:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %s (must be 'text', 'html', 'occlusion', or 'links')", s)
	}
}

// Write renders b to w in format f.
func Write(w io.Writer, b *bored.Bored, f Format) error {
	switch f {
	case FormatText:
		_, err := io.WriteString(w, Text(b))
		return err
	case FormatHTML:
		return NewHTMLRenderer().Render(w, b)
	case FormatOcclusion:
		_, err := io.WriteString(w, b.Occlusion().String())
		return err
	case FormatLinks:
		return Links(w, b)
	default:
		return fmt.Errorf("unknown format: %s", f)
	}
}

// Text draws the bored as lines of characters. Later notices are drawn over
// earlier ones; trailing spaces are trimmed from every line.
func Text(b *bored.Bored) string {
	width, height := int(b.Dimensions().X), int(b.Dimensions().Y)
	canvas := make([][]rune, height)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat(" ", width))
	}
	put := func(x, y int, r rune) {
		if x < width && y < height {
			canvas[y][x] = r
		}
	}

	for _, n := range b.Notices() {
		left, top := int(n.TopLeft().X), int(n.TopLeft().Y)
		right, bottom := int(n.BottomRight().X)-1, int(n.BottomRight().Y)-1
		for y := top; y <= bottom; y++ {
			for x := left; x <= right; x++ {
				put(x, y, borderRune(x, y, left, top, right, bottom))
			}
		}
		for dy, line := range NoticeLines(n) {
			for dx, r := range []rune(line) {
				put(left+1+dx, top+1+dy, r)
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func borderRune(x, y, left, top, right, bottom int) rune {
	vertical := x == left || x == right
	horizontal := y == top || y == bottom
	switch {
	case vertical && horizontal:
		return '+'
	case horizontal:
		return '-'
	case vertical:
		return '|'
	default:
		return ' '
	}
}

// NoticeLines renders the Layout of n, one string per interior row padded to
// the interior width.
func NoticeLines(n bored.Notice) []string {
	width, height := n.TextWidth(), n.TextHeight()
	if width <= 0 || height <= 0 {
		return nil
	}
	rows := make([][]rune, height)
	for y := range rows {
		rows[y] = []rune(strings.Repeat(" ", width))
	}
	for cell := range n.Layout() {
		rows[cell.Y][cell.X] = cell.Rune
	}

	lines := make([]string, height)
	for y, row := range rows {
		lines[y] = string(row)
	}
	return lines
}

// Links writes the hyperlink map and then one row per hyperlink on a visible
// notice.
func Links(w io.Writer, b *bored.Bored) error {
	if _, err := io.WriteString(w, b.HyperlinkMap().String()); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%-6s %-5s %-8s %-24s %s\n", "NOTICE", "LINK", "KIND", "TEXT", "URL")
	fmt.Fprintf(w, "%-6s %-5s %-8s %-24s %s\n", "------", "-----", "--------", "------------------------", "------------------------------")

	count := 0
	for _, i := range b.Occlusion().Visible() {
		n, err := b.Notice(i)
		if err != nil {
			return err
		}
		for j, h := range n.Hyperlinks() {
			kind := "invalid"
			if target, err := address.ClassifyTarget(h.Link); err == nil {
				kind = target.Kind.String()
			}
			fmt.Fprintf(w, "%-6d %-5d %-8s %-24s %s\n", i, j, kind, truncate(h.Text, 24), h.Link)
			count++
		}
	}

	noun := "hyperlink"
	if count != 1 {
		noun = "hyperlinks"
	}
	_, err := fmt.Fprintf(w, "\n%d %s found\n", count, noun)
	return err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
