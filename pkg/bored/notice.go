package bored

import (
	"encoding/json"
	"iter"
	"strings"
	"unicode/utf8"
)

// DefaultNoticeDimensions is the size of a notice created by NewDefaultNotice.
var DefaultNoticeDimensions = Coordinate{X: 60, Y: 18}

// Notice is a bordered panel of text that may be pinned to a bored.
//
// A notice is a draft until it is added to a bored: Write and Relocate
// validate against its own dimensions and the target bored. Once placed it is
// never edited; a bored only hands out copies of its notices.
type Notice struct {
	topLeft    Coordinate
	dimensions Coordinate
	content    string
}

// NewNotice creates a blank notice of the given size at (0,0).
func NewNotice(dimensions Coordinate) Notice {
	return Notice{dimensions: dimensions}
}

// NewDefaultNotice creates a blank notice of DefaultNoticeDimensions at (0,0).
func NewDefaultNotice() Notice {
	return NewNotice(DefaultNoticeDimensions)
}

// TopLeft returns the notice position on its bored.
func (n Notice) TopLeft() Coordinate {
	return n.topLeft
}

// Dimensions returns the notice size including its border.
func (n Notice) Dimensions() Coordinate {
	return n.dimensions
}

// BottomRight returns the exclusive bottom-right corner of the notice.
func (n Notice) BottomRight() Coordinate {
	return n.topLeft.Add(n.dimensions)
}

// Content returns the raw content, hyperlink markdown included.
func (n Notice) Content() string {
	return n.content
}

// TextWidth is the width of the writable interior.
func (n Notice) TextWidth() int {
	return max(int(n.dimensions.X)-2, 0)
}

// TextHeight is the height of the writable interior.
func (n Notice) TextHeight() int {
	return max(int(n.dimensions.Y)-2, 0)
}

// Relocate moves the notice, both while drafting and when called by Bored.Add.
// The notice is left unchanged if it would not fit inside b.
func (n *Notice) Relocate(b *Bored, topLeft Coordinate) error {
	bottomRight := Coordinate{
		X: saturate(int(topLeft.X) + int(n.dimensions.X)),
		Y: saturate(int(topLeft.Y) + int(n.dimensions.Y)),
	}
	// a saturated corner can never be a real fit
	if int(topLeft.X)+int(n.dimensions.X) > int(bottomRight.X) ||
		int(topLeft.Y)+int(n.dimensions.Y) > int(bottomRight.Y) ||
		!bottomRight.Within(b.dimensions) {
		return &OutOfBoundsError{Board: b.dimensions, BottomRight: bottomRight}
	}
	n.topLeft = topLeft
	return nil
}

// MaxChars is the maximum number of unicode scalar values that fit on the
// notice. 3x3 is the smallest notice with any space.
func (n Notice) MaxChars() int {
	area := int(n.dimensions.X) * int(n.dimensions.Y)
	if area < 9 {
		return 0
	}
	return n.TextWidth() * n.TextHeight()
}

// MaxLines is the number of lines that can be written on the notice.
func (n Notice) MaxLines() int {
	if n.dimensions.Y < 2 {
		return 0
	}
	return int(n.dimensions.Y) - 2
}

// Write sets the content if its visible text fits. Hyperlink urls do not
// count towards the limits. On failure the content is left unchanged.
func (n *Notice) Write(content string) error {
	display := NewDisplay(content)
	if !n.fits(display.Text) {
		return ErrTooMuchText
	}
	n.content = content
	return nil
}

func (n Notice) fits(text string) bool {
	if utf8.RuneCountInString(text) > n.MaxChars() {
		return false
	}
	lines := displayLines(text)
	maxLines := n.MaxLines()
	if len(lines) > maxLines {
		return false
	}
	if len(lines) > 0 && len(lines) == maxLines {
		// a full notice has nowhere to put a trailing newline or a wrapped tail
		if strings.HasSuffix(text, "\n") {
			return false
		}
		if utf8.RuneCountInString(lines[len(lines)-1]) > n.TextWidth() {
			return false
		}
	}
	return true
}

// displayLines splits text into lines; a final newline does not start a new
// line and empty text has no lines.
func displayLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// Display returns the content as it appears on the notice.
func (n Notice) Display() Display {
	return NewDisplay(n.content)
}

// Hyperlinks returns the hyperlinks in the content, left to right.
func (n Notice) Hyperlinks() []Hyperlink {
	hyperlinks, _ := ExtractHyperlinks(n.content)
	return hyperlinks
}

// NoticeHyperlinkMap records, for each interior cell of a notice, which
// hyperlink (if any) the character shown there belongs to.
type NoticeHyperlinkMap struct {
	cells [][]int
}

// Cell is one character of the display text placed on a notice's interior.
// Offset is the byte offset of Rune in the display text.
type Cell struct {
	X, Y   int
	Rune   rune
	Offset int
}

// Layout places the display text on the interior, wrapping at a newline or
// when a line reaches the interior width. Text past the last row is not
// shown.
func (n Notice) Layout() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		width, height := n.TextWidth(), n.TextHeight()
		if width <= 0 || height <= 0 {
			return
		}

		x, y := 0, 0
		for offset, r := range n.Display().Text {
			if r == '\n' {
				x, y = 0, y+1
				continue
			}
			if x >= width {
				x, y = 0, y+1
			}
			if y >= height {
				return
			}
			if !yield(Cell{X: x, Y: y, Rune: r, Offset: offset}) {
				return
			}
			x++
		}
	}
}

// HyperlinkMap records the hyperlink index of every character placed by
// Layout.
func (n Notice) HyperlinkMap() *NoticeHyperlinkMap {
	cells := newGrid(n.TextWidth(), n.TextHeight())
	display := n.Display()
	for cell := range n.Layout() {
		if i, ok := display.HyperlinkAt(cell.Offset); ok {
			cells[cell.Y][cell.X] = i
		}
	}
	return &NoticeHyperlinkMap{cells: cells}
}

// At returns the hyperlink index at interior cell (x, y).
func (m *NoticeHyperlinkMap) At(x, y int) (int, bool) {
	if y < 0 || y >= len(m.cells) || x < 0 || x >= len(m.cells[y]) {
		return 0, false
	}
	i := m.cells[y][x]
	return i, i != empty
}

// Width returns the interior width covered by the map.
func (m *NoticeHyperlinkMap) Width() int {
	if len(m.cells) == 0 {
		return 0
	}
	return len(m.cells[0])
}

// Height returns the interior height covered by the map.
func (m *NoticeHyperlinkMap) Height() int {
	return len(m.cells)
}

// String renders the map with '*' for plain cells and the hyperlink index
// otherwise.
func (m *NoticeHyperlinkMap) String() string {
	return gridString(m.cells)
}

type noticeJSON struct {
	TopLeft    Coordinate `json:"top_left"`
	Dimensions Coordinate `json:"dimensions"`
	Content    string     `json:"content"`
}

// MarshalJSON implements json.Marshaler.
func (n Notice) MarshalJSON() ([]byte, error) {
	return json.Marshal(noticeJSON{
		TopLeft:    n.topLeft,
		Dimensions: n.dimensions,
		Content:    n.content,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Notice) UnmarshalJSON(data []byte) error {
	var wire noticeJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	n.topLeft = wire.TopLeft
	n.dimensions = wire.Dimensions
	n.content = wire.Content
	return nil
}
