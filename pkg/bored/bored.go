package bored

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Bored is a pin board: a bounded area onto which notices are placed.
//
// Notices are kept in placement order and later notices occlude earlier
// ones. A notice that becomes entirely occluded no longer contributes
// anything and may be removed with PruneNonVisible. Once placed, notices are
// never moved or edited.
type Bored struct {
	protocolVersion ProtocolVersion
	name            string
	dimensions      Coordinate
	notices         []Notice
}

// New creates an empty bored using the current protocol version.
func New(name string, dimensions Coordinate) *Bored {
	return &Bored{
		protocolVersion: CurrentProtocolVersion(),
		name:            name,
		dimensions:      dimensions,
	}
}

// Name returns the bored name.
func (b *Bored) Name() string {
	return b.name
}

// Dimensions returns the size of the bored. Positions range from (0,0) up to
// but excluding this.
func (b *Bored) Dimensions() Coordinate {
	return b.dimensions
}

// ProtocolVersion returns the protocol version the bored was created under.
func (b *Bored) ProtocolVersion() ProtocolVersion {
	return b.protocolVersion
}

// Len returns the number of notices on the bored.
func (b *Bored) Len() int {
	return len(b.notices)
}

// Notices returns a copy of the notices in placement order.
func (b *Bored) Notices() []Notice {
	return slices.Clone(b.notices)
}

// Notice returns the notice at index i.
func (b *Bored) Notice(i int) (Notice, error) {
	if i < 0 || i >= len(b.notices) {
		return Notice{}, fmt.Errorf("%w: %d of %d", ErrNoticeIndex, i, len(b.notices))
	}
	return b.notices[i], nil
}

// Clone returns a deep copy of the bored.
func (b *Bored) Clone() *Bored {
	clone := *b
	clone.notices = slices.Clone(b.notices)
	return &clone
}

// Equal returns true if both boreds hold the same name, size and notices.
func (b *Bored) Equal(other *Bored) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.protocolVersion == other.protocolVersion &&
		b.name == other.name &&
		b.dimensions == other.dimensions &&
		slices.Equal(b.notices, other.notices)
}

// Add places notice with its top-left corner at topLeft and appends it.
// Nothing changes if the notice would extend past the bored.
func (b *Bored) Add(notice Notice, topLeft Coordinate) error {
	if b.protocolVersion < 1 {
		return ErrMethodNotInProtocol
	}
	if err := notice.Relocate(b, topLeft); err != nil {
		return err
	}
	b.notices = append(b.notices, notice)
	return nil
}

// RemoveNewest drops the most recently placed notice. It returns false when
// the bored is already empty.
func (b *Bored) RemoveNewest() bool {
	if len(b.notices) == 0 {
		return false
	}
	b.notices = b.notices[:len(b.notices)-1]
	return true
}

// RemoveOldest drops the earliest placed notice. It returns false when the
// bored is already empty.
func (b *Bored) RemoveOldest() bool {
	if len(b.notices) == 0 {
		return false
	}
	b.notices = slices.Delete(b.notices, 0, 1)
	return true
}

// OcclusionMap records, for each cell of a bored, the index of the topmost
// notice covering it.
type OcclusionMap struct {
	cells [][]int
}

// Occlusion computes which notice is visible in every cell. Later notices
// overwrite earlier ones.
func (b *Bored) Occlusion() *OcclusionMap {
	cells := newGrid(int(b.dimensions.X), int(b.dimensions.Y))
	for i, n := range b.notices {
		forEachCell(b, n, func(x, y int) {
			cells[y][x] = i
		})
	}
	return &OcclusionMap{cells: cells}
}

// forEachCell calls fn for every cell of n's footprint that lies on b.
func forEachCell(b *Bored, n Notice, fn func(x, y int)) {
	bottomRight := n.BottomRight()
	maxX := min(int(bottomRight.X), int(b.dimensions.X))
	maxY := min(int(bottomRight.Y), int(b.dimensions.Y))
	for y := int(n.topLeft.Y); y < maxY; y++ {
		for x := int(n.topLeft.X); x < maxX; x++ {
			fn(x, y)
		}
	}
}

// At returns the index of the notice visible at c.
func (m *OcclusionMap) At(c Coordinate) (int, bool) {
	x, y := int(c.X), int(c.Y)
	if y >= len(m.cells) || x >= len(m.cells[y]) {
		return 0, false
	}
	i := m.cells[y][x]
	return i, i != empty
}

// Flatten returns every cell row by row, -1 where no notice is visible.
func (m *OcclusionMap) Flatten() []int {
	var flat []int
	for _, row := range m.cells {
		flat = append(flat, row...)
	}
	return flat
}

// Visible returns the indices of every notice with at least one visible
// cell, in ascending order.
func (m *OcclusionMap) Visible() []int {
	var visible []int
	for _, i := range m.Flatten() {
		if i != empty {
			visible = append(visible, i)
		}
	}
	slices.Sort(visible)
	return slices.Compact(visible)
}

// String renders one line per row, '*' for empty cells.
func (m *OcclusionMap) String() string {
	return gridString(m.cells)
}

// PruneNonVisible removes every notice that is entirely occluded and returns
// how many were removed. The relative order of the survivors is unchanged.
func (b *Bored) PruneNonVisible() (int, error) {
	if b.protocolVersion < 1 {
		return 0, ErrMethodNotInProtocol
	}
	visible := b.Occlusion().Visible()
	kept := make([]Notice, 0, len(visible))
	for _, i := range visible {
		kept = append(kept, b.notices[i])
	}
	removed := len(b.notices) - len(kept)
	b.notices = kept
	return removed, nil
}

// HyperlinkRef identifies a hyperlink on a bored.
type HyperlinkRef struct {
	Notice    int
	Hyperlink int
}

// BoredHyperlinkMap records, for each cell of a bored, the hyperlink of the
// topmost notice that is shown there.
type BoredHyperlinkMap struct {
	cells [][]HyperlinkRef
	set   [][]bool
}

// HyperlinkMap computes the hyperlink visible in every cell. Each notice
// first blanks its whole footprint, border included, so that it hides the
// hyperlinks of the notices beneath it.
func (b *Bored) HyperlinkMap() *BoredHyperlinkMap {
	width, height := int(b.dimensions.X), int(b.dimensions.Y)
	m := &BoredHyperlinkMap{
		cells: make([][]HyperlinkRef, height),
		set:   make([][]bool, height),
	}
	for y := range height {
		m.cells[y] = make([]HyperlinkRef, width)
		m.set[y] = make([]bool, width)
	}

	for i, n := range b.notices {
		forEachCell(b, n, func(x, y int) {
			m.set[y][x] = false
		})
		noticeMap := n.HyperlinkMap()
		for my := range noticeMap.Height() {
			for mx := range noticeMap.Width() {
				link, ok := noticeMap.At(mx, my)
				if !ok {
					continue
				}
				x, y := int(n.topLeft.X)+1+mx, int(n.topLeft.Y)+1+my
				if x >= width || y >= height {
					continue
				}
				m.cells[y][x] = HyperlinkRef{Notice: i, Hyperlink: link}
				m.set[y][x] = true
			}
		}
	}
	return m
}

// At returns the hyperlink shown at c.
func (m *BoredHyperlinkMap) At(c Coordinate) (HyperlinkRef, bool) {
	x, y := int(c.X), int(c.Y)
	if y >= len(m.cells) || x >= len(m.cells[y]) || !m.set[y][x] {
		return HyperlinkRef{}, false
	}
	return m.cells[y][x], true
}

// String renders one line per row, '*' for cells without a hyperlink and
// the hyperlink index within its notice otherwise.
func (m *BoredHyperlinkMap) String() string {
	indices := make([][]int, len(m.cells))
	for y, row := range m.cells {
		indices[y] = make([]int, len(row))
		for x, ref := range row {
			indices[y][x] = empty
			if m.set[y][x] {
				indices[y][x] = ref.Hyperlink
			}
		}
	}
	return gridString(indices)
}

type boredJSON struct {
	ProtocolVersion ProtocolVersion `json:"protocol_version"`
	Name            string          `json:"name"`
	Dimensions      Coordinate      `json:"dimensions"`
	Notices         []Notice        `json:"notices"`
}

// MarshalJSON implements json.Marshaler.
func (b *Bored) MarshalJSON() ([]byte, error) {
	notices := b.notices
	if notices == nil {
		notices = []Notice{}
	}
	return json.Marshal(boredJSON{
		ProtocolVersion: b.protocolVersion,
		Name:            b.name,
		Dimensions:      b.dimensions,
		Notices:         notices,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Unknown protocol versions and
// notices placed outside the bored are rejected.
func (b *Bored) UnmarshalJSON(data []byte) error {
	var wire boredJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	for i, n := range wire.Notices {
		if !n.BottomRight().Within(wire.Dimensions) {
			return fmt.Errorf("notice %d: %w", i, &OutOfBoundsError{Board: wire.Dimensions, BottomRight: n.BottomRight()})
		}
	}
	b.protocolVersion = wire.ProtocolVersion
	b.name = wire.Name
	b.dimensions = wire.Dimensions
	b.notices = wire.Notices
	return nil
}
