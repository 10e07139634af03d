package bored

import "iter"

// NearestNotice finds the first notice visible when moving from notice from
// in direction dir, or false if there is none.
//
// Cells are checked in two bands. Going up, the first band is the column of
// cells directly above the notice, nearest row first; the second band covers
// everything above and to the left, scanned column by column from the
// notice outwards. The other directions are the same pattern rotated:
//
//	 ----- edge of bored
//	| 8634
//	| 7512
//	|   XX  notice
//
// Right checks beside the notice then above it, down checks beneath it then
// below and to the right, and left checks beside it then below and to the
// left.
func (b *Bored) NearestNotice(from int, dir Direction) (int, bool) {
	if from < 0 || from >= len(b.notices) {
		return 0, false
	}
	visible := b.Occlusion()
	for _, band := range b.bands(b.notices[from], dir) {
		for c := range band {
			if i, ok := visible.At(c); ok {
				return i, true
			}
		}
	}
	return 0, false
}

func (b *Bored) bands(n Notice, dir Direction) []iter.Seq[Coordinate] {
	left, top := int(n.topLeft.X), int(n.topLeft.Y)
	right, bottom := left+int(n.dimensions.X), top+int(n.dimensions.Y)
	width, height := int(b.dimensions.X), int(b.dimensions.Y)

	var bands []iter.Seq[Coordinate]
	switch dir {
	case Up:
		if top > 0 {
			bands = append(bands, rows(top-1, -1, left, right))
			if left > 0 {
				bands = append(bands, columns(left-1, -1, top-1, -1))
			}
		}
	case Right:
		if right < width {
			bands = append(bands, rows(top, bottom, right, width))
			if top > 0 {
				bands = append(bands, rows(top-1, -1, right, width))
			}
		}
	case Down:
		if bottom < height {
			bands = append(bands, columns(left, right, bottom, height))
			if right < width {
				bands = append(bands, rows(height-1, bottom-1, right, width))
			}
		}
	case Left:
		if left > 0 {
			bands = append(bands, rows(top, bottom, left-1, -1))
			if bottom < height {
				bands = append(bands, rows(bottom, height, 0, left))
			}
		}
	}
	return bands
}

// rows yields cells row by row. Each range runs from its first bound towards
// its second, exclusive, stepping down when the second is smaller.
func rows(yFrom, yTo, xFrom, xTo int) iter.Seq[Coordinate] {
	return func(yield func(Coordinate) bool) {
		for y := range span(yFrom, yTo) {
			for x := range span(xFrom, xTo) {
				if !yield(Coordinate{X: uint16(x), Y: uint16(y)}) {
					return
				}
			}
		}
	}
}

// columns yields cells column by column, with ranges as for rows.
func columns(xFrom, xTo, yFrom, yTo int) iter.Seq[Coordinate] {
	return func(yield func(Coordinate) bool) {
		for x := range span(xFrom, xTo) {
			for y := range span(yFrom, yTo) {
				if !yield(Coordinate{X: uint16(x), Y: uint16(y)}) {
					return
				}
			}
		}
	}
}

func span(from, to int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if from <= to {
			for i := from; i < to; i++ {
				if !yield(i) {
					return
				}
			}
			return
		}
		for i := from; i > to; i-- {
			if !yield(i) {
				return
			}
		}
	}
}

// UpperLeftMostNotice returns the visible notice met first when reading the
// bored row by row from the top left, or false if the bored is empty.
func (b *Bored) UpperLeftMostNotice() (int, bool) {
	for _, i := range b.Occlusion().Flatten() {
		if i != empty {
			return i, true
		}
	}
	return 0, false
}

// NextNotice returns the index after current, wrapping to the first notice.
// A negative current selects the first notice.
func (b *Bored) NextNotice(current int) (int, bool) {
	if len(b.notices) == 0 {
		return 0, false
	}
	if current < 0 || current+1 >= len(b.notices) {
		return 0, true
	}
	return current + 1, true
}

// PreviousNotice returns the index before current, wrapping to the last
// notice. A negative current selects the last notice.
func (b *Bored) PreviousNotice(current int) (int, bool) {
	if len(b.notices) == 0 {
		return 0, false
	}
	if current <= 0 || current > len(b.notices) {
		return len(b.notices) - 1, true
	}
	return current - 1, true
}
