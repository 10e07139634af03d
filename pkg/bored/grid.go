package bored

import (
	"strconv"
	"strings"
)

// empty marks a grid cell that nothing occupies.
const empty = -1

func newGrid(width, height int) [][]int {
	cells := make([][]int, height)
	for y := range cells {
		row := make([]int, width)
		for x := range row {
			row[x] = empty
		}
		cells[y] = row
	}
	return cells
}

// gridString writes one line per row, '*' for empty cells and the decimal
// value otherwise.
func gridString(cells [][]int) string {
	var sb strings.Builder
	for _, row := range cells {
		for _, cell := range row {
			if cell == empty {
				sb.WriteByte('*')
				continue
			}
			sb.WriteString(strconv.Itoa(cell))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
