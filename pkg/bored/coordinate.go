package bored

import (
	"fmt"
	"math"
)

// Coordinate is a position or size on a bored measured in character cells.
// Unsigned as every notice must be within board space; uint16 as no readable
// board would be larger.
type Coordinate struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// String implements fmt.Stringer.
func (c Coordinate) String() string {
	return fmt.Sprintf("x: %d y: %d", c.X, c.Y)
}

// Within returns true if c is entirely contained between (0,0) and other.
func (c Coordinate) Within(other Coordinate) bool {
	return c.X <= other.X && c.Y <= other.Y
}

// Add returns the component-wise sum, saturating at math.MaxUint16.
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: saturate(int(c.X) + int(other.X)),
		Y: saturate(int(c.Y) + int(other.Y)),
	}
}

// Subtract returns the component-wise difference, clamping each axis at zero.
func (c Coordinate) Subtract(other Coordinate) Coordinate {
	return Coordinate{
		X: saturate(int(c.X) - int(other.X)),
		Y: saturate(int(c.Y) - int(other.Y)),
	}
}

// AddDelta adds a possibly negative delta, used for scroll and move steps.
// Each axis floors at zero and saturates at math.MaxUint16.
func (c Coordinate) AddDelta(dx, dy int) Coordinate {
	return Coordinate{
		X: saturate(int(c.X) + dx),
		Y: saturate(int(c.Y) + dy),
	}
}

func saturate(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

// Direction indicates a direction of movement across the bored.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection converts "up", "down", "left" or "right" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction: %s (must be 'up', 'down', 'left' or 'right')", s)
}
