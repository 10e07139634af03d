package bored

import (
	"errors"
	"fmt"
)

var (
	// ErrTooMuchText is returned by Notice.Write when the visible text does not
	// fit inside the notice.
	ErrTooMuchText = errors.New("too much text for notice size")

	// ErrURLTooLong is returned by NewHyperlink when the link exceeds MaxURLLength.
	ErrURLTooLong = fmt.Errorf("hyperlink url is too long, max is %d", MaxURLLength)

	// ErrMethodNotInProtocol is returned when a bored uses a protocol version
	// that predates the method being called.
	ErrMethodNotInProtocol = errors.New("method is not in this version of the protocol")

	// ErrNoticeIndex is returned when a notice index does not exist on the bored.
	ErrNoticeIndex = errors.New("notice index out of range")
)

// OutOfBoundsError reports a rejected placement: the bored bounds and the
// bottom-right corner the notice would have had.
type OutOfBoundsError struct {
	Board       Coordinate
	BottomRight Coordinate
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("cannot place notice outside of bored, attempted to place notice with max bounds of %s in bored with max bounds of %s",
		e.BottomRight, e.Board)
}

// ProtocolVersionError reports a content type or version that this
// implementation does not know.
type ProtocolVersionError struct {
	Value uint64
}

func (e *ProtocolVersionError) Error() string {
	return fmt.Sprintf("version of protocol %d is not known to exist by this implementation of bored", e.Value)
}

// IsOutOfBounds returns true if err is or wraps an *OutOfBoundsError.
func IsOutOfBounds(err error) bool {
	var oob *OutOfBoundsError
	return errors.As(err, &oob)
}
