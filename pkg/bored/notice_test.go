package bored

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoticeRelocate(t *testing.T) {
	b := New("", Coordinate{X: 120, Y: 40})
	notice := NewDefaultNotice()

	require.NoError(t, notice.Relocate(b, Coordinate{X: 10, Y: 7}))
	assert.Equal(t, Coordinate{X: 10, Y: 7}, notice.TopLeft())

	err := notice.Relocate(b, Coordinate{X: 999, Y: 999})
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, Coordinate{X: 120, Y: 40}, oob.Board)
	assert.Equal(t, Coordinate{X: 1059, Y: 1017}, oob.BottomRight)
	assert.Equal(t, Coordinate{X: 10, Y: 7}, notice.TopLeft(), "failed relocate must not move the notice")

	t.Run("exact fit is within bounds", func(t *testing.T) {
		notice := NewNotice(Coordinate{X: 20, Y: 10})
		assert.NoError(t, notice.Relocate(b, Coordinate{X: 100, Y: 30}))
		assert.True(t, IsOutOfBounds(notice.Relocate(b, Coordinate{X: 101, Y: 30})))
	})

	t.Run("overflowing the coordinate space is out of bounds", func(t *testing.T) {
		huge := New("", Coordinate{X: 65535, Y: 65535})
		notice := NewNotice(Coordinate{X: 10, Y: 10})
		assert.True(t, IsOutOfBounds(notice.Relocate(huge, Coordinate{X: 65530, Y: 0})))
	})
}

func TestNoticeMaxChars(t *testing.T) {
	tests := []struct {
		dimensions Coordinate
		want       int
	}{
		{Coordinate{X: 0, Y: 0}, 0},
		{Coordinate{X: 1, Y: 0}, 0},
		{Coordinate{X: 0, Y: 1}, 0},
		{Coordinate{X: 1, Y: 1}, 0},
		{Coordinate{X: 2, Y: 2}, 0},
		{Coordinate{X: 3, Y: 3}, 1},
		{Coordinate{X: 6, Y: 9}, 28},
		{Coordinate{X: 1, Y: 20}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.dimensions.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NewNotice(tt.dimensions).MaxChars())
		})
	}
}

func TestNoticeMaxLines(t *testing.T) {
	assert.Equal(t, 0, NewNotice(Coordinate{X: 0, Y: 0}).MaxLines())
	assert.Equal(t, 0, NewNotice(Coordinate{X: 2, Y: 2}).MaxLines())
	assert.Equal(t, 1, NewNotice(Coordinate{X: 3, Y: 3}).MaxLines())
}

func TestNoticeWrite(t *testing.T) {
	t.Run("no space", func(t *testing.T) {
		notice := NewNotice(Coordinate{X: 0, Y: 0})
		assert.ErrorIs(t, notice.Write("I am BORED"), ErrTooMuchText)
	})

	t.Run("too many characters", func(t *testing.T) {
		notice := NewNotice(Coordinate{X: 7, Y: 4})
		assert.ErrorIs(t, notice.Write("I am BORED!"), ErrTooMuchText)
		assert.Empty(t, notice.Content())
	})

	t.Run("exactly full", func(t *testing.T) {
		notice := NewNotice(Coordinate{X: 7, Y: 4})
		require.NoError(t, notice.Write("I am BORED"))
		assert.Equal(t, "I am BORED", notice.Content())
	})

	t.Run("too many lines", func(t *testing.T) {
		notice := NewNotice(Coordinate{X: 7, Y: 4})
		assert.ErrorIs(t, notice.Write("I\nam\nBORED"), ErrTooMuchText)

		notice = NewNotice(Coordinate{X: 7, Y: 6})
		require.NoError(t, notice.Write("I\nam\nBORED"))
		assert.Equal(t, "I\nam\nBORED", notice.Content())
	})

	t.Run("trailing newline on last line", func(t *testing.T) {
		notice := NewNotice(Coordinate{X: 7, Y: 4})
		assert.ErrorIs(t, notice.Write("I\nam\n"), ErrTooMuchText)
		assert.NoError(t, notice.Write("I\n"))
	})

	t.Run("last line wider than notice", func(t *testing.T) {
		notice := NewNotice(Coordinate{X: 7, Y: 4})
		assert.ErrorIs(t, notice.Write("I\nam BORED"), ErrTooMuchText)
	})

	t.Run("hyperlink urls are not counted", func(t *testing.T) {
		notice := NewNotice(Coordinate{X: 7, Y: 4})
		assert.ErrorIs(t, notice.Write("I am [BORED](NOT)!"), ErrTooMuchText)
		require.NoError(t, notice.Write("I am [BORED](NOT)"))
		assert.Equal(t, "I am [BORED](NOT)", notice.Content())
	})

	t.Run("characters not bytes", func(t *testing.T) {
		notice := NewNotice(Coordinate{X: 7, Y: 4})
		assert.NoError(t, notice.Write("ééééééééé"))
	})
}

func TestNoticeHyperlinkMap(t *testing.T) {
	notice := NewNotice(Coordinate{X: 10, Y: 6})
	require.NoError(t, notice.Write("a [bc](x) d\n[e](y)"))

	m := notice.HyperlinkMap()
	assert.Equal(t, 8, m.Width())
	assert.Equal(t, 4, m.Height())

	expected := "**00****\n" +
		"1*******\n" +
		"********\n" +
		"********\n"
	assert.Equal(t, expected, m.String())

	i, ok := m.At(3, 0)
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	_, ok = m.At(100, 0)
	assert.False(t, ok)
}

func TestNoticeHyperlinkMapWraps(t *testing.T) {
	notice := NewNotice(Coordinate{X: 5, Y: 5})
	require.NoError(t, notice.Write("ab[cdef](z)"))

	assert.Equal(t, "**0\n000\n***\n", notice.HyperlinkMap().String())
}

func TestNoticeLayout(t *testing.T) {
	notice := NewNotice(Coordinate{X: 5, Y: 4})
	require.NoError(t, notice.Write("a[bcd](z)\ne"))

	var cells []Cell
	for cell := range notice.Layout() {
		cells = append(cells, cell)
	}

	// display text is "abcd\ne": "d" wraps and the newline moves "e" down
	assert.Equal(t, []Cell{
		{X: 0, Y: 0, Rune: 'a', Offset: 0},
		{X: 1, Y: 0, Rune: 'b', Offset: 1},
		{X: 2, Y: 0, Rune: 'c', Offset: 2},
		{X: 0, Y: 1, Rune: 'd', Offset: 3},
	}, cells)
}

func TestNoticeLayoutStopsEarly(t *testing.T) {
	notice := NewNotice(Coordinate{X: 10, Y: 3})
	require.NoError(t, notice.Write("abcdef"))

	count := 0
	for range notice.Layout() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestNoticeJSON(t *testing.T) {
	b := New("", Coordinate{X: 120, Y: 40})
	notice := NewNotice(Coordinate{X: 20, Y: 5})
	require.NoError(t, notice.Write("hi [there](bored://x)"))
	require.NoError(t, notice.Relocate(b, Coordinate{X: 3, Y: 4}))

	data, err := json.Marshal(notice)
	require.NoError(t, err)
	assert.JSONEq(t, `{"top_left":{"x":3,"y":4},"dimensions":{"x":20,"y":5},"content":"hi [there](bored://x)"}`, string(data))

	var decoded Notice
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, notice, decoded)
}
