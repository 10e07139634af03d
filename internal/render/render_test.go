package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/bored/pkg/bored"
)

type noticeSpec struct {
	dims, topLeft bored.Coordinate
	content       string
}

// newTestBored builds a bored holding the given notices in order
func newTestBored(t *testing.T, dims bored.Coordinate, notices ...noticeSpec) *bored.Bored {
	b := bored.New("test", dims)
	for _, ns := range notices {
		n := bored.NewNotice(ns.dims)
		require.NoError(t, n.Write(ns.content))
		require.NoError(t, b.Add(n, ns.topLeft))
	}
	return b
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "html", "occlusion", "links"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorContains(t, err, "unknown format: pdf")
}

func TestNoticeLines(t *testing.T) {
	tests := []struct {
		name     string
		dims     bored.Coordinate
		content  string
		expected []string
	}{
		{
			name:     "hyperlink shows its text only",
			dims:     bored.Coordinate{X: 8, Y: 4},
			content:  "hi [a](x)\nyo",
			expected: []string{"hi a  ", "yo    "},
		},
		{
			name:     "long line wraps at the interior width",
			dims:     bored.Coordinate{X: 5, Y: 5},
			content:  "ab[cdef](z)",
			expected: []string{"abc", "def", "   "},
		},
		{
			name:     "full single row",
			dims:     bored.Coordinate{X: 6, Y: 3},
			content:  "abcd",
			expected: []string{"abcd"},
		},
		{
			name:     "empty notice",
			dims:     bored.Coordinate{X: 4, Y: 3},
			content:  "",
			expected: []string{"  "},
		},
		{
			name:     "no interior",
			dims:     bored.Coordinate{X: 2, Y: 2},
			content:  "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := bored.NewNotice(tt.dims)
			require.NoError(t, n.Write(tt.content))
			assert.Equal(t, tt.expected, NoticeLines(n))
		})
	}
}

func TestNoticeLinesMatchHyperlinkMap(t *testing.T) {
	n := bored.NewNotice(bored.Coordinate{X: 7, Y: 7})
	require.NoError(t, n.Write("see [the town](bored://town) and\n[me](app://about)"))

	lines := NoticeLines(n)
	links := n.HyperlinkMap()
	texts := make(map[int]string)
	for y, line := range lines {
		for x, r := range []rune(line) {
			if i, ok := links.At(x, y); ok {
				texts[i] += string(r)
			}
		}
	}

	assert.Equal(t, map[int]string{0: "the town", 1: "me"}, texts)
}

func TestText(t *testing.T) {
	t.Run("single notice", func(t *testing.T) {
		b := newTestBored(t, bored.Coordinate{X: 12, Y: 5}, noticeSpec{
			dims:    bored.Coordinate{X: 8, Y: 4},
			topLeft: bored.Coordinate{X: 1, Y: 0},
			content: "hi [a](x)\nyo",
		})

		expected := " +------+\n" +
			" |hi a  |\n" +
			" |yo    |\n" +
			" +------+\n" +
			"\n"
		assert.Equal(t, expected, Text(b))
	})

	t.Run("later notices draw over earlier ones", func(t *testing.T) {
		b := newTestBored(t, bored.Coordinate{X: 10, Y: 4},
			noticeSpec{dims: bored.Coordinate{X: 6, Y: 3}, topLeft: bored.Coordinate{}, content: "abcd"},
			noticeSpec{dims: bored.Coordinate{X: 4, Y: 3}, topLeft: bored.Coordinate{X: 3, Y: 1}, content: "xy"},
		)

		expected := "+----+\n" +
			"|ab+--+\n" +
			"+--|xy|\n" +
			"   +--+\n"
		assert.Equal(t, expected, Text(b))
	})

	t.Run("empty bored", func(t *testing.T) {
		b := bored.New("test", bored.Coordinate{X: 3, Y: 2})
		assert.Equal(t, "\n\n", Text(b))
	})
}

func TestWrite(t *testing.T) {
	b := newTestBored(t, bored.Coordinate{X: 6, Y: 4},
		noticeSpec{dims: bored.Coordinate{X: 3, Y: 3}, topLeft: bored.Coordinate{}, content: "a"},
		noticeSpec{dims: bored.Coordinate{X: 3, Y: 2}, topLeft: bored.Coordinate{X: 2, Y: 1}, content: ""},
	)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, b, FormatOcclusion))
	assert.Equal(t, b.Occlusion().String(), buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, b, FormatText))
	assert.Equal(t, Text(b), buf.String())

	assert.Error(t, Write(&buf, b, Format("pdf")))
}

func TestLinks(t *testing.T) {
	b := newTestBored(t, bored.Coordinate{X: 40, Y: 10},
		noticeSpec{
			dims:    bored.Coordinate{X: 20, Y: 5},
			topLeft: bored.Coordinate{},
			content: "go [home](app://home) or [web](https://example.com)",
		},
		noticeSpec{
			dims:    bored.Coordinate{X: 10, Y: 4},
			topLeft: bored.Coordinate{X: 25, Y: 2},
			content: "[odd](ftp://x)",
		},
	)

	var buf bytes.Buffer
	require.NoError(t, Links(&buf, b))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, b.HyperlinkMap().String()))
	var rows [][]string
	for _, line := range strings.Split(out, "\n") {
		if fields := strings.Fields(line); len(fields) == 5 && fields[0] != "NOTICE" && !strings.HasPrefix(fields[0], "-") {
			rows = append(rows, fields)
		}
	}
	assert.Equal(t, [][]string{
		{"0", "0", "app", "home", "app://home"},
		{"0", "1", "web", "web", "https://example.com"},
		{"1", "0", "invalid", "odd", "ftp://x"},
	}, rows)
	assert.Contains(t, out, "3 hyperlinks found")
}

func TestHTML(t *testing.T) {
	r := NewHTMLRenderer()

	t.Run("notice markdown is sanitized", func(t *testing.T) {
		n := bored.NewNotice(bored.Coordinate{X: 60, Y: 18})
		require.NoError(t, n.Write("see [site](https://example.com) **now**\n\n<script>alert(1)</script>"))

		body, err := r.Notice(n)
		require.NoError(t, err)
		assert.Contains(t, body, `href="https://example.com"`)
		assert.Contains(t, body, "<strong>now</strong>")
		assert.NotContains(t, body, "<script")
		assert.NotContains(t, body, "alert(1)")
	})

	t.Run("bored and app links survive", func(t *testing.T) {
		n := bored.NewNotice(bored.Coordinate{X: 60, Y: 18})
		require.NoError(t, n.Write("[next](bored://town.square) [home](app://home)"))

		body, err := r.Notice(n)
		require.NoError(t, err)
		assert.Contains(t, body, `href="bored://town.square"`)
		assert.Contains(t, body, `href="app://home"`)
	})

	t.Run("only visible notices are rendered", func(t *testing.T) {
		b := newTestBored(t, bored.Coordinate{X: 20, Y: 10},
			noticeSpec{dims: bored.Coordinate{X: 5, Y: 4}, topLeft: bored.Coordinate{X: 1, Y: 1}, content: "hidden"},
			noticeSpec{dims: bored.Coordinate{X: 10, Y: 6}, topLeft: bored.Coordinate{}, content: "cover"},
			noticeSpec{dims: bored.Coordinate{X: 6, Y: 3}, topLeft: bored.Coordinate{X: 12, Y: 5}, content: "side"},
		)

		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, b))
		out := buf.String()

		assert.True(t, strings.HasPrefix(out, `<div class="bored" data-name="test" style="width: 20ch; height: 10em">`))
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, `style="left: 0ch; top: 0em; width: 10ch; height: 6em; z-index: 0"><p>cover</p></div>`)
		assert.Contains(t, out, `style="left: 12ch; top: 5em; width: 6ch; height: 3em; z-index: 1"><p>side</p></div>`)
		assert.True(t, strings.HasSuffix(out, "</div>\n"))
	})
}
