package bored

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisplay(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"single link", "I am [BORED](Not)", "I am BORED"},
		{"empty brackets and parens", "I am [BORED](Not) at all ()[]() []", "I am BORED at all () []"},
		{"no links", "plain text", "plain text"},
		{"unclosed markdown stays literal", "see [this](http://x", "see [this](http://x"},
		{"empty content", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewDisplay(tt.content).Text)
		})
	}
}

func TestExtractHyperlinksAndDisplay(t *testing.T) {
	hyperlinks, rejected := ExtractHyperlinks("")
	assert.Empty(t, hyperlinks)
	assert.Zero(t, rejected)

	content := "The [autonomi](https://autonomi.com/) website"
	hyperlinks, rejected = ExtractHyperlinks(content)
	require.Zero(t, rejected)
	require.Len(t, hyperlinks, 1)
	assert.Equal(t, Hyperlink{
		Text:         "autonomi",
		TextLocation: Span{Start: 5, End: 13},
		Link:         "https://autonomi.com/",
		LinkLocation: Span{Start: 15, End: 36},
	}, hyperlinks[0])

	display := ProjectDisplay(content, hyperlinks)
	assert.Equal(t, "The autonomi website", display.Text)
	assert.Equal(t, []Span{{Start: 4, End: 12}}, display.HyperlinkLocations)

	address := "bored://" + strings.Repeat("ab", 32)
	content += ", a [] () bored url: [bored](" + address + ")"
	hyperlinks, _ = ExtractHyperlinks(content)
	require.Len(t, hyperlinks, 2)
	assert.Equal(t, Hyperlink{
		Text:         "bored",
		TextLocation: Span{Start: 67, End: 72},
		Link:         address,
		LinkLocation: Span{Start: 74, End: 74 + 8 + 64},
	}, hyperlinks[1])

	display = ProjectDisplay(content, hyperlinks)
	assert.Equal(t, "The autonomi website, a [] () bored url: bored", display.Text)
	assert.Equal(t, []Span{{Start: 4, End: 12}, {Start: 41, End: 46}}, display.HyperlinkLocations)
}

func TestDisplaySpansMatchLinkText(t *testing.T) {
	content := "[a](1) then [ünïcode](2)\n[multi\nline](3) and [](4)"
	hyperlinks, _ := ExtractHyperlinks(content)
	display := ProjectDisplay(content, hyperlinks)

	require.Len(t, display.HyperlinkLocations, len(hyperlinks))
	for i, h := range hyperlinks {
		span := display.HyperlinkLocations[i]
		assert.Equal(t, h.Text, display.Text[span.Start:span.End], "hyperlink %d", i)
	}
}

func TestExtractHyperlinksRejectsLongURL(t *testing.T) {
	long := strings.Repeat("x", MaxURLLength+1)
	hyperlinks, rejected := ExtractHyperlinks("[ok](fine) [too](" + long + ")")

	require.Len(t, hyperlinks, 1)
	assert.Equal(t, "fine", hyperlinks[0].Link)
	assert.Equal(t, 1, rejected)

	_, err := NewHyperlink("too", Span{}, long, Span{})
	assert.ErrorIs(t, err, ErrURLTooLong)

	_, err = NewHyperlink("ok", Span{}, strings.Repeat("x", MaxURLLength), Span{})
	assert.NoError(t, err)
}

func TestDecrementHyperlinkLocations(t *testing.T) {
	var display Display
	display.decrementHyperlinkLocations(0)
	assert.Empty(t, display.HyperlinkLocations)

	display.HyperlinkLocations = []Span{{Start: 0, End: 8}, {Start: 20, End: 57}}
	display.decrementHyperlinkLocations(1)
	assert.Equal(t, []Span{{Start: 0, End: 7}, {Start: 19, End: 56}}, display.HyperlinkLocations)
}

func TestDisplayHyperlinkAt(t *testing.T) {
	display := NewDisplay("The [autonomi](https://autonomi.com/) website")

	_, ok := display.HyperlinkAt(3)
	assert.False(t, ok)

	i, ok := display.HyperlinkAt(4)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = display.HyperlinkAt(12)
	assert.False(t, ok)
}
