package bored

import (
	"regexp"
	"slices"
)

// MaxURLLength limits the bytes a hyperlink target may use so that a stray
// paste cannot make a bored too big for its store.
const MaxURLLength = 2048

// hyperlinkPattern matches markdown links: [text](url)
var hyperlinkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)

// Span is a half-open byte range [Start, End) into a string.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains returns true if offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Hyperlink is a markdown link found in raw notice content. Locations are
// byte offsets into the raw (un-stripped) content.
type Hyperlink struct {
	Text         string
	TextLocation Span
	Link         string
	LinkLocation Span
}

// NewHyperlink creates a Hyperlink, rejecting links longer than MaxURLLength.
func NewHyperlink(text string, textLocation Span, link string, linkLocation Span) (Hyperlink, error) {
	if len(link) > MaxURLLength {
		return Hyperlink{}, ErrURLTooLong
	}
	return Hyperlink{
		Text:         text,
		TextLocation: textLocation,
		Link:         link,
		LinkLocation: linkLocation,
	}, nil
}

// ExtractHyperlinks returns every markdown link in content, left to right.
// Links whose url is longer than MaxURLLength are left out and counted in
// rejected, so callers can tell "no links" apart from "links were dropped".
// Malformed markdown is never an error: unmatched brackets stay literal text.
func ExtractHyperlinks(content string) (hyperlinks []Hyperlink, rejected int) {
	for _, m := range hyperlinkPattern.FindAllStringSubmatchIndex(content, -1) {
		// m[2:4] is the text group, m[4:6] the url group
		hyperlink, err := NewHyperlink(
			content[m[2]:m[3]],
			Span{Start: m[2], End: m[3]},
			content[m[4]:m[5]],
			Span{Start: m[4], End: m[5]},
		)
		if err != nil {
			rejected++
			continue
		}
		hyperlinks = append(hyperlinks, hyperlink)
	}
	return hyperlinks, rejected
}

// Display is notice content with markdown link syntax removed, plus the
// byte spans of each hyperlink's visible text in the display text, left to
// right in the order the links appear in the raw content.
type Display struct {
	Text               string
	HyperlinkLocations []Span
}

// NewDisplay extracts the hyperlinks of content and projects it for display.
func NewDisplay(content string) Display {
	hyperlinks, _ := ExtractHyperlinks(content)
	return ProjectDisplay(content, hyperlinks)
}

// ProjectDisplay strips the link syntax of hyperlinks out of content.
//
// Links are removed right to left: removing the rightmost first leaves the
// raw offsets of every link still to be processed valid. Each removal shifts
// the spans already recorded (all of which lie to its right) left by the
// number of bytes removed.
func ProjectDisplay(content string, hyperlinks []Hyperlink) Display {
	var display Display
	text := content
	for i := len(hyperlinks) - 1; i >= 0; i-- {
		h := hyperlinks[i]

		// remove url including the surrounding parentheses
		previousLen := len(text)
		text = text[:h.LinkLocation.Start-1] + text[h.LinkLocation.End+1:]
		display.decrementHyperlinkLocations(previousLen - len(text))

		// replace [text] with text
		previousLen = len(text)
		text = text[:h.TextLocation.Start-1] + h.Text + text[h.TextLocation.End+1:]
		display.decrementHyperlinkLocations(previousLen - len(text))

		// only the opening [ precedes the link text
		display.HyperlinkLocations = append(display.HyperlinkLocations, Span{
			Start: h.TextLocation.Start - 1,
			End:   h.TextLocation.End - 1,
		})
	}

	slices.Reverse(display.HyperlinkLocations)
	display.Text = text
	return display
}

// HyperlinkAt returns the index of the hyperlink whose visible text covers
// the display byte offset.
func (d Display) HyperlinkAt(offset int) (int, bool) {
	for i, span := range d.HyperlinkLocations {
		if span.Contains(offset) {
			return i, true
		}
	}
	return 0, false
}

// decrementHyperlinkLocations shifts every recorded span left by n, never
// below zero.
func (d *Display) decrementHyperlinkLocations(n int) {
	for i := range d.HyperlinkLocations {
		d.HyperlinkLocations[i].Start = max(d.HyperlinkLocations[i].Start-n, 0)
		d.HyperlinkLocations[i].End = max(d.HyperlinkLocations[i].End-n, 0)
	}
}
