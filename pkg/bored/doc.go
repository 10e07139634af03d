// Package bored provides the pin board data model: boreds, the notices
// pinned to them and the markdown hyperlinks written on those notices.
//
// # Overview
//
// A Bored is a bounded 2D area measured in character cells. Notices are
// bordered rectangles of text placed onto it. Notices are kept in placement
// order and each one occludes whatever lies beneath it; a notice that is
// completely covered can be pruned.
//
// # Hyperlinks
//
// Notice content may contain markdown links of the form [text](url). Only
// the link text is shown on the bored, so the package keeps two views of the
// content: the raw content that is stored, and a Display whose text has the
// link syntax removed and which records where each link's text now sits.
// Hyperlink maps project those spans onto the cells of a notice, and of the
// whole bored, so a position on screen can be turned back into a link.
//
// # Persistence
//
// Bored and Notice implement json.Marshaler so that the persisted form is
//
//	{"protocol_version":1,"name":"...","dimensions":{"x":120,"y":40},
//	 "notices":[{"top_left":{"x":0,"y":0},"dimensions":{"x":60,"y":18},"content":"..."}]}
//
// Boards written under an unknown protocol version are rejected on load.
//
// # Usage Example
//
//	b := bored.New("hello", bored.Coordinate{X: 120, Y: 40})
//	notice := bored.NewNotice(bored.Coordinate{X: 30, Y: 9})
//	if err := notice.Write("I am [bored](https://example.com)"); err != nil {
//		return err
//	}
//	if err := b.Add(notice, bored.Coordinate{X: 5, Y: 3}); err != nil {
//		return err
//	}
//
// Everything in this package is synchronous and free of I/O. A Bored is not
// safe for concurrent mutation.
package bored
