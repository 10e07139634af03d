package address

import (
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownURLType is returned when a hyperlink target is of no known kind.
var ErrUnknownURLType = errors.New("unknown url type")

// TargetKind says what a hyperlink points at.
type TargetKind int

const (
	// TargetBored is another bored.
	TargetBored TargetKind = iota
	// TargetWeb is an http or https page.
	TargetWeb
	// TargetApp is a command handled by the application itself.
	TargetApp
	// TargetContent is an immutable content address to download.
	TargetContent
)

// String implements fmt.Stringer.
func (k TargetKind) String() string {
	switch k {
	case TargetBored:
		return "bored"
	case TargetWeb:
		return "web"
	case TargetApp:
		return "app"
	case TargetContent:
		return "content"
	}
	return fmt.Sprintf("TargetKind(%d)", int(k))
}

const (
	appScheme     = "app://"
	contentScheme = "ant://"
)

// AppCommands are the commands an app:// link may name.
var AppCommands = []string{"home", "about"}

// Target is a classified hyperlink target.
type Target struct {
	Kind TargetKind
	// Raw is the trimmed target as written.
	Raw string
	// Bored is set for TargetBored.
	Bored Address
	// Command is set for TargetApp.
	Command string
	// Content is the hex content address for TargetContent.
	Content string
}

// ClassifyTarget works out what kind of link s is.
func ClassifyTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	target := Target{Raw: s}

	if addr, err := Parse(s); err == nil {
		target.Kind = TargetBored
		target.Bored = addr
		return target, nil
	}

	switch {
	case strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://"):
		target.Kind = TargetWeb
		return target, nil

	case strings.HasPrefix(s, appScheme):
		command := strings.TrimPrefix(s, appScheme)
		if !slices.Contains(AppCommands, command) {
			return Target{}, fmt.Errorf("%w: unknown app command %q (must be one of %s)",
				ErrUnknownURLType, command, strings.Join(AppCommands, ", "))
		}
		target.Kind = TargetApp
		target.Command = command
		return target, nil

	case strings.HasPrefix(s, contentScheme):
		content := strings.TrimPrefix(s, contentScheme)
		if _, err := hex.DecodeString(content); err != nil || len(content) != hex.EncodedLen(KeySize) {
			return Target{}, fmt.Errorf("%w: invalid content address %q", ErrUnknownURLType, content)
		}
		target.Kind = TargetContent
		target.Content = strings.ToLower(content)
		return target, nil
	}

	return Target{}, fmt.Errorf("%w: %q", ErrUnknownURLType, s)
}

// IsBored returns true if s is a bored address.
func IsBored(s string) bool {
	_, err := Parse(s)
	return err == nil
}
