package resolver

import (
	"fmt"
	"strings"

	"github.com/dyluth/bored/pkg/address"
)

// MinShortKeyLength is the minimum required length for short key prefixes.
// Set to 6 characters to balance usability with collision avoidance.
const MinShortKeyLength = 6

// ResolveShortKey finds the one candidate whose key starts with the given hex
// prefix. The prefix may carry the bored:// scheme.
//
// Named candidates match on their derived key, so a prefix copied from a key
// address finds the named entry for the same bored.
func ResolveShortKey(candidates []address.Address, shortKey string) (address.Address, error) {
	prefix := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(shortKey), address.Scheme))

	if len(prefix) < MinShortKeyLength {
		return nil, fmt.Errorf("short key must be at least %d characters (got %d)", MinShortKeyLength, len(prefix))
	}
	if strings.Trim(prefix, "0123456789abcdef") != "" {
		return nil, fmt.Errorf("short key must be hex: %q", shortKey)
	}

	var matches []address.Address
	seen := make(map[address.Key]bool)
	for _, candidate := range candidates {
		key := candidate.ResolveKey()
		if seen[key] || !strings.HasPrefix(key.String(), prefix) {
			continue
		}
		seen[key] = true
		matches = append(matches, candidate)
	}

	switch len(matches) {
	case 0:
		return nil, &NotFoundError{ShortKey: shortKey}
	case 1:
		return matches[0], nil
	default:
		return nil, &AmbiguousError{ShortKey: shortKey, Matches: matches}
	}
}

// NotFoundError indicates no saved bored matched the short key.
type NotFoundError struct {
	ShortKey string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no saved boreds found matching '%s'", e.ShortKey)
}

// AmbiguousError indicates multiple saved boreds matched the short key.
type AmbiguousError struct {
	ShortKey string
	Matches  []address.Address
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short key '%s' matches %d boreds", e.ShortKey, len(e.Matches))
}

// FormatAmbiguousError lists the matching addresses (up to 10, then
// "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "Short key '%s' matches %d boreds:\n", err.ShortKey, len(err.Matches))

	displayCount := min(len(err.Matches), 10)
	for i := range displayCount {
		fmt.Fprintf(&msg, "  %s\n", err.Matches[i])
	}
	if len(err.Matches) > 10 {
		fmt.Fprintf(&msg, "  ...and %d more\n", len(err.Matches)-10)
	}

	msg.WriteString("\nUse a longer prefix to pick one bored.")
	return msg.String()
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}
