package client

import (
	"errors"
	"fmt"

	"github.com/dyluth/bored/pkg/bored"
)

var (
	// ErrNeverFetched is returned by Publish when the state was never
	// populated by a fetch, so there is no counter to compare against.
	ErrNeverFetched = errors.New("bored has not been fetched yet")

	// ErrCapacityExceeded is returned by Publish when the bored is too big for
	// the store. The state returned alongside it has already been shrunk.
	ErrCapacityExceeded = errors.New("bored is too big for the store")

	// ErrDecryption means the blob could not be opened with the address key.
	ErrDecryption = errors.New("failed to decrypt bored")

	// ErrBinary means the decrypted blob is not valid UTF-8.
	ErrBinary = errors.New("bored is not valid text")

	// ErrDeserialization means the decrypted text is not a valid bored.
	ErrDeserialization = errors.New("failed to deserialize bored")

	// ErrNoBored is returned by Session methods that need a fetched bored.
	ErrNoBored = errors.New("no bored loaded")

	// ErrNoDraft is returned by Session methods that need a draft notice.
	ErrNoDraft = errors.New("no draft notice")
)

// FetchError reports why a stored bored could not be read. Kind is one of
// ErrDecryption, ErrBinary or ErrDeserialization.
type FetchError struct {
	Address string
	Kind    error
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Address, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Address, e.Kind, e.Err)
}

// Unwrap lets errors.Is match both the kind and the cause.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ConflictError is returned by Publish when another writer updated the
// bored first. Remote and Counter are the latest stored version; callers
// should adopt them and reapply their change.
type ConflictError struct {
	Remote  *bored.Bored
	Counter uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a more recent version of the bored exists (counter %d)", e.Counter)
}

// IsConflict returns the conflict if err is or wraps a *ConflictError.
func IsConflict(err error) (*ConflictError, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}
