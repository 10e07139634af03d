package client

import (
	"context"
	"fmt"

	"github.com/dyluth/bored/pkg/address"
	"github.com/dyluth/bored/pkg/bored"
)

// Session tracks the bored a user is looking at and the notice they are
// drafting for it. A Session is not safe for concurrent use.
type Session struct {
	client *Client
	state  State
	draft  *bored.Notice
}

// NewSession starts a session on state, which may be empty until Go is
// called.
func NewSession(c *Client, state State) *Session {
	return &Session{client: c, state: state}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Go fetches the bored at addr and makes it current, dropping any draft. On
// error the session is unchanged.
func (s *Session) Go(ctx context.Context, addr address.Address) error {
	fresh, err := s.client.Load(ctx, addr)
	if err != nil {
		return err
	}
	s.state = fresh
	s.draft = nil
	return nil
}

// Refresh re-fetches the current bored.
func (s *Session) Refresh(ctx context.Context) error {
	fresh, err := s.client.Refresh(ctx, s.state)
	if err != nil {
		return err
	}
	s.state = fresh
	return nil
}

// CreateDraft starts a blank draft notice. The notice must fit on the bored.
func (s *Session) CreateDraft(dimensions bored.Coordinate) error {
	if !s.state.Fetched {
		return ErrNoBored
	}
	if !dimensions.Within(s.state.Bored.Dimensions()) {
		return &bored.OutOfBoundsError{Board: s.state.Bored.Dimensions(), BottomRight: dimensions}
	}
	draft := bored.NewNotice(dimensions)
	s.draft = &draft
	return nil
}

// Draft returns a copy of the draft notice, if there is one.
func (s *Session) Draft() (bored.Notice, bool) {
	if s.draft == nil {
		return bored.Notice{}, false
	}
	return *s.draft, true
}

// EditDraft replaces the draft content if it fits.
func (s *Session) EditDraft(content string) error {
	if !s.state.Fetched {
		return ErrNoBored
	}
	if s.draft == nil {
		return ErrNoDraft
	}
	return s.draft.Write(content)
}

// PositionDraft moves the draft if it stays on the bored.
func (s *Session) PositionDraft(topLeft bored.Coordinate) error {
	if !s.state.Fetched {
		return ErrNoBored
	}
	if s.draft == nil {
		return ErrNoDraft
	}
	return s.draft.Relocate(s.state.Bored, topLeft)
}

// AddDraft pins the draft to a copy of the current bored and publishes it.
// The draft is consumed whatever the outcome. On conflict the session adopts
// the newer remote bored, and on ErrCapacityExceeded the shrunk bored, before
// the error is returned.
func (s *Session) AddDraft(ctx context.Context) error {
	if !s.state.Fetched {
		return ErrNoBored
	}
	if s.draft == nil {
		return ErrNoDraft
	}

	draft := *s.draft
	s.draft = nil

	local := s.state.Bored.Clone()
	if err := local.Add(draft, draft.TopLeft()); err != nil {
		return fmt.Errorf("failed to add draft: %w", err)
	}

	next, err := s.client.Publish(ctx, s.state, local)
	if conflict, ok := IsConflict(err); ok {
		s.state = State{
			Address: s.state.Address,
			Bored:   conflict.Remote,
			Counter: conflict.Counter,
			Fetched: true,
		}
		return err
	}
	s.state = next
	return err
}
