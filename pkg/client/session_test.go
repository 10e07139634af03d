package client

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/bored/pkg/bored"
	"github.com/dyluth/bored/pkg/store/redisstore"
)

func TestSessionRequiresBored(t *testing.T) {
	session := NewSession(New(setupTestStore(t)), State{})
	ctx := context.Background()

	assert.ErrorIs(t, session.CreateDraft(bored.Coordinate{X: 10, Y: 5}), ErrNoBored)
	assert.ErrorIs(t, session.EditDraft("text"), ErrNoBored)
	assert.ErrorIs(t, session.PositionDraft(bored.Coordinate{}), ErrNoBored)
	assert.ErrorIs(t, session.AddDraft(ctx), ErrNoBored)
	assert.ErrorIs(t, session.Refresh(ctx), ErrNoBored)
}

func TestSessionDraft(t *testing.T) {
	c := New(setupTestStore(t))
	ctx := context.Background()
	session := NewSession(c, State{})
	require.NoError(t, session.Go(ctx, setupTestBored(t, c).Address))

	t.Run("needs a draft", func(t *testing.T) {
		assert.ErrorIs(t, session.EditDraft("text"), ErrNoDraft)
		assert.ErrorIs(t, session.PositionDraft(bored.Coordinate{}), ErrNoDraft)
		assert.ErrorIs(t, session.AddDraft(ctx), ErrNoDraft)
		_, ok := session.Draft()
		assert.False(t, ok)
	})

	t.Run("draft must fit the bored", func(t *testing.T) {
		err := session.CreateDraft(bored.Coordinate{X: 121, Y: 10})
		assert.True(t, bored.IsOutOfBounds(err))
		_, ok := session.Draft()
		assert.False(t, ok)
	})

	t.Run("edit and position", func(t *testing.T) {
		require.NoError(t, session.CreateDraft(bored.Coordinate{X: 20, Y: 6}))
		require.NoError(t, session.EditDraft("hello"))
		require.NoError(t, session.PositionDraft(bored.Coordinate{X: 100, Y: 34}))

		// too much text keeps the previous content
		assert.ErrorIs(t, session.EditDraft(strings.Repeat("x", 200)), bored.ErrTooMuchText)
		// off the edge keeps the previous position
		assert.True(t, bored.IsOutOfBounds(session.PositionDraft(bored.Coordinate{X: 101, Y: 0})))

		draft, ok := session.Draft()
		require.True(t, ok)
		assert.Equal(t, "hello", draft.Content())
		assert.Equal(t, bored.Coordinate{X: 100, Y: 34}, draft.TopLeft())
	})

	t.Run("add publishes and clears the draft", func(t *testing.T) {
		require.NoError(t, session.AddDraft(ctx))

		_, ok := session.Draft()
		assert.False(t, ok)
		state := session.State()
		assert.Equal(t, uint64(1), state.Counter)
		require.Equal(t, 1, state.Bored.Len())
		assert.Equal(t, "hello", state.Bored.Notices()[0].Content())
		assert.Equal(t, bored.Coordinate{X: 100, Y: 34}, state.Bored.Notices()[0].TopLeft())
	})
}

func TestSessionAddDraftConflictAdoptsRemote(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	addr := setupTestBored(t, New(s)).Address

	alice := NewSession(New(s), State{})
	bob := NewSession(New(s), State{})
	require.NoError(t, alice.Go(ctx, addr))
	require.NoError(t, bob.Go(ctx, addr))

	require.NoError(t, bob.CreateDraft(bored.Coordinate{X: 10, Y: 4}))
	require.NoError(t, bob.EditDraft("bob"))
	require.NoError(t, bob.AddDraft(ctx))

	require.NoError(t, alice.CreateDraft(bored.Coordinate{X: 10, Y: 4}))
	require.NoError(t, alice.EditDraft("alice"))
	err := alice.AddDraft(ctx)
	_, ok := IsConflict(err)
	require.True(t, ok)

	// alice now sees bob's bored and must draft again
	state := alice.State()
	assert.Equal(t, uint64(1), state.Counter)
	require.Equal(t, 1, state.Bored.Len())
	assert.Equal(t, "bob", state.Bored.Notices()[0].Content())
	_, hasDraft := alice.Draft()
	assert.False(t, hasDraft)

	require.NoError(t, alice.CreateDraft(bored.Coordinate{X: 10, Y: 4}))
	require.NoError(t, alice.EditDraft("alice"))
	require.NoError(t, alice.PositionDraft(bored.Coordinate{X: 20, Y: 0}))
	require.NoError(t, alice.AddDraft(ctx))
	assert.Equal(t, uint64(2), alice.State().Counter)
	assert.Equal(t, 2, alice.State().Bored.Len())
}

func TestSessionAddDraftTooLarge(t *testing.T) {
	c := New(setupTestStore(t, redisstore.WithCapacity(1024)))
	ctx := context.Background()
	session := NewSession(c, State{})
	require.NoError(t, session.Go(ctx, setupTestBored(t, c).Address))

	var err error
	for range 20 {
		before := session.State()
		require.NoError(t, session.CreateDraft(bored.DefaultNoticeDimensions))
		require.NoError(t, session.EditDraft(strings.Repeat("y", 120)))
		if err = session.AddDraft(ctx); err != nil {
			after := session.State()
			assert.Equal(t, before.Counter, after.Counter)
			assert.Equal(t, before.Bored.Len()-1, after.Bored.Len())
			break
		}
	}
	require.ErrorIs(t, err, ErrCapacityExceeded)

	// the shrunk bored is ready to publish as is
	state := session.State()
	next, err := c.Publish(ctx, state, state.Bored)
	require.NoError(t, err)
	assert.Equal(t, state.Counter+1, next.Counter)
}

func TestSessionAddDraftConsumesDraftThatNoLongerFits(t *testing.T) {
	c := New(setupTestStore(t))
	ctx := context.Background()
	session := NewSession(c, State{})
	require.NoError(t, session.Go(ctx, setupTestBored(t, c).Address))

	require.NoError(t, session.CreateDraft(bored.Coordinate{X: 20, Y: 6}))
	require.NoError(t, session.PositionDraft(bored.Coordinate{X: 100, Y: 34}))

	// the bored the draft was positioned on is swapped for a smaller one
	session.state.Bored = bored.New("small", bored.Coordinate{X: 30, Y: 10})

	err := session.AddDraft(ctx)
	assert.True(t, bored.IsOutOfBounds(err))
	_, ok := session.Draft()
	assert.False(t, ok)
	assert.Equal(t, uint64(0), session.State().Counter)
}
