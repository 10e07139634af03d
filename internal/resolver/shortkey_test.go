package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/bored/pkg/address"
)

func keyAddress(t *testing.T, hex string) address.Address {
	t.Helper()
	addr, err := address.Parse(hex)
	require.NoError(t, err)
	return addr
}

func TestResolveShortKey(t *testing.T) {
	first := keyAddress(t, "abcdef01"+strings.Repeat("0", 56))
	second := keyAddress(t, "abcdef02"+strings.Repeat("0", 56))
	third := keyAddress(t, "123456"+strings.Repeat("f", 58))
	candidates := []address.Address{first, second, third}

	t.Run("unique prefix", func(t *testing.T) {
		addr, err := ResolveShortKey(candidates, "123456")
		require.NoError(t, err)
		assert.Equal(t, third, addr)
	})

	t.Run("scheme and case are ignored", func(t *testing.T) {
		addr, err := ResolveShortKey(candidates, "bored://ABCDEF01")
		require.NoError(t, err)
		assert.Equal(t, first, addr)
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		_, err := ResolveShortKey(candidates, "abcdef")
		require.Error(t, err)
		assert.True(t, IsAmbiguousError(err))

		msg := FormatAmbiguousError(err.(*AmbiguousError))
		assert.Contains(t, msg, "matches 2 boreds")
		assert.Contains(t, msg, first.String())
		assert.Contains(t, msg, second.String())
	})

	t.Run("no match", func(t *testing.T) {
		_, err := ResolveShortKey(candidates, "fedcba")
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("too short", func(t *testing.T) {
		_, err := ResolveShortKey(candidates, "abc")
		assert.ErrorContains(t, err, "at least 6 characters")
	})

	t.Run("not hex", func(t *testing.T) {
		_, err := ResolveShortKey(candidates, "town.square")
		assert.ErrorContains(t, err, "must be hex")
	})

	t.Run("same bored listed twice", func(t *testing.T) {
		named, err := address.NewNameAddress("town.square")
		require.NoError(t, err)
		derived := address.KeyAddressFromKey(named.ResolveKey())

		addr, err := ResolveShortKey([]address.Address{named, derived}, derived.ResolveKey().String()[:8])
		require.NoError(t, err)
		assert.Equal(t, named, addr)
	})
}

func TestFormatAmbiguousErrorTruncates(t *testing.T) {
	var matches []address.Address
	for i := range 12 {
		matches = append(matches, keyAddress(t, strings.Repeat("0", 62)+string("0123456789ab"[i])+"0"))
	}

	msg := FormatAmbiguousError(&AmbiguousError{ShortKey: "000000", Matches: matches})

	assert.Contains(t, msg, "...and 2 more")
	assert.Equal(t, 10, strings.Count(msg, "bored://"))
}
