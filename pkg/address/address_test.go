package address

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHex = "2f67b46da5e6d62c07fb97889c7e7155ca7e1fd3efb711a5468eeda8e1501330"

func TestKeyAddressString(t *testing.T) {
	addr, err := NewKeyAddress()
	require.NoError(t, err)
	assert.Equal(t, "bored://"+addr.ResolveKey().String(), addr.String())
	assert.Len(t, addr.String(), 72)

	other, err := NewKeyAddress()
	require.NoError(t, err)
	assert.NotEqual(t, addr.ResolveKey(), other.ResolveKey())
}

func TestParse(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Parse("")
		assert.ErrorIs(t, err, ErrNotBoredURL)
	})

	t.Run("with scheme", func(t *testing.T) {
		addr, err := Parse("bored://" + testHex)
		require.NoError(t, err)
		assert.Equal(t, testHex, addr.ResolveKey().String())
		assert.IsType(t, KeyAddress{}, addr)
	})

	t.Run("bare hex", func(t *testing.T) {
		addr, err := Parse("  " + testHex + "\n")
		require.NoError(t, err)
		assert.Equal(t, testHex, addr.ResolveKey().String())
	})

	t.Run("round trip", func(t *testing.T) {
		addr, err := NewKeyAddress()
		require.NoError(t, err)
		parsed, err := Parse(addr.String())
		require.NoError(t, err)
		assert.True(t, Equal(addr, parsed))
	})

	t.Run("name", func(t *testing.T) {
		addr, err := Parse("bored://news.local")
		require.NoError(t, err)
		name, ok := addr.(NameAddress)
		require.True(t, ok)
		assert.Equal(t, "news.local", name.Name())
		assert.Equal(t, "bored://news.local", addr.String())
	})

	t.Run("bare name is not an address", func(t *testing.T) {
		_, err := Parse("news")
		assert.ErrorIs(t, err, ErrNotBoredURL)
	})

	t.Run("invalid names", func(t *testing.T) {
		for _, s := range []string{"bored://", "bored://a..b", "bored://.a", "bored://has space", "bored://" + strings.Repeat("a", 256)} {
			_, err := Parse(s)
			assert.ErrorIs(t, err, ErrNotBoredURL, s)
		}
	})

	t.Run("short hex", func(t *testing.T) {
		_, err := ParseKey(testHex[:10])
		assert.ErrorIs(t, err, ErrNotBoredURL)
		_, err = ParseKey(strings.Repeat("z", 64))
		assert.ErrorIs(t, err, ErrNotBoredURL)
	})
}

func TestDeriveKey(t *testing.T) {
	news, err := NewNameAddress("news")
	require.NoError(t, err)
	newsLocal, err := NewNameAddress("news.local")
	require.NoError(t, err)

	assert.Equal(t, news.ResolveKey(), DeriveKey(RootKey, []string{"news"}))
	assert.Equal(t, newsLocal.ResolveKey(), DeriveKey(news.ResolveKey(), []string{"local"}))
	assert.NotEqual(t, news.ResolveKey(), newsLocal.ResolveKey())
	assert.Equal(t, RootKey, DeriveKey(RootKey, nil))

	again, err := NewNameAddress("news.local")
	require.NoError(t, err)
	assert.True(t, Equal(newsLocal, again))
}

func TestStoreID(t *testing.T) {
	key, err := ParseKey(testHex)
	require.NoError(t, err)

	id := key.StoreID()
	assert.Len(t, id, 64)
	assert.NotEqual(t, testHex, id)
	assert.Equal(t, id, key.StoreID())

	other, err := NewKeyAddress()
	require.NoError(t, err)
	assert.NotEqual(t, id, other.ResolveKey().StoreID())
}

func TestClassifyTarget(t *testing.T) {
	t.Run("bored", func(t *testing.T) {
		target, err := ClassifyTarget("bored://" + testHex)
		require.NoError(t, err)
		assert.Equal(t, TargetBored, target.Kind)
		assert.Equal(t, testHex, target.Bored.ResolveKey().String())
		assert.True(t, IsBored("bored://" + testHex))
	})

	t.Run("web", func(t *testing.T) {
		for _, s := range []string{"https://autonomi.com", "http://www.bbsdocumentary.com/"} {
			target, err := ClassifyTarget(s)
			require.NoError(t, err)
			assert.Equal(t, TargetWeb, target.Kind)
			assert.Equal(t, s, target.Raw)
		}
		assert.False(t, IsBored("https://autonomi.com"))
	})

	t.Run("app", func(t *testing.T) {
		target, err := ClassifyTarget("app://home")
		require.NoError(t, err)
		assert.Equal(t, TargetApp, target.Kind)
		assert.Equal(t, "home", target.Command)

		_, err = ClassifyTarget("app://reboot")
		assert.ErrorIs(t, err, ErrUnknownURLType)
	})

	t.Run("content", func(t *testing.T) {
		target, err := ClassifyTarget("ant://" + strings.ToUpper(testHex))
		require.NoError(t, err)
		assert.Equal(t, TargetContent, target.Kind)
		assert.Equal(t, testHex, target.Content)

		_, err = ClassifyTarget("ant://1234")
		assert.ErrorIs(t, err, ErrUnknownURLType)
	})

	t.Run("unknown", func(t *testing.T) {
		for _, s := range []string{"not a url", "", "ftp://example.com"} {
			_, err := ClassifyTarget(s)
			assert.ErrorIs(t, err, ErrUnknownURLType, s)
		}
	})
}
