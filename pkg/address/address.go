// Package address identifies boreds.
//
// Every bored lives at a 32-byte key. The key is both the secret needed to
// read and write the bored and the input to its store id, so sharing an
// address shares write access. Keys are either random (KeyAddress) or
// derived from a dotted name (NameAddress).
//
// Addresses are written as "bored://" followed by 64 hex characters, or by a
// name such as "bored://news.local". A bare 64 character hex string is also
// accepted.
package address

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Scheme prefixes every formatted address.
const Scheme = "bored://"

// KeySize is the length of a bored key in bytes.
const KeySize = 32

// ErrNotBoredURL is returned when a string is not a bored address.
var ErrNotBoredURL = errors.New("not a bored url")

// Key is the secret that identifies and seals a bored.
type Key [KeySize]byte

// String returns the key as lowercase hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// ParseKey decodes 64 hex characters.
func ParseKey(s string) (Key, error) {
	var k Key
	if len(s) != hex.EncodedLen(KeySize) {
		return k, fmt.Errorf("%w: %q: key must be %d hex characters", ErrNotBoredURL, s, hex.EncodedLen(KeySize))
	}
	if _, err := hex.Decode(k[:], []byte(s)); err != nil {
		return k, fmt.Errorf("%w: %q: %v", ErrNotBoredURL, s, err)
	}
	return k, nil
}

// StoreID returns the id under which the bored for k is kept in a store.
// It is a one-way hash so that store operators never see the key.
func (k Key) StoreID() string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte("bored store id\x00"))
	h.Write(k[:])
	return hex.EncodeToString(h.Sum(nil))
}

// Address is anything that resolves to a bored key.
type Address interface {
	// ResolveKey returns the key of the bored.
	ResolveKey() Key
	// String formats the address for sharing.
	String() string
}

// KeyAddress is an address holding its key directly.
type KeyAddress struct {
	key Key
}

// NewKeyAddress returns an address with a freshly generated random key.
func NewKeyAddress() (KeyAddress, error) {
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		return KeyAddress{}, fmt.Errorf("failed to generate key: %w", err)
	}
	return KeyAddress{key: k}, nil
}

// KeyAddressFromKey wraps an existing key.
func KeyAddressFromKey(k Key) KeyAddress {
	return KeyAddress{key: k}
}

// ResolveKey implements Address.
func (a KeyAddress) ResolveKey() Key {
	return a.key
}

// String implements Address.
func (a KeyAddress) String() string {
	return Scheme + a.key.String()
}

// NameAddress is an address whose key is derived from a dotted name.
type NameAddress struct {
	name string
}

// NewNameAddress validates name and returns its address.
func NewNameAddress(name string) (NameAddress, error) {
	if !validName(name) {
		return NameAddress{}, fmt.Errorf("%w: invalid name %q", ErrNotBoredURL, name)
	}
	return NameAddress{name: name}, nil
}

// Name returns the dotted name.
func (a NameAddress) Name() string {
	return a.name
}

// ResolveKey implements Address.
func (a NameAddress) ResolveKey() Key {
	return DeriveKey(RootKey, strings.Split(a.name, "."))
}

// String implements Address.
func (a NameAddress) String() string {
	return Scheme + a.name
}

// Parse turns a user supplied string into an address. Surrounding whitespace
// is ignored. Names are only recognised after the scheme so that arbitrary
// words are never mistaken for boreds.
func Parse(s string) (Address, error) {
	s = strings.TrimSpace(s)
	rest, hasScheme := strings.CutPrefix(s, Scheme)

	if key, err := ParseKey(rest); err == nil {
		return KeyAddress{key: key}, nil
	}
	if hasScheme {
		return NewNameAddress(rest)
	}
	return nil, fmt.Errorf("%w: %q", ErrNotBoredURL, s)
}

// Equal returns true if both addresses resolve to the same key.
func Equal(a, b Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ResolveKey() == b.ResolveKey()
}
