package address

import (
	"crypto/sha256"
	"io"
	"regexp"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
)

// RootKey is the fixed base from which every name is derived.
var RootKey = Key(blake2b.Sum256([]byte("bored name root v1")))

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*$`)

func validName(name string) bool {
	return len(name) <= 255 && namePattern.MatchString(name)
}

// DeriveKey stretches base through each path segment in turn. The same base
// and path always give the same key, and "a.b" derives from "a".
func DeriveKey(base Key, path []string) Key {
	key := base
	for _, segment := range path {
		r := hkdf.New(sha256.New, key[:], nil, []byte(segment))
		var next Key
		// hkdf only fails after 255 blocks of output
		if _, err := io.ReadFull(r, next[:]); err != nil {
			panic(err)
		}
		key = next
	}
	return key
}
