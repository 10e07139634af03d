package bored

import (
	"encoding/json"
	"slices"
)

// ContentTypeProtocolBase is the content type of protocol version 1. Later
// versions count up from it.
const ContentTypeProtocolBase uint64 = 2151856

// ProtocolVersion is the version of the bored protocol a board was created
// under. Methods that did not exist in older versions refuse to run on boards
// that use them.
type ProtocolVersion uint64

// ProtocolVersions lists every version this implementation understands,
// oldest first. The last entry is used for new boards.
var ProtocolVersions = []ProtocolVersion{1}

// CurrentProtocolVersion returns the version used for new boards.
func CurrentProtocolVersion() ProtocolVersion {
	return ProtocolVersions[len(ProtocolVersions)-1]
}

// CheckProtocolVersion converts a stored content type into a known protocol
// version.
func CheckProtocolVersion(contentType uint64) (ProtocolVersion, error) {
	if contentType < ContentTypeProtocolBase {
		return 0, &ProtocolVersionError{Value: contentType}
	}
	version := ProtocolVersion(contentType - ContentTypeProtocolBase + 1)
	if !version.Known() {
		return 0, &ProtocolVersionError{Value: contentType}
	}
	return version, nil
}

// Known returns true if v is one of ProtocolVersions.
func (v ProtocolVersion) Known() bool {
	return slices.Contains(ProtocolVersions, v)
}

// ContentType returns the content type that identifies v in a store.
func (v ProtocolVersion) ContentType() uint64 {
	return ContentTypeProtocolBase + uint64(v) - 1
}

// UnmarshalJSON rejects versions this implementation does not know.
func (v *ProtocolVersion) UnmarshalJSON(data []byte) error {
	var raw uint64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	version := ProtocolVersion(raw)
	if !version.Known() {
		return &ProtocolVersionError{Value: raw}
	}
	*v = version
	return nil
}
