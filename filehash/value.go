// Package filehash provides file content digests, which are used to verify
// copies made while restoring locked files.
package filehash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// Value stores the bytes of a file content digest.
type Value []byte

// String returns a string representation of v in hexadecimal format.
func (v Value) String() string {
	return hex.EncodeToString(v)
}

// MarshalText encodes v as a hexadecimal string.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText unmarshals the given hexadecimal value into v.
func (v *Value) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*v = b
	return nil
}

// Equal returns true if a and b are both present and identical.
func Equal(a, b Value) bool {
	return len(a) > 0 && bytes.Equal(a, b)
}

// New returns a hash whose sum is a SHA-256 digest value.
func New() hash.Hash {
	return sha256.New()
}

// Sum computes the SHA-256 digest of all content readable from r.
func Sum(r io.Reader) (Value, error) {
	h := New()
	if _, err := io.Copy(h, r); err != nil {
		return nil, err
	}
	return Value(h.Sum(nil)), nil
}
