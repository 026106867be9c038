// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package anonymizer

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// keySize is the length of the secret K, keySize+padSize bytes are derived
// from a passphrase or the OS CSPRNG in one shot.
const keySize = 32

// padSize is the length of the padding block used as a second PRF input
// when walking the prefix trie (spec §4.1, §4.2).
const padSize = 16

// Key is the immutable secret material shared by one or more engines. The
// zero Key is not usable; build one with NewKey, SetRandom or
// SetPassphrase.
type Key struct {
	k   [keySize]byte
	pad [padSize]byte
	set bool
}

// NewKey returns an empty, unkeyed Key. Callers must call SetRandom or
// SetPassphrase before handing it to an engine.
func NewKey() *Key {
	return &Key{}
}

// SetRandom fills K and pad from the OS CSPRNG.
func (k *Key) SetRandom() error {
	buf := make([]byte, keySize+padSize)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Errorf("anonymizer: reading random key material: %w", err)
	}
	copy(k.k[:], buf[:keySize])
	copy(k.pad[:], buf[keySize:])
	k.set = true
	return nil
}

// SetPassphrase derives K and pad deterministically from p using
// HKDF-SHA-256 (RFC 5869): extract-then-expand over p is exactly the
// "digest(p) chained until long enough" construction spec §4.1 calls for,
// expressed with the corpus's own KDF instead of a hand-rolled loop.
func (k *Key) SetPassphrase(p []byte) error {
	kdf := hkdf.New(sha256.New, p, nil, []byte("netanon key schedule"))
	buf := make([]byte, keySize+padSize)
	if _, err := io.ReadFull(kdf, buf); err != nil {
		return fmt.Errorf("anonymizer: deriving key from passphrase: %w", err)
	}
	copy(k.k[:], buf[:keySize])
	copy(k.pad[:], buf[keySize:])
	k.set = true
	return nil
}

// Bytes returns the raw K and pad, for use by engines. Panics if the key
// has not been set yet, matching the illegal-state-transition handling
// spec §4.2 requires of set_key.
func (k *Key) Bytes() (secret [keySize]byte, pad [padSize]byte) {
	if !k.set {
		panic("anonymizer: Key used before SetRandom/SetPassphrase")
	}
	return k.k, k.pad
}

// Zero overwrites the key material in place before release.
func (k *Key) Zero() {
	for i := range k.k {
		k.k[i] = 0
	}
	for i := range k.pad {
		k.pad[i] = 0
	}
	k.set = false
}
