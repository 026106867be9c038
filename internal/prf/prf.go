// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package prf implements the keyed pseudorandom function required by the
// prefix-preserving trie: a single AES-128 block encryption, used the way
// the TablePRP/PRP construction in the wider anonymization literature
// derives per-round keys from a master key and then runs the cipher in
// single-block (ECB) mode rather than building a stream or AEAD construct
// the spec never asks for.
package prf

import (
	"crypto/aes"
	"crypto/cipher"
)

// PRF is a keyed pseudorandom function over 16-byte blocks.
type PRF struct {
	block cipher.Block
}

// New builds a PRF from a 16-byte AES-128 key.
func New(key [16]byte) *PRF {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		// aes.NewCipher only fails on a bad key length, which cannot
		// happen here: key is statically sized.
		panic("prf: aes.NewCipher: " + err.Error())
	}
	return &PRF{block: block}
}

// Block runs a single AES-128 encryption of in.
func (p *PRF) Block(in [16]byte) (out [16]byte) {
	p.block.Encrypt(out[:], in[:])
	return out
}

// HighBit returns the most significant bit of prf(block).
func (p *PRF) HighBit(block [16]byte) uint8 {
	out := p.Block(block)
	return out[0] >> 7
}
