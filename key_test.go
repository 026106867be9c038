// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package anonymizer

import "testing"

func TestSetPassphraseDeterministic(t *testing.T) {
	k1 := NewKey()
	k2 := NewKey()
	if err := k1.SetPassphrase([]byte("correct horse battery staple")); err != nil {
		t.Fatalf("SetPassphrase: %v", err)
	}
	if err := k2.SetPassphrase([]byte("correct horse battery staple")); err != nil {
		t.Fatalf("SetPassphrase: %v", err)
	}
	s1, p1 := k1.Bytes()
	s2, p2 := k2.Bytes()
	if s1 != s2 || p1 != p2 {
		t.Fatal("same passphrase must derive identical key material")
	}
}

func TestSetPassphraseDiffersByInput(t *testing.T) {
	k1 := NewKey()
	k2 := NewKey()
	_ = k1.SetPassphrase([]byte("passphrase one"))
	_ = k2.SetPassphrase([]byte("passphrase two"))
	s1, _ := k1.Bytes()
	s2, _ := k2.Bytes()
	if s1 == s2 {
		t.Fatal("distinct passphrases should derive distinct keys")
	}
}

func TestSetRandomProducesUsableKey(t *testing.T) {
	k := NewKey()
	if err := k.SetRandom(); err != nil {
		t.Fatalf("SetRandom: %v", err)
	}
	// Bytes must not panic now that the key is set.
	k.Bytes()
}

func TestBytesPanicsBeforeSet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Bytes() on an unset Key should panic")
		}
	}()
	NewKey().Bytes()
}

func TestZeroInvalidatesKey(t *testing.T) {
	k := NewKey()
	_ = k.SetPassphrase([]byte("whatever"))
	k.Zero()

	defer func() {
		if recover() == nil {
			t.Fatal("Bytes() after Zero should panic")
		}
	}()
	k.Bytes()
}
