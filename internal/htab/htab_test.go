// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package htab

import "testing"

func TestSetGet(t *testing.T) {
	tab := New[uint64, uint64](HashUint64)
	tab.Set(1, 100)
	tab.Set(2, 200)

	if v, ok := tab.Get(1); !ok || v != 100 {
		t.Fatalf("Get(1) = %d, %v, want 100, true", v, ok)
	}
	if v, ok := tab.Get(2); !ok || v != 200 {
		t.Fatalf("Get(2) = %d, %v, want 200, true", v, ok)
	}
	if _, ok := tab.Get(3); ok {
		t.Fatal("Get(3) should report not-found")
	}
}

func TestSetOverwrite(t *testing.T) {
	tab := New[uint64, uint64](HashUint64)
	tab.Set(1, 100)
	tab.Set(1, 200)

	if v, ok := tab.Get(1); !ok || v != 200 {
		t.Fatalf("Get(1) = %d, %v, want 200, true", v, ok)
	}
	if tab.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after overwrite", tab.Len())
	}
}

func TestGrowPreservesEntries(t *testing.T) {
	tab := New[uint64, uint64](HashUint64)
	const n = 1000
	for i := uint64(0); i < n; i++ {
		tab.Set(i, i*i)
	}
	if tab.Len() != n {
		t.Fatalf("Len() = %d, want %d", tab.Len(), n)
	}
	for i := uint64(0); i < n; i++ {
		v, ok := tab.Get(i)
		if !ok || v != i*i {
			t.Fatalf("Get(%d) = %d, %v, want %d, true", i, v, ok, i*i)
		}
	}
}

func TestHashUint64IsNotIdentity(t *testing.T) {
	// The whole point of splitmix64 mixing here is that sequential keys
	// don't produce sequential (or identical) hashes.
	if HashUint64(0) == 0 {
		t.Fatal("HashUint64(0) should not be the identity")
	}
	if HashUint64(1) == HashUint64(2) {
		t.Fatal("adjacent keys should not collide trivially")
	}
}

func TestHashBytes(t *testing.T) {
	if HashBytes("foo") == HashBytes("bar") {
		t.Fatal("distinct strings should (almost certainly) hash differently")
	}
	if HashBytes("foo") != HashBytes("foo") {
		t.Fatal("HashBytes must be deterministic")
	}
}
