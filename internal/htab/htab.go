// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package htab implements the chained hash table of spec §4.6: a bucket
// slice of singly-linked chains, grown by rehashing once the load factor
// crosses a threshold. Spec §9 notes that "any high-quality hashed
// mapping ... suffices" in place of the original's identity hash over
// u64 — HashUint64 below is a splitmix64-style mixing function rather
// than the identity, so that sequential input values (the common case for
// trace data) don't all land in the same bucket.
package htab

import "hash/fnv"

const loadFactor = 0.75

type entry[K comparable, V any] struct {
	key  K
	val  V
	next int32
}

// Table is a chained hash map from K to V.
type Table[K comparable, V any] struct {
	hash    func(K) uint64
	buckets []int32
	entries []entry[K, V]
}

// New returns an empty Table using hash to place keys into buckets.
func New[K comparable, V any](hash func(K) uint64) *Table[K, V] {
	t := &Table[K, V]{hash: hash, buckets: make([]int32, 16)}
	for i := range t.buckets {
		t.buckets[i] = -1
	}
	return t
}

func (t *Table[K, V]) bucketOf(k K) int {
	return int(t.hash(k) & uint64(len(t.buckets)-1))
}

// Get looks up k.
func (t *Table[K, V]) Get(k K) (V, bool) {
	for i := t.buckets[t.bucketOf(k)]; i != -1; i = t.entries[i].next {
		if t.entries[i].key == k {
			return t.entries[i].val, true
		}
	}
	var zero V
	return zero, false
}

// Set inserts or overwrites the mapping for k, growing the table if the
// load factor threshold is crossed.
func (t *Table[K, V]) Set(k K, v V) {
	b := t.bucketOf(k)
	for i := t.buckets[b]; i != -1; i = t.entries[i].next {
		if t.entries[i].key == k {
			t.entries[i].val = v
			return
		}
	}
	t.entries = append(t.entries, entry[K, V]{key: k, val: v, next: t.buckets[b]})
	t.buckets[b] = int32(len(t.entries) - 1)
	if float64(len(t.entries))/float64(len(t.buckets)) > loadFactor {
		t.grow()
	}
}

// Len reports the number of entries stored.
func (t *Table[K, V]) Len() int { return len(t.entries) }

func (t *Table[K, V]) grow() {
	buckets := make([]int32, len(t.buckets)*2)
	for i := range buckets {
		buckets[i] = -1
	}
	t.buckets = buckets
	for i := range t.entries {
		b := t.bucketOf(t.entries[i].key)
		t.entries[i].next = t.buckets[b]
		t.buckets[b] = int32(i)
	}
}

// HashUint64 mixes x the way splitmix64 does, avoiding the clustering an
// identity hash would suffer on the sequential/near-sequential integer
// traffic typical of trace data.
func HashUint64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// HashBytes returns the low 64 bits of an FNV-1a digest of s, for
// variable-length (octet-string) keys.
func HashBytes(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
