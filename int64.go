// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package anonymizer

import (
	"crypto/rand"
	"io"
	"slices"

	"github.com/netanon/anonymizer/internal/htab"
	"github.com/netanon/anonymizer/internal/ordered"
	"github.com/netanon/anonymizer/internal/rng"
)

// Int64Engine is the signed counterpart of Uint64Engine (spec §4.4):
// "signed int64 shares the implementation with range adjusted to signed
// semantics; comparisons are numeric, not bitwise." Range arithmetic is
// done in the unsigned domain (two's complement makes uint64(upper) -
// uint64(lower) exact even when lower is negative and upper positive)
// and converted back to int64 only at the boundary.
type Int64Engine struct {
	ph    phase
	lower int64
	upper int64
	rng   io.Reader

	marked *ordered.Set[int64]
	table  *htab.Table[int64, int64]
	used   map[int64]struct{}

	lexTable map[int64]int64
}

// NewInt64Engine builds an engine over [lower, upper]. Panics if
// lower > upper.
func NewInt64Engine(lower, upper int64) *Int64Engine {
	if lower > upper {
		panic("anonymizer: NewInt64Engine: lower > upper")
	}
	return &Int64Engine{
		lower:  lower,
		upper:  upper,
		rng:    rand.Reader,
		marked: ordered.New[int64](),
		table:  htab.New[int64, int64](hashInt64),
		used:   make(map[int64]struct{}),
	}
}

func hashInt64(n int64) uint64 { return htab.HashUint64(uint64(n)) }

// SetRandSource overrides the randomness source, for reproducible tests.
func (e *Int64Engine) SetRandSource(r io.Reader) { e.rng = r }

func (e *Int64Engine) domainSize() uint64 {
	return uint64(e.upper) - uint64(e.lower) + 1
}

func (e *Int64Engine) exhausted(distinct int) bool {
	d := e.domainSize()
	return d != 0 && uint64(distinct) >= d
}

func (e *Int64Engine) draw() int64 {
	size := e.domainSize()
	if size == 0 {
		// lower == MinInt64 && upper == MaxInt64: domainSize wraps to 0
		// to mean the full 2^64-valued domain (mirrors Uint64Engine).
		return int64(rng.Uint64(e.rng))
	}
	lo := uint64(e.lower)
	limit := (^uint64(0) / size) * size
	for {
		v := rng.Uint64(e.rng)
		if v < limit {
			return int64(lo + v%size)
		}
	}
}

// SetUsed records n for the later bulk LEX assignment. Permitted only in
// INIT; duplicates are rejected silently.
func (e *Int64Engine) SetUsed(n int64) {
	e.ph.requireMarkable()
	e.marked.Add(n)
}

// Map looks up n's pseudonym, drawing and recording a fresh one on first
// sight. Permitted in INIT or NON_LEX.
func (e *Int64Engine) Map(n int64) int64 {
	e.ph.enterNonLex()
	if m, ok := e.table.Get(n); ok {
		return m
	}
	if e.exhausted(e.table.Len()) {
		panic("anonymizer: Int64Engine.Map: more distinct inputs than [lower, upper] can hold")
	}
	for {
		m := e.draw()
		if _, taken := e.used[m]; taken {
			continue
		}
		e.used[m] = struct{}{}
		e.table.Set(n, m)
		return m
	}
}

// MapLex computes the bulk lex assignment on first call, then answers by
// lookup. n must have been previously marked with SetUsed.
func (e *Int64Engine) MapLex(n int64) int64 {
	if e.ph.enterLex() {
		e.computeLexAssignment()
	}
	m, ok := e.lexTable[n]
	if !ok {
		panic("anonymizer: Int64Engine.MapLex called on an input not marked with SetUsed")
	}
	return m
}

func (e *Int64Engine) computeLexAssignment() {
	sorted := e.marked.Sorted()
	if d := e.domainSize(); d != 0 && uint64(len(sorted)) > d {
		panic("anonymizer: Int64Engine: marked set exceeds [lower, upper]")
	}
	pseudos := make([]int64, 0, len(sorted))
	seen := make(map[int64]struct{}, len(sorted))
	for len(pseudos) < len(sorted) {
		m := e.draw()
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		pseudos = append(pseudos, m)
	}
	slices.Sort(pseudos)

	e.lexTable = make(map[int64]int64, len(sorted))
	for i, raw := range sorted {
		e.lexTable[raw] = pseudos[i]
	}
	e.marked = nil
}

// Close releases the engine's hash table and marked-set storage. Go's
// garbage collector would reclaim this memory on its own once the engine
// is unreachable; Close just drops the references eagerly, matching spec
// §6's delete operation. The engine must not be used afterward.
func (e *Int64Engine) Close() {
	e.marked = nil
	e.table = nil
	e.used = nil
	e.lexTable = nil
}
