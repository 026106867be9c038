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

// Uint64Engine generates range-constrained pseudonyms for uint64 values
// (spec §4.4). The zero value is not usable; build one with
// NewUint64Engine.
type Uint64Engine struct {
	ph    phase
	lower uint64
	upper uint64
	rng   io.Reader

	marked *ordered.Set[uint64]
	table  *htab.Table[uint64, uint64]
	used   map[uint64]struct{}

	lexTable map[uint64]uint64
}

// NewUint64Engine builds an engine over [lower, upper]. Panics if
// lower > upper (spec §4.4 invariant).
func NewUint64Engine(lower, upper uint64) *Uint64Engine {
	if lower > upper {
		panic("anonymizer: NewUint64Engine: lower > upper")
	}
	return &Uint64Engine{
		lower:  lower,
		upper:  upper,
		rng:    rand.Reader,
		marked: ordered.New[uint64](),
		table:  htab.New[uint64, uint64](htab.HashUint64),
		used:   make(map[uint64]struct{}),
	}
}

// SetRandSource overrides the randomness source, for reproducible tests.
func (e *Uint64Engine) SetRandSource(r io.Reader) { e.rng = r }

// domainSize returns upper-lower+1, or 0 to mean the full 2^64 domain
// when that arithmetic wraps (lower=0, upper=MaxUint64).
func (e *Uint64Engine) domainSize() uint64 {
	return e.upper - e.lower + 1
}

func (e *Uint64Engine) exhausted(distinct int) bool {
	d := e.domainSize()
	return d != 0 && uint64(distinct) >= d
}

// draw returns one uniformly random value in [lower, upper].
func (e *Uint64Engine) draw() uint64 {
	if e.lower == 0 && e.upper == ^uint64(0) {
		return rng.Uint64(e.rng)
	}
	size := e.domainSize()
	limit := (^uint64(0) / size) * size
	for {
		v := rng.Uint64(e.rng)
		if v < limit {
			return e.lower + v%size
		}
	}
}

// SetUsed records n for the later bulk LEX assignment. Permitted only in
// INIT; duplicates are rejected silently.
func (e *Uint64Engine) SetUsed(n uint64) {
	e.ph.requireMarkable()
	e.marked.Add(n)
}

// Map looks up n's pseudonym, drawing and recording a fresh one on first
// sight. Permitted in INIT or NON_LEX.
func (e *Uint64Engine) Map(n uint64) uint64 {
	e.ph.enterNonLex()
	if m, ok := e.table.Get(n); ok {
		return m
	}
	if e.exhausted(e.table.Len()) {
		panic("anonymizer: Uint64Engine.Map: more distinct inputs than [lower, upper] can hold")
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
// lookup. n must have been previously marked with
// SetUsed.
func (e *Uint64Engine) MapLex(n uint64) uint64 {
	if e.ph.enterLex() {
		e.computeLexAssignment()
	}
	m, ok := e.lexTable[n]
	if !ok {
		panic("anonymizer: Uint64Engine.MapLex called on an input not marked with SetUsed")
	}
	return m
}

func (e *Uint64Engine) computeLexAssignment() {
	sorted := e.marked.Sorted()
	if d := e.domainSize(); d != 0 && uint64(len(sorted)) > d {
		panic("anonymizer: Uint64Engine: marked set exceeds [lower, upper]")
	}
	pseudos := make([]uint64, 0, len(sorted))
	seen := make(map[uint64]struct{}, len(sorted))
	for len(pseudos) < len(sorted) {
		m := e.draw()
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		pseudos = append(pseudos, m)
	}
	slices.Sort(pseudos)

	e.lexTable = make(map[uint64]uint64, len(sorted))
	for i, raw := range sorted {
		e.lexTable[raw] = pseudos[i]
	}
	e.marked = nil
}

// Close releases the engine's hash table and marked-set storage. Go's
// garbage collector would reclaim this memory on its own once the engine
// is unreachable; Close just drops the references eagerly, matching spec
// §6's delete operation. The engine must not be used afterward.
func (e *Uint64Engine) Close() {
	e.marked = nil
	e.table = nil
	e.used = nil
	e.lexTable = nil
}
