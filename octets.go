// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package anonymizer

import (
	"crypto/rand"
	"io"
	"sort"

	"github.com/netanon/anonymizer/internal/ordered"
	"github.com/netanon/anonymizer/internal/rng"
)

const (
	classLower = iota
	classUpper
	classDigit
	classOther
)

var (
	lowerAlphabet = []byte("abcdefghijklmnopqrstuvwxyz")
	upperAlphabet = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	digitAlphabet = []byte("0123456789")
)

func classOf(c byte) int {
	switch {
	case c >= 'a' && c <= 'z':
		return classLower
	case c >= 'A' && c <= 'Z':
		return classUpper
	case c >= '0' && c <= '9':
		return classDigit
	default:
		return classOther
	}
}

func alphabetFor(cls int) []byte {
	switch cls {
	case classLower:
		return lowerAlphabet
	case classUpper:
		return upperAlphabet
	case classDigit:
		return digitAlphabet
	default:
		return nil
	}
}

// posClassMap tracks, for one string position, the per-class bijection
// built up lazily as new characters are seen at that position (spec
// §4.5: "within-class mapping is random/consistent").
type posClassMap struct {
	assigned [3]map[byte]byte
	used     [3]map[byte]bool
}

func newPosClassMap() *posClassMap {
	pm := &posClassMap{}
	for i := range pm.assigned {
		pm.assigned[i] = make(map[byte]byte)
		pm.used[i] = make(map[byte]bool)
	}
	return pm
}

// OctetsEngine produces same-length, same-character-class pseudonyms for
// octet strings (spec §4.5).
type OctetsEngine struct {
	ph  phase
	rng io.Reader

	positions []*posClassMap

	marked   *ordered.Set[string]
	lexTable map[string]string
}

// NewOctetsEngine returns an empty engine, ready to map immediately (no
// key is required for this engine, per spec §9's resolution of the
// uint64-engine keying open question: only the PRF-driven address
// engines need reproducibility under a Key).
func NewOctetsEngine() *OctetsEngine {
	return &OctetsEngine{
		rng:    rand.Reader,
		marked: ordered.New[string](),
	}
}

// SetRandSource overrides the randomness source, for reproducible tests.
func (e *OctetsEngine) SetRandSource(r io.Reader) { e.rng = r }

func (e *OctetsEngine) ensurePosition(pos int) *posClassMap {
	for len(e.positions) <= pos {
		e.positions = append(e.positions, newPosClassMap())
	}
	return e.positions[pos]
}

func (e *OctetsEngine) mapByteAt(pos int, c byte) byte {
	cls := classOf(c)
	if cls == classOther {
		return c
	}
	pm := e.ensurePosition(pos)
	if out, ok := pm.assigned[cls][c]; ok {
		return out
	}
	alphabet := alphabetFor(cls)
	for {
		cand := alphabet[rng.Intn(e.rng, len(alphabet))]
		if !pm.used[cls][cand] {
			pm.used[cls][cand] = true
			pm.assigned[cls][c] = cand
			return cand
		}
	}
}

// SetUsed records s for the later bulk LEX assignment. Permitted only in
// INIT; duplicates are rejected silently.
func (e *OctetsEngine) SetUsed(s string) {
	e.ph.requireMarkable()
	e.marked.Add(s)
}

// Map returns s's pseudonym: same length, same per-position character
// class, non-classified bytes passed through unchanged.
func (e *OctetsEngine) Map(s string) string {
	e.ph.enterNonLex()
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = e.mapByteAt(i, s[i])
	}
	return string(out)
}

// MapLex computes the bulk lex assignment on first call, then answers by
// lookup. s must have been previously marked with SetUsed.
func (e *OctetsEngine) MapLex(s string) string {
	if e.ph.enterLex() {
		e.computeLexAssignment()
	}
	out, ok := e.lexTable[s]
	if !ok {
		panic("anonymizer: OctetsEngine.MapLex called on a string not marked with SetUsed")
	}
	return out
}

// computeLexAssignment implements spec §4.5's LEX strategy: "sort the
// marked set, generate |marked| random strings of the required
// per-position classes, sort them, pair positionally." This requires one
// shared per-position class (and, for non-classified positions, one
// shared literal byte) across the whole marked set — the scenario spec
// §8 exercises — so that sorting generated candidates independently of
// their eventual owner still respects every string's class profile.
// Marked sets that mix lengths or per-position classes are rejected; the
// spec does not define cross-profile order preservation.
func (e *OctetsEngine) computeLexAssignment() {
	sorted := e.marked.Sorted()
	e.lexTable = make(map[string]string, len(sorted))
	if len(sorted) == 0 {
		e.marked = nil
		return
	}

	length := len(sorted[0])
	profile := make([]int, length)
	other := make([]byte, length)
	for i := 0; i < length; i++ {
		profile[i] = classOf(sorted[0][i])
		if profile[i] == classOther {
			other[i] = sorted[0][i]
		}
	}
	for _, s := range sorted {
		if len(s) != length {
			panic("anonymizer: OctetsEngine.MapLex: marked strings must share one length")
		}
		for i := 0; i < length; i++ {
			if classOf(s[i]) != profile[i] {
				panic("anonymizer: OctetsEngine.MapLex: marked strings must share one per-position character class")
			}
			if profile[i] == classOther && s[i] != other[i] {
				panic("anonymizer: OctetsEngine.MapLex: non-classified bytes must match across the marked set")
			}
		}
	}

	candidates := make([]string, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for len(candidates) < len(sorted) {
		cand := e.randomCandidate(profile, other)
		if _, dup := seen[cand]; dup {
			continue
		}
		seen[cand] = struct{}{}
		candidates = append(candidates, cand)
	}
	sort.Strings(candidates)

	for i, raw := range sorted {
		e.lexTable[raw] = candidates[i]
	}
	e.marked = nil
}

// Close releases the engine's per-position class maps and marked-set
// storage. Go's garbage collector would reclaim this memory on its own
// once the engine is unreachable; Close just drops the references
// eagerly, matching spec §6's delete operation. The engine must not be
// used afterward.
func (e *OctetsEngine) Close() {
	e.positions = nil
	e.marked = nil
	e.lexTable = nil
}

func (e *OctetsEngine) randomCandidate(profile []int, other []byte) string {
	buf := make([]byte, len(profile))
	for i, cls := range profile {
		if cls == classOther {
			buf[i] = other[i]
			continue
		}
		alphabet := alphabetFor(cls)
		buf[i] = alphabet[rng.Intn(e.rng, len(alphabet))]
	}
	return string(buf)
}
