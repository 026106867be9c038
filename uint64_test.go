// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package anonymizer

import "testing"

func TestUint64MapWithinRange(t *testing.T) {
	e := NewUint64Engine(1000, 2000)
	e.SetRandSource(newSeededReader(1))

	for _, n := range []uint64{1000, 1500, 2000} {
		m := e.Map(n)
		if m < 1000 || m > 2000 {
			t.Fatalf("Map(%d) = %d, out of [1000,2000]", n, m)
		}
	}
}

func TestUint64MapIsStablePerInput(t *testing.T) {
	e := NewUint64Engine(0, 1_000_000)
	e.SetRandSource(newSeededReader(42))

	first := e.Map(7)
	second := e.Map(7)
	if first != second {
		t.Fatalf("Map(7) returned %d then %d, want the same pseudonym both times", first, second)
	}
}

func TestUint64MapInjective(t *testing.T) {
	e := NewUint64Engine(0, 1_000_000)
	e.SetRandSource(newSeededReader(7))

	seen := make(map[uint64]uint64)
	for n := uint64(0); n < 50; n++ {
		m := e.Map(n)
		if prev, ok := seen[m]; ok {
			t.Fatalf("inputs %d and %d both map to %d", prev, n, m)
		}
		seen[m] = n
	}
}

func TestUint64NewPanicsOnInvalidRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewUint64Engine(upper < lower) should panic")
		}
	}()
	NewUint64Engine(10, 5)
}

func TestUint64MapExhaustionPanics(t *testing.T) {
	e := NewUint64Engine(1, 2)
	e.SetRandSource(newSeededReader(3))

	e.Map(1)
	e.Map(2)

	defer func() {
		if recover() == nil {
			t.Fatal("a third distinct input over a 2-value domain should panic")
		}
	}()
	e.Map(3)
}

func TestUint64MapLexMonotonic(t *testing.T) {
	e := NewUint64Engine(0, 1_000_000)
	e.SetRandSource(newSeededReader(99))

	ins := []uint64{50, 10, 30}
	for _, n := range ins {
		e.SetUsed(n)
	}

	m10 := e.MapLex(10)
	m30 := e.MapLex(30)
	m50 := e.MapLex(50)

	if !(m10 < m30 && m30 < m50) {
		t.Fatalf("lex order not preserved: MapLex(10)=%d MapLex(30)=%d MapLex(50)=%d", m10, m30, m50)
	}
}

func TestUint64MapLexUnmarkedPanics(t *testing.T) {
	e := NewUint64Engine(0, 100)
	e.SetRandSource(newSeededReader(1))
	e.SetUsed(5)

	defer func() {
		if recover() == nil {
			t.Fatal("MapLex on an unmarked input should panic")
		}
	}()
	e.MapLex(5)
	e.MapLex(6)
}

func TestUint64Close(t *testing.T) {
	e := NewUint64Engine(0, 100)
	e.SetRandSource(newSeededReader(1))
	e.Map(1)
	e.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("using a closed Uint64Engine should panic")
		}
	}()
	e.Map(2)
}

func TestUint64SetUsedAfterMapPanics(t *testing.T) {
	e := NewUint64Engine(0, 100)
	e.SetRandSource(newSeededReader(1))
	e.Map(1)

	defer func() {
		if recover() == nil {
			t.Fatal("SetUsed after entering NON_LEX should panic")
		}
	}()
	e.SetUsed(2)
}
