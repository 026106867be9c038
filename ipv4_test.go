// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package anonymizer

import (
	"net/netip"
	"testing"
)

func keyedIPv4Engine(t *testing.T, passphrase string) *IPv4Engine {
	t.Helper()
	k := NewKey()
	if err := k.SetPassphrase([]byte(passphrase)); err != nil {
		t.Fatalf("SetPassphrase: %v", err)
	}
	e := NewIPv4Engine()
	e.SetKey(k)
	return e
}

func TestIPv4Determinism(t *testing.T) {
	e1 := keyedIPv4Engine(t, "shared secret")
	e2 := keyedIPv4Engine(t, "shared secret")

	addr := netip.MustParseAddr("10.1.2.3")
	a := e1.MapPref(addr)
	b := e2.MapPref(addr)
	if a != b {
		t.Fatalf("same key should map %v identically across engines, got %v and %v", addr, a, b)
	}
}

func TestIPv4PrefixPreservation(t *testing.T) {
	e := keyedIPv4Engine(t, "prefix test key")

	x := netip.MustParseAddr("10.0.0.1")
	y := netip.MustParseAddr("10.0.0.2")
	z := netip.MustParseAddr("172.16.5.9")

	ax := e.MapPref(x)
	ay := e.MapPref(y)
	az := e.MapPref(z)

	xb, yb, zb := x.As4(), y.As4(), z.As4()
	axb, ayb, azb := ax.As4(), ay.As4(), az.As4()

	wantXY := commonPrefixBits(xb[:], yb[:])
	if got := commonPrefixBits(axb[:], ayb[:]); got < wantXY {
		t.Fatalf("outputs for %v,%v share only %d bits, want at least %d", x, y, got, wantXY)
	}
	wantXZ := commonPrefixBits(xb[:], zb[:])
	if got := commonPrefixBits(axb[:], azb[:]); got < wantXZ {
		t.Fatalf("outputs for %v,%v share only %d bits, want at least %d", x, z, got, wantXZ)
	}
}

func TestIPv4NodeLaziness(t *testing.T) {
	e := keyedIPv4Engine(t, "laziness")
	e.MapPref(netip.MustParseAddr("1.2.3.4"))
	if got, want := e.NodesCount(), 33; got != want {
		t.Fatalf("NodesCount() = %d, want %d", got, want)
	}
}

func TestIPv4MapPrefPanicsBeforeKey(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MapPref before SetKey should panic")
		}
	}()
	NewIPv4Engine().MapPref(netip.MustParseAddr("1.2.3.4"))
}

func TestIPv4SetKeyOutsideInitPanics(t *testing.T) {
	e := keyedIPv4Engine(t, "one")
	e.MapPref(netip.MustParseAddr("1.2.3.4"))

	k := NewKey()
	_ = k.SetPassphrase([]byte("two"))

	defer func() {
		if recover() == nil {
			t.Fatal("SetKey after leaving INIT should panic")
		}
	}()
	e.SetKey(k)
}

func TestIPv4LexMonotonic(t *testing.T) {
	e := keyedIPv4Engine(t, "lex key")
	addrs := []netip.Addr{
		netip.MustParseAddr("1.2.3.4"),
		netip.MustParseAddr("1.2.3.5"),
		netip.MustParseAddr("5.6.7.8"),
	}
	for _, a := range addrs {
		e.SetUsed(a)
	}

	out := make([]netip.Addr, len(addrs))
	for i, a := range addrs {
		out[i] = e.MapPrefLex(a)
	}

	ab0, ab1 := out[0].As4(), out[1].As4()
	ab2 := out[2].As4()
	if cmp4(ab0, ab1) >= 0 {
		t.Fatalf("addrs[0] < addrs[1] but outputs %v >= %v", out[0], out[1])
	}
	if cmp4(ab1, ab2) >= 0 {
		t.Fatalf("addrs[1] < addrs[2] but outputs %v >= %v", out[1], out[2])
	}
}

func cmp4(a, b [4]byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func TestIPv4Close(t *testing.T) {
	e := keyedIPv4Engine(t, "close key")
	e.MapPref(netip.MustParseAddr("1.2.3.4"))
	e.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("using a closed IPv4Engine should panic")
		}
	}()
	e.MapPref(netip.MustParseAddr("1.2.3.4"))
}

func TestIPv4MapPrefLexUnmarkedPanics(t *testing.T) {
	e := keyedIPv4Engine(t, "lex key")
	e.SetUsed(netip.MustParseAddr("1.2.3.4"))

	defer func() {
		if recover() == nil {
			t.Fatal("MapPrefLex on an unmarked address should panic")
		}
	}()
	e.MapPrefLex(netip.MustParseAddr("1.2.3.4"))
	e.MapPrefLex(netip.MustParseAddr("9.9.9.9"))
}
