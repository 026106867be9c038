// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package anonymizer

import (
	"net/netip"

	"github.com/netanon/anonymizer/internal/bitops"
	"github.com/netanon/anonymizer/internal/prf"
	"github.com/netanon/anonymizer/internal/trie"
)

const ipv4Width = 32

// IPv4Engine is the prefix-preserving (and optionally lex-order-
// preserving) anonymizer for IPv4 addresses, spec §4.2.
type IPv4Engine struct {
	ph       phase
	key      *prf.PRF
	pad      [16]byte
	trie     *trie.Engine
	marked   [][]byte
	lexTable map[string][]byte
}

// NewIPv4Engine returns an empty engine; call SetKey before mapping.
func NewIPv4Engine() *IPv4Engine {
	return &IPv4Engine{}
}

// SetKey attaches the PRF key and pad. Permitted only in INIT.
func (e *IPv4Engine) SetKey(k *Key) {
	if e.ph != phaseInit {
		panic("anonymizer: IPv4Engine.SetKey called outside INIT")
	}
	secret, pad := k.Bytes()
	var aesKey [16]byte
	copy(aesKey[:], secret[:16])
	e.key = prf.New(aesKey)
	e.pad = pad
	e.trie = trie.NewEngine(ipv4Width, e.bit)
}

func (e *IPv4Engine) bit(addr []byte, d int) uint8 {
	var block [16]byte
	bitops.FillPrefixBlock(&block, addr, e.pad, d)
	return e.key.HighBit(block)
}

func (e *IPv4Engine) requireKeyed() {
	if e.trie == nil {
		panic("anonymizer: IPv4Engine used before SetKey")
	}
}

// SetUsed records addr for the later bulk LEX assignment. Permitted only
// in INIT; a no-op (but still legal) once the engine is in NON_LEX.
func (e *IPv4Engine) SetUsed(addr netip.Addr) {
	if e.ph == phaseNonLex {
		return
	}
	e.ph.requireMarkable()
	if !addr.Is4() {
		panic("anonymizer: IPv4Engine.SetUsed: not an IPv4 address")
	}
	b := addr.As4()
	e.marked = append(e.marked, append([]byte(nil), b[:]...))
}

// MapPref computes the prefix-preserving pseudonym of addr.
func (e *IPv4Engine) MapPref(addr netip.Addr) netip.Addr {
	e.requireKeyed()
	e.ph.enterNonLex()
	if !addr.Is4() {
		panic("anonymizer: IPv4Engine.MapPref: not an IPv4 address")
	}
	b := addr.As4()
	out := e.trie.MapPref(b[:])
	var o [4]byte
	copy(o[:], out)
	return netip.AddrFrom4(o)
}

// MapPrefLex computes the prefix-preserving, lex-order-preserving
// pseudonym of addr. addr must have been previously marked with SetUsed.
func (e *IPv4Engine) MapPrefLex(addr netip.Addr) netip.Addr {
	e.requireKeyed()
	if e.ph.enterLex() {
		e.lexTable = trie.ComputeLexAssignment(ipv4Width, e.bit, e.marked)
		e.marked = nil
	}
	if !addr.Is4() {
		panic("anonymizer: IPv4Engine.MapPrefLex: not an IPv4 address")
	}
	b := addr.As4()
	out, ok := e.lexTable[string(b[:])]
	if !ok {
		panic("anonymizer: IPv4Engine.MapPrefLex called on an address not marked with SetUsed")
	}
	var o [4]byte
	copy(o[:], out)
	return netip.AddrFrom4(o)
}

// NodesCount reports the number of trie nodes allocated so far.
func (e *IPv4Engine) NodesCount() int {
	e.requireKeyed()
	return e.trie.NodesCount()
}

// Close releases the engine's trie and marked-set storage. Go's garbage
// collector would reclaim this memory on its own once the engine is
// unreachable; Close just drops the references eagerly, matching spec
// §6's delete operation. The engine must not be used afterward.
func (e *IPv4Engine) Close() {
	e.key = nil
	e.trie = nil
	e.marked = nil
	e.lexTable = nil
}
