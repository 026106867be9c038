// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package anonymizer

import (
	"net"

	"github.com/netanon/anonymizer/internal/bitops"
	"github.com/netanon/anonymizer/internal/prf"
	"github.com/netanon/anonymizer/internal/trie"
)

// macWidth is the width of the anonymized portion of a MAC address: 48
// bits minus the two preserved I/G and U/L bits (spec §4.3).
const macWidth = 46

// MACEngine anonymizes IEEE-802 (EUI-48) MAC addresses while preserving
// the Individual/Group and Universal/Local bits — the two least-
// significant bits of the first octet (bitops.Bit indices 7 and 6,
// see igBitIndex/ulBitIndex). The remaining 46 bits are packed into one
// contiguous value (pack46) and prefix-preserving-mapped scoped to each
// of the four combinations of the two preserved bits, so that, e.g., a
// multicast address never collides in the trie with a unicast one
// (spec §4.3).
type MACEngine struct {
	ph   phase
	pad  [16]byte
	keys [4]*prf.PRF

	tries    [4]*trie.Engine
	marked   [4][][]byte
	lexTable [4]map[string][]byte
}

// NewMACEngine returns an empty engine; call SetKey before mapping.
func NewMACEngine() *MACEngine {
	return &MACEngine{}
}

// SetKey attaches the PRF key and pad. Permitted only in INIT.
func (e *MACEngine) SetKey(k *Key) {
	if e.ph != phaseInit {
		panic("anonymizer: MACEngine.SetKey called outside INIT")
	}
	secret, pad := k.Bytes()
	e.pad = pad
	for scope := range e.keys {
		var aesKey [16]byte
		copy(aesKey[:], secret[:16])
		// Domain-separate the AES key per scope so the four (I/G, U/L)
		// partitions never share a PRF output stream; the pad is shared.
		aesKey[15] ^= byte(scope)
		e.keys[scope] = prf.New(aesKey)
	}
}

func (e *MACEngine) bitFunc(scope int) trie.BitFunc {
	return func(addr []byte, d int) uint8 {
		var block [16]byte
		bitops.FillPrefixBlock(&block, addr, e.pad, d)
		return e.keys[scope].HighBit(block)
	}
}

func (e *MACEngine) trieFor(scope int) *trie.Engine {
	if e.tries[scope] == nil {
		e.tries[scope] = trie.NewEngine(macWidth, e.bitFunc(scope))
	}
	return e.tries[scope]
}

func (e *MACEngine) requireKeyed() {
	if e.keys[0] == nil {
		panic("anonymizer: MACEngine used before SetKey")
	}
}

func scopeOf(b []byte) int {
	ig := int(b[0] & 0x01)
	ul := int((b[0] >> 1) & 0x01)
	return ig | ul<<1
}

func checkMAC(b []byte) {
	if len(b) != 6 {
		panic("anonymizer: MACEngine: not a 6-byte EUI-48 address")
	}
}

// igBitIndex and ulBitIndex are the bitops.Bit (MSB-first) positions of the
// I/G and U/L bits: scopeOf reads them as b[0]&0x01 and (b[0]>>1)&0x01, the
// two least-significant bits of the first octet, which are bitops.Bit
// indices 7 and 6 respectively, not the tail of the 48-bit address.
const (
	igBitIndex = 7
	ulBitIndex = 6
)

// pack46 copies the 46 non-scope bits of a 6-byte MAC address (every bit
// except igBitIndex and ulBitIndex) into a fresh 6-byte buffer at
// positions 0..45, in original order, so the trie can walk them as one
// contiguous width-46 value.
func pack46(addr []byte) []byte {
	out := make([]byte, 6)
	p := 0
	for d := 0; d < 48; d++ {
		if d == igBitIndex || d == ulBitIndex {
			continue
		}
		bitops.SetBit(out, p, bitops.Bit(addr, d))
		p++
	}
	return out
}

// unpack46 scatters a width-46 trie result back into a 6-byte MAC address,
// copying orig's I/G and U/L bits through unchanged.
func unpack46(orig net.HardwareAddr, packed []byte) net.HardwareAddr {
	out := make(net.HardwareAddr, 6)
	copy(out, orig)
	p := 0
	for d := 0; d < 48; d++ {
		if d == igBitIndex || d == ulBitIndex {
			continue
		}
		bitops.SetBit(out, d, bitops.Bit(packed, p))
		p++
	}
	return out
}

// SetUsed records addr for the later bulk LEX assignment. Permitted only
// in INIT; a no-op (but still legal) once the engine is in NON_LEX.
func (e *MACEngine) SetUsed(addr net.HardwareAddr) {
	if e.ph == phaseNonLex {
		return
	}
	e.ph.requireMarkable()
	checkMAC(addr)
	scope := scopeOf(addr)
	e.marked[scope] = append(e.marked[scope], pack46(addr))
}

// MapPref computes the prefix-preserving pseudonym of addr, leaving the
// I/G and U/L bits untouched.
func (e *MACEngine) MapPref(addr net.HardwareAddr) net.HardwareAddr {
	e.requireKeyed()
	e.ph.enterNonLex()
	checkMAC(addr)
	scope := scopeOf(addr)
	out := e.trieFor(scope).MapPref(pack46(addr))
	return unpack46(addr, out)
}

// MapPrefLex computes the prefix-preserving, lex-order-preserving
// pseudonym of addr within its (I/G, U/L) scope. addr must have been
// previously marked with SetUsed.
func (e *MACEngine) MapPrefLex(addr net.HardwareAddr) net.HardwareAddr {
	e.requireKeyed()
	checkMAC(addr)
	scope := scopeOf(addr)
	if e.ph.enterLex() {
		for s := range e.lexTable {
			e.lexTable[s] = trie.ComputeLexAssignment(macWidth, e.bitFunc(s), e.marked[s])
			e.marked[s] = nil
		}
	}
	out, ok := e.lexTable[scope][string(pack46(addr))]
	if !ok {
		panic("anonymizer: MACEngine.MapPrefLex called on an address not marked with SetUsed")
	}
	return unpack46(addr, out)
}

// NodesCount reports the total number of trie nodes allocated across all
// four (I/G, U/L) scopes.
func (e *MACEngine) NodesCount() int {
	e.requireKeyed()
	n := 0
	for _, t := range e.tries {
		if t != nil {
			n += t.NodesCount()
		}
	}
	return n
}

// Close releases the engine's per-scope tries and marked-set storage.
// Go's garbage collector would reclaim this memory on its own once the
// engine is unreachable; Close just drops the references eagerly,
// matching spec §6's delete operation. The engine must not be used
// afterward.
func (e *MACEngine) Close() {
	e.keys = [4]*prf.PRF{}
	e.tries = [4]*trie.Engine{}
	e.marked = [4][][]byte{}
	e.lexTable = [4]map[string][]byte{}
}
