// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package trie implements the lazily-grown binary prefix trie at the
// heart of the prefix-preserving address anonymizers (spec §4.2). Nodes
// live in an arena addressed by uint32 index rather than behind raw
// pointers, per the design note in spec §9: "manual memory & raw pointer
// webs -> ownership + indices". Index 0 is the sentinel "no such node",
// mirroring the way bartNode's sparse.Array256 entries are either present
// or absent, but at bit (not byte-stride) granularity.
package trie

import "github.com/netanon/anonymizer/internal/bitops"

// BitFunc computes the anonymization bit f_d for the d-bit prefix made of
// the high d bits of addr (spec §4.2 step 1-2). Implementations close
// over the engine's PRF and pad block.
type BitFunc func(addr []byte, d int) uint8

// Ref is an arena node index; Nil is the "absent child" sentinel.
type Ref = uint32

// Nil is the sentinel value for "no child".
const Nil Ref = 0

type node struct {
	bit      uint8
	have     bool
	children [2]Ref
}

// Arena owns the node storage for one prefix trie. The zero Arena is not
// usable (it has no root); build one with NewArena, which allocates it.
type Arena struct {
	nodes []node
}

// NewArena returns an arena with just the root node allocated.
func NewArena() *Arena {
	a := &Arena{nodes: make([]node, 2, 64)}
	return a
}

// Root returns the arena's root reference.
func (a *Arena) Root() Ref { return 1 }

// Len returns the number of allocated nodes, including the root
// (spec §8 "node laziness": at most W+1 after mapping one address).
func (a *Arena) Len() int { return len(a.nodes) - 1 }

// child returns the existing child of n in direction bit, or Nil.
func (a *Arena) child(n Ref, bit uint8) Ref {
	return a.nodes[n].children[bit]
}

// ensureChild returns the child of n in direction bit, allocating it if
// this is the first visit down that branch.
func (a *Arena) ensureChild(n Ref, bit uint8) Ref {
	c := a.nodes[n].children[bit]
	if c != Nil {
		return c
	}
	a.nodes = append(a.nodes, node{})
	c = Ref(len(a.nodes) - 1)
	a.nodes[n].children[bit] = c
	return c
}

// Engine is a single prefix-preserving trie over width-bit addresses.
type Engine struct {
	width int
	arena *Arena
	bit   BitFunc
}

// NewEngine builds an engine over addresses of the given bit width, using
// bitFunc to compute each node's anonymization bit the first time it is
// visited.
func NewEngine(width int, bitFunc BitFunc) *Engine {
	return &Engine{width: width, arena: NewArena(), bit: bitFunc}
}

// NodesCount reports the number of trie nodes allocated so far.
func (e *Engine) NodesCount() int { return e.arena.Len() }

// MapPref computes the prefix-preserving anonymization of addr (spec
// §4.2 algorithm): for each bit position, the cached or freshly-computed
// f_d is XORed onto the input bit, and the walk descends by the input
// bit's actual value so that any two addresses sharing a k-bit prefix
// necessarily share the same f_0..f_{k-1} and thus the same output
// prefix.
func (e *Engine) MapPref(addr []byte) []byte {
	out := make([]byte, len(addr))
	n := e.arena.Root()
	for d := 0; d < e.width; d++ {
		nd := &e.arena.nodes[n]
		var f uint8
		if nd.have {
			f = nd.bit
		} else {
			f = e.bit(addr, d)
			nd.bit = f
			nd.have = true
		}
		in := bitops.Bit(addr, d)
		bitops.SetBit(out, d, in^f)
		n = e.arena.ensureChild(n, in)
	}
	return out
}
