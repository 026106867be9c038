// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package anonymizer produces deterministic, key-derived pseudonyms for
// sensitive identifiers found in network traces: IPv4 and IPv6
// addresses, IEEE-802 MAC addresses, signed and unsigned 64-bit
// integers, and octet strings.
//
// Two families of mapping are offered per data type:
//
//   - structure-preserving: IPv4Engine, IPv6Engine and MACEngine preserve
//     the prefix relationships of the original address. Their *Lex
//     variants additionally preserve lexicographic order across the set
//     of inputs actually marked with SetUsed.
//   - pure pseudonymization: Uint64Engine, Int64Engine and OctetsEngine
//     draw uniform pseudonyms with no structural relationship to the
//     input, with the same *Lex order-preserving option.
//
// Every engine follows the same INIT -> NON_LEX | LEX state machine:
// SetUsed is only legal in INIT (the address engines also accept it as a
// no-op in NON_LEX; the others panic there); the first call to the non-lex Map (or
// MapPref) commits the engine to NON_LEX, and the first call to the lex
// MapLex (or MapPrefLex) commits it to LEX and performs the one-time
// bulk assignment over everything marked so far. Crossing between
// NON_LEX and LEX is a programmer error and panics.
//
// The mapping is one-way from the caller's perspective: only the holder
// of the same Key can reproduce it by re-running the library.
package anonymizer
