// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"net/netip"
	"os"

	"github.com/netanon/anonymizer"
	"github.com/spf13/cobra"
)

func newIPv4Command(shared *sharedFlags) *cobra.Command {
	var count bool
	cmd := &cobra.Command{
		Use:   "ipv4 FILE",
		Short: "Anonymize IPv4 addresses, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIPv4(shared, args[0], count)
		},
	}
	cmd.Flags().BoolVarP(&count, "count", "c", false, "print trie node count on stderr at end")
	return cmd
}

func newIPv6Command(shared *sharedFlags) *cobra.Command {
	var count bool
	cmd := &cobra.Command{
		Use:   "ipv6 FILE",
		Short: "Anonymize IPv6 addresses, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIPv6(shared, args[0], count)
		},
	}
	cmd.Flags().BoolVarP(&count, "count", "c", false, "print trie node count on stderr at end")
	return cmd
}

func runIPv4(shared *sharedFlags, path string, count bool) error {
	k, err := buildKey(shared)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	lines, err := readLines(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	addrs := make([]netip.Addr, len(lines))
	for i, l := range lines {
		a, err := netip.ParseAddr(l)
		if err != nil || !a.Is4() {
			return fmt.Errorf("%s: not an IPv4 address: %q", path, l)
		}
		addrs[i] = a
	}

	e := anonymizer.NewIPv4Engine()
	e.SetKey(k)

	out := make([]string, len(addrs))
	if shared.lex {
		for _, a := range addrs {
			e.SetUsed(a)
		}
		for i, a := range addrs {
			out[i] = e.MapPrefLex(a).String()
		}
	} else {
		for i, a := range addrs {
			out[i] = e.MapPref(a).String()
		}
	}

	if err := writeLines(os.Stdout, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if count {
		fmt.Fprintf(os.Stderr, "netanon: ipv4: %d trie nodes\n", e.NodesCount())
	}
	return nil
}

func runIPv6(shared *sharedFlags, path string, count bool) error {
	k, err := buildKey(shared)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	lines, err := readLines(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	addrs := make([]netip.Addr, len(lines))
	for i, l := range lines {
		a, err := netip.ParseAddr(l)
		if err != nil || !a.Is6() || a.Is4In6() {
			return fmt.Errorf("%s: not an IPv6 address: %q", path, l)
		}
		addrs[i] = a
	}

	e := anonymizer.NewIPv6Engine()
	e.SetKey(k)

	out := make([]string, len(addrs))
	if shared.lex {
		for _, a := range addrs {
			e.SetUsed(a)
		}
		for i, a := range addrs {
			out[i] = e.MapPrefLex(a).String()
		}
	} else {
		for i, a := range addrs {
			out[i] = e.MapPref(a).String()
		}
	}

	if err := writeLines(os.Stdout, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if count {
		fmt.Fprintf(os.Stderr, "netanon: ipv6: %d trie nodes\n", e.NodesCount())
	}
	return nil
}
