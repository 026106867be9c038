// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"net"
	"os"

	"github.com/netanon/anonymizer"
	"github.com/spf13/cobra"
)

func newMACCommand(shared *sharedFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mac FILE",
		Short: "Anonymize IEEE-802 MAC addresses, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMAC(shared, args[0])
		},
	}
	return cmd
}

func runMAC(shared *sharedFlags, path string) error {
	k, err := buildKey(shared)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	lines, err := readLines(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	addrs := make([]net.HardwareAddr, len(lines))
	for i, l := range lines {
		a, err := net.ParseMAC(l)
		if err != nil || len(a) != 6 {
			return fmt.Errorf("%s: not a 6-byte MAC address: %q", path, l)
		}
		addrs[i] = a
	}

	e := anonymizer.NewMACEngine()
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
	return nil
}
