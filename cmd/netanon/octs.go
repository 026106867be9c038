// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/netanon/anonymizer"
	"github.com/spf13/cobra"
)

func newOctetsCommand(shared *sharedFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "octs FILE",
		Short: "Anonymize arbitrary octet strings, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOctets(shared, args[0])
		},
	}
	return cmd
}

func runOctets(shared *sharedFlags, path string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}

	e := anonymizer.NewOctetsEngine()

	out := make([]string, len(lines))
	if shared.lex {
		for _, s := range lines {
			e.SetUsed(s)
		}
		for i, s := range lines {
			out[i] = e.MapLex(s)
		}
	} else {
		for i, s := range lines {
			out[i] = e.Map(s)
		}
	}

	return writeLines(os.Stdout, out)
}
