// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command netanon is the CLI driver for the anonymizer library (spec
// §6). It is a thin multiplexer: argument parsing, file framing and
// formatting live here; all anonymization logic lives in the library
// packages.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/netanon/anonymizer"
	"github.com/spf13/cobra"
)

// sharedFlags are the -p/-l flags common to every data-type subcommand
// (spec §6).
type sharedFlags struct {
	passphrase string
	lex        bool
}

func buildKey(f *sharedFlags) (*anonymizer.Key, error) {
	k := anonymizer.NewKey()
	if f.passphrase != "" {
		if err := k.SetPassphrase([]byte(f.passphrase)); err != nil {
			return nil, err
		}
		return k, nil
	}
	if err := k.SetRandom(); err != nil {
		return nil, err
	}
	return k, nil
}

// readLines reads whitespace-trimmed, non-empty lines from path.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := fmt.Fprintln(bw, l); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func main() {
	log.SetFlags(0)

	root := &cobra.Command{
		Use:           "netanon",
		Short:         "Deterministic, key-derived pseudonymization of network trace identifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	shared := &sharedFlags{}
	root.PersistentFlags().StringVarP(&shared.passphrase, "passphrase", "p", "", "use this passphrase as key material (otherwise random)")
	root.PersistentFlags().BoolVarP(&shared.lex, "lex", "l", false, "select the order-preserving (LEX) mode")

	root.AddCommand(
		newIPv4Command(shared),
		newIPv6Command(shared),
		newMACCommand(shared),
		newUint64Command(shared),
		newInt64Command(shared),
		newOctetsCommand(shared),
		newKeyCommand(shared),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "netanon: %v\n", err)
		os.Exit(1)
	}
}
