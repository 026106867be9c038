// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/netanon/anonymizer"
	"github.com/spf13/cobra"
)

func newKeyCommand(shared *sharedFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print hex-encoded key material (for diagnostics; not persisted by the library)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := buildKey(shared)
			if err != nil {
				return err
			}
			secret, pad := k.Bytes()
			fmt.Printf("K:   %s\n", hex.EncodeToString(secret[:]))
			fmt.Printf("pad: %s\n", hex.EncodeToString(pad[:]))
			return nil
		},
	}
	return cmd
}
