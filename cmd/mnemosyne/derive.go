// derive.go: The derive subcommand.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"log/slog"
	"time"

	derive "github.com/agilira/mnemosyne"
	"github.com/spf13/cobra"
)

var (
	deriveIndex   uint32
	derivePreset  string
	deriveConfirm bool
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive the password at an index",
	Long: `Derive prompts for the master credentials, runs the memory-hard seed
derivation and prints the 128-character password for the given index to
stdout.

The seed derivation is deliberately slow and memory-heavy (seconds to
minutes depending on the preset); that cost is the brute-force
deterrent for the whole scheme. Pass --confirm on first use to type the
password twice.`,
	RunE: runDerive,
}

func init() {
	deriveCmd.Flags().Uint32VarP(&deriveIndex, "index", "i", 0, "password index to derive (0 to 4294967295)")
	deriveCmd.Flags().StringVarP(&derivePreset, "preset", "p", "slow", "KDF cost preset: fast, normal, slow, very_slow")
	deriveCmd.Flags().BoolVar(&deriveConfirm, "confirm", false, "prompt for the password twice")
}

// newReadySession prompts for credentials and blocks until the seed is
// established. Shared by derive and the label subcommands.
func newReadySession(presetName string, confirm bool) (*derive.Session, error) {
	preset, ok := derive.LookupPreset(presetName)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (expected fast, normal, slow or very_slow)", presetName)
	}

	username, password, confirmPw, err := promptCredentials(confirm)
	if err != nil {
		return nil, err
	}
	defer username.Erase()
	defer password.Erase()
	defer confirmPw.Erase()

	slog.Info("deriving seed",
		"preset", preset.Name,
		"memory_gb", fmt.Sprintf("%.1f", preset.Params.MemoryGB()),
		"estimated", preset.EstimatedLatency,
	)

	session := derive.NewSession()
	start := time.Now()

	done, err := session.StartDerivation(username, password, confirmPw, preset.Params)
	if err != nil {
		_ = session.Close()
		return nil, err
	}
	if err := <-done; err != nil {
		_ = session.Close()
		return nil, err
	}

	slog.Info("seed established", "session", session.ID(), "took", time.Since(start).Round(time.Millisecond))
	return session, nil
}

func runDerive(cmd *cobra.Command, args []string) error {
	session, err := newReadySession(derivePreset, deriveConfirm)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	password, err := session.DeriveAt(deriveIndex)
	if err != nil {
		return err
	}

	// The password is the only thing on stdout, so output can be piped.
	fmt.Fprintln(cmd.OutOrStdout(), password)
	return nil
}
