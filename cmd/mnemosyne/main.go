// main.go: mnemosyne command-line driver.
//
// The derivation core is a library; this binary is the thin surrounding
// application - prompting for credentials, printing derived passwords,
// managing non-secret labels and hosting the interactive UI.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mnemosyne",
	Short: "Deterministic password derivation from a master credential pair",
	Long: `mnemosyne derives an unbounded set of high-entropy, reproducible
passwords from a single master username/password pair. Nothing secret is
ever written to disk: the same credentials always regenerate the same
passwords, and a forgotten master credential is permanently
unrecoverable by design.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(uiCmd)
}
