// presets.go: The presets subcommand.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	derive "github.com/agilira/mnemosyne"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Show the KDF cost presets",
	Long: `Presets lists the named Argon2id cost configurations. Higher cost
means slower derivation for you and for anyone trying to brute-force
your master password.`,
	Run: runPresets,
}

func runPresets(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMEMORY\tTIME COST\tPARALLELISM\tEST. LATENCY")
	for _, p := range derive.Presets() {
		fmt.Fprintf(w, "%s\t%.2f GB\t%d\t%d\t~%s\n",
			p.Name, p.Params.MemoryGB(), p.Params.Time, p.Params.Threads, p.EstimatedLatency)
	}
	_ = w.Flush()
}
