// ui.go: The ui subcommand.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var uiStorePath string

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive terminal interface",
	Long: `Launch the interactive terminal interface: pick a KDF preset, enter
the master credentials, wait for the seed derivation and then browse
password indices, reveal passwords and manage labels.

Navigation:
  up/down    move the selection
  left/right previous/next page
  enter      reveal the password at the selected index
  esc        hide the revealed password
  e          toggle the "exposed" flag on the selected index
  q          quit (the seed is erased on exit)`,
	RunE: runUI,
}

func init() {
	uiCmd.Flags().StringVar(&uiStorePath, "store", "mnemosyne-labels.db", "path to the label store (empty to disable)")
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func runUI(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return fmt.Errorf("not running in an interactive terminal")
	}

	m := newUIModel(uiStorePath)
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if fm, ok := final.(*uiModel); ok {
		// Teardown guarantee: the seed never outlives the UI.
		_ = fm.session.Close()
	}
	return err
}
