// label.go: The label subcommands.
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

var (
	labelStorePath   string
	labelPreset      string
	labelIndex       uint32
	labelTitle       string
	labelDescription string
	labelExposed     bool
	labelStart       uint32
	labelCount       int
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage non-secret labels for password indices",
	Long: `Label attaches a title, a description and an "exposed" flag to
password indices. Titles and flags are stored in plaintext; descriptions
are sealed with a key derived from the master credentials, which is why
every label operation prompts for them and pays the seed derivation
cost. No password, seed or master credential is ever written to the
store.`,
}

var labelSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the label for an index",
	RunE:  runLabelSet,
}

var labelGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the label for an index",
	RunE:  runLabelGet,
}

var labelLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List labels in index order",
	RunE:  runLabelLs,
}

var labelRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove the label for an index",
	RunE:  runLabelRm,
}

func init() {
	labelCmd.PersistentFlags().StringVar(&labelStorePath, "store", "mnemosyne-labels.db", "path to the label store")
	labelCmd.PersistentFlags().StringVarP(&labelPreset, "preset", "p", "slow", "KDF cost preset used when the seed was established")

	labelSetCmd.Flags().Uint32VarP(&labelIndex, "index", "i", 0, "password index")
	labelSetCmd.Flags().StringVar(&labelTitle, "title", "", "public title for the index")
	labelSetCmd.Flags().StringVar(&labelDescription, "description", "", "description, sealed at rest")
	labelSetCmd.Flags().BoolVar(&labelExposed, "exposed", false, "mark this password as possibly leaked")

	labelGetCmd.Flags().Uint32VarP(&labelIndex, "index", "i", 0, "password index")
	labelRmCmd.Flags().Uint32VarP(&labelIndex, "index", "i", 0, "password index")

	labelLsCmd.Flags().Uint32Var(&labelStart, "start", 0, "first index to list from")
	labelLsCmd.Flags().IntVar(&labelCount, "count", 20, "maximum number of labels to list")

	labelCmd.AddCommand(labelSetCmd, labelGetCmd, labelLsCmd, labelRmCmd)
}

// openLabelStore derives the seed and opens the store sealed under it.
func openLabelStore() (*derive.Session, *derive.Store, error) {
	session, err := newReadySession(labelPreset, false)
	if err != nil {
		return nil, nil, err
	}
	if err := session.OpenStore(labelStorePath); err != nil {
		_ = session.Close()
		return nil, nil, err
	}
	return session, session.Store(), nil
}

func runLabelSet(cmd *cobra.Command, args []string) error {
	session, store, err := openLabelStore()
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	return store.Put(labelIndex, derive.IndexLabel{
		Title:       labelTitle,
		Description: labelDescription,
		Exposed:     labelExposed,
	})
}

func runLabelGet(cmd *cobra.Command, args []string) error {
	session, store, err := openLabelStore()
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	label, err := store.Get(labelIndex)
	if err != nil {
		return err
	}
	if label == nil {
		return fmt.Errorf("no label for index %d", labelIndex)
	}

	printLabels(cmd, []derive.LabelEntry{{Index: labelIndex, Label: *label}})
	return nil
}

func runLabelLs(cmd *cobra.Command, args []string) error {
	session, store, err := openLabelStore()
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	entries, err := store.List(labelStart, labelCount)
	if err != nil {
		return err
	}
	printLabels(cmd, entries)
	return nil
}

func runLabelRm(cmd *cobra.Command, args []string) error {
	session, store, err := openLabelStore()
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	return store.Delete(labelIndex)
}

func printLabels(cmd *cobra.Command, entries []derive.LabelEntry) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tTITLE\tEXPOSED\tDESCRIPTION")
	for _, e := range entries {
		exposed := ""
		if e.Label.Exposed {
			exposed = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Index, e.Label.Title, exposed, e.Label.Description)
	}
	_ = w.Flush()
}
