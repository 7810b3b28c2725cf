package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/uisync/internal/tui"
)

var tuiOpts struct {
	noWatch bool
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive key browser",
	Long: `Launch the interactive terminal browser for snapshot values.

The TUI provides:
  - Scrollable list of keys and values
  - Search and filter expressions (item=Inv,num>0)
  - Detail view with list values split out
  - Copy to clipboard support
  - Live refresh while a serve session writes the snapshot

Key bindings:
  j/k, ↑/↓    Navigate list
  enter       View value details
  c           Copy value to clipboard
  s           Copy key to clipboard
  C / alt+c   Copy listed values as JSON / YAML
  /           Search
  a           Show or hide System keys
  r           Reload the snapshot
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().BoolVar(&tuiOpts.noWatch, "no-watch", false,
		"Do not refresh when the snapshot changes")
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.RunOptions{
		Config:       cfg,
		SnapshotPath: snapshotPath(),
		Watch:        !tuiOpts.noWatch,
		Logger:       logger,
	})
}
