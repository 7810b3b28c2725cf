package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/uisync/internal/adapter/input"
	"github.com/jmylchreest/uisync/internal/engine"
	"github.com/jmylchreest/uisync/internal/store"
)

var setOpts struct {
	stdin bool
	file  string
}

var setCmd = &cobra.Command{
	Use:   "set [KEY VALUE]",
	Short: "Update values in the snapshot",
	Long: `Update values in the snapshot. A running serve session restores the
snapshot at startup, so changes apply to the next session.

Values can be given as a KEY VALUE pair or read from stdin (--stdin) or a
file (--file), either as KEY=VALUE lines or as the JSON printed by
'uisync values --format json' or '--format jsonl'.

Examples:
  # Move the inventory window
  uisync set Inv.PosX 120

  # Bulk edit through jq
  uisync values --format json | jq 'map(.value |= ascii_upcase)' | uisync set --stdin

  # Restore a saved set of values
  uisync set --file layout.env`,
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().BoolVar(&setOpts.stdin, "stdin", false,
		"Read KEY=VALUE lines or JSON from stdin")
	setCmd.Flags().StringVar(&setOpts.file, "file", "",
		"Read KEY=VALUE lines or JSON from a file")
}

func runSet(cmd *cobra.Command, args []string) error {
	var values []engine.KeyValue

	var adapter input.InputAdapter
	switch {
	case setOpts.stdin && setOpts.file != "":
		return fmt.Errorf("use either --stdin or --file, not both")
	case setOpts.stdin:
		adapter = input.NewStdinAdapter()
	case setOpts.file != "":
		adapter = input.NewFileAdapter(setOpts.file)
	}

	switch {
	case adapter != nil && len(args) > 0:
		return fmt.Errorf("use either KEY VALUE or --%s, not both", adapter.Name())
	case adapter != nil:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		kvs, err := adapter.Import(ctx)
		if err != nil {
			return fmt.Errorf("failed to read from %s: %w", adapter.Name(), err)
		}
		values = kvs
	case len(args) == 2:
		values = []engine.KeyValue{{Key: args[0], Value: args[1]}}
	default:
		return fmt.Errorf("expected KEY VALUE, got %d argument(s)", len(args))
	}

	if len(values) == 0 {
		return fmt.Errorf("no values provided")
	}

	path := snapshotPath()
	n, err := applyValues(path, values)
	if err != nil {
		return err
	}
	fmt.Printf("updated %d value(s) in %s\n", n, path)
	return nil
}

// applyValues writes values into the snapshot at path. Empty keys are
// skipped.
func applyValues(path string, values []engine.KeyValue) (int, error) {
	snap, err := store.LoadSnapshot(path)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, kv := range values {
		if kv.Key == "" {
			logger.Warn("skipping value with empty key", "value", kv.Value)
			continue
		}
		snap.Set(kv.Key, kv.Value)
		n++
	}

	// Keep the frame count, stamp the edit time.
	snap.WrittenAt = time.Now().Unix()
	if err := store.SaveSnapshot(path, snap); err != nil {
		return 0, err
	}
	return n, nil
}
