package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/uisync/internal/adapter/output"
	"github.com/jmylchreest/uisync/internal/core"
	"github.com/jmylchreest/uisync/internal/engine"
	"github.com/jmylchreest/uisync/internal/store"
)

var valuesOpts struct {
	// Filter options
	item   string
	system bool

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format      string
	template    string
	index       bool
	maxLen      int
	splitLists  bool
	quiet       bool
	lookupIndex int
}

var valuesCmd = &cobra.Command{
	Use:     "values [query]",
	Aliases: []string{"get"},
	Short:   "Print the values of the snapshot",
	Long: `Print the persistent values saved in the snapshot.

The optional query is either plain text, matched against keys and values,
or a filter expression over the fields key, value, item, attr and num:

  item=Inv            exact item path
  attr~Pos            attribute contains
  num>=100            numeric comparison
  item=Inv,num>0      conditions joined by commas must all hold

Examples:
  # All values as KEY = VALUE lines
  uisync values

  # Inventory window geometry as JSON
  uisync values 'item=Inv,attr~Pos' --format json

  # Only the keys, sorted by item
  uisync values --format keys --sort item

  # Custom template
  uisync values --template '{{.Key}}	{{truncate 20 .Value}}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValues,
}

func init() {
	rootCmd.AddCommand(valuesCmd)

	valuesCmd.Flags().StringVar(&valuesOpts.item, "item", "",
		"Only values of this item path (exact match)")
	valuesCmd.Flags().BoolVarP(&valuesOpts.system, "all", "a", false,
		"Include System.* keys")

	valuesCmd.Flags().StringVar(&valuesOpts.sortBy, "sort", "key",
		"Sort by field (key, item, value)")
	valuesCmd.Flags().StringVar(&valuesOpts.sortOrder, "order", "asc",
		"Sort order (asc, desc)")

	valuesCmd.Flags().StringVarP(&valuesOpts.format, "format", "f", "plain",
		"Output format (plain, json, jsonl, yaml, keys)")
	valuesCmd.Flags().StringVar(&valuesOpts.template, "template", "",
		"Custom Go template for plain output")
	valuesCmd.Flags().BoolVar(&valuesOpts.index, "index", false,
		"Prefix plain output with a 1-based index")
	valuesCmd.Flags().IntVar(&valuesOpts.maxLen, "max-len", 0,
		"Truncate values in plain output (0=unlimited)")
	valuesCmd.Flags().BoolVar(&valuesOpts.splitLists, "split-lists", false,
		"Split list values in json/yaml output")
	valuesCmd.Flags().BoolVarP(&valuesOpts.quiet, "quiet", "q", false,
		"Do not print the snapshot summary to stderr")
	valuesCmd.Flags().IntVarP(&valuesOpts.lookupIndex, "nth", "n", 0,
		"Print only the value at this 1-based position")
}

func runValues(cmd *cobra.Command, args []string) error {
	path := snapshotPath()
	snap, err := store.LoadSnapshot(path)
	if err != nil {
		return err
	}

	if !valuesOpts.quiet {
		fmt.Fprintln(os.Stderr, snapshotSummary(path, snap))
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	values, err := selectValues(snap.Values, query)
	if err != nil {
		return err
	}

	if valuesOpts.lookupIndex > 0 {
		kv := core.LookupByIndex(values, valuesOpts.lookupIndex)
		if kv == nil {
			return fmt.Errorf("no value at position %d (%d matched)", valuesOpts.lookupIndex, len(values))
		}
		fmt.Println(kv.Value)
		return nil
	}

	return printValues(os.Stdout, values)
}

// selectValues applies the query, item and System filters and the sort flags.
func selectValues(values []engine.KeyValue, query string) ([]engine.KeyValue, error) {
	out := make([]engine.KeyValue, 0, len(values))
	for _, kv := range values {
		if !valuesOpts.system && strings.HasPrefix(kv.Key, "System.") {
			continue
		}
		if valuesOpts.item != "" {
			if item, _ := core.SplitKey(kv.Key); item != valuesOpts.item {
				continue
			}
		}
		out = append(out, kv)
	}

	if query != "" {
		if strings.ContainsAny(query, "=<>~") && !core.IsFilterExpression(query) {
			// Surface the parse error rather than silently searching.
			if _, err := core.ParseFilter(query); err != nil {
				return nil, fmt.Errorf("invalid filter: %w", err)
			}
		}
		out = core.Query(out, query)
	}

	field, err := core.ParseSortField(valuesOpts.sortBy)
	if err != nil {
		return nil, err
	}
	order, err := core.ParseSortOrder(valuesOpts.sortOrder)
	if err != nil {
		return nil, err
	}
	core.Sort(out, core.SortOptions{Field: field, Order: order})
	return out, nil
}

// printValues writes values in the selected format.
func printValues(w io.Writer, values []engine.KeyValue) error {
	format, err := output.ParseFormat(valuesOpts.format)
	if err != nil {
		return err
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = valuesOpts.template
	opts.ShowIndex = valuesOpts.index
	opts.ValueMaxLen = valuesOpts.maxLen
	if valuesOpts.splitLists {
		opts.ListSeparator = cfg.Engine.ListSeparator
	}

	return output.NewFormatter(format, opts).Format(w, values)
}

// snapshotSummary describes the snapshot for humans.
func snapshotSummary(path string, snap *store.Snapshot) string {
	if snap.WrittenAt == 0 {
		return fmt.Sprintf("%s: no snapshot yet", path)
	}
	size := "?"
	if info, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	return fmt.Sprintf("%s: %s values after %s frames, written %s (%s)",
		path,
		humanize.Comma(int64(len(snap.Values))),
		humanize.Comma(int64(snap.Frames)),
		humanize.Time(snap.Time()),
		size)
}
