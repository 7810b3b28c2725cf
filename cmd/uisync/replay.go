package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/uisync/internal/host"
	"github.com/jmylchreest/uisync/internal/store"
)

var replayOpts struct {
	quiet   bool
	compare bool
}

var replayCmd = &cobra.Command{
	Use:   "replay JOURNAL",
	Short: "Replay a recorded session through a fresh engine",
	Long: `Replay the host frames recorded by 'uisync serve --journal' through a
fresh engine and window manager built from the current config, and print the
news frames it produces as JSON lines.

With --compare, the replayed news is checked against the news recorded in
the journal. The snapshot is not used, so record with --no-snapshot for an
exact comparison.

Examples:
  uisync replay session.jsonl
  uisync replay session.jsonl --compare -q`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVarP(&replayOpts.quiet, "quiet", "q", false,
		"Do not print the news frames")
	replayCmd.Flags().BoolVar(&replayOpts.compare, "compare", false,
		"Compare the replayed news with the recorded news")
}

func runReplay(cmd *cobra.Command, args []string) error {
	entries, err := store.ReadJournal(args[0])
	if err != nil {
		return err
	}

	// Session logging during a replay is noise unless asked for.
	replayLogger := logger
	if !globalOpts.verbose {
		replayLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	res, err := host.Replay(cfg, store.HostFrames(entries), replayLogger)
	if err != nil {
		return err
	}

	if !replayOpts.quiet {
		enc := json.NewEncoder(os.Stdout)
		for _, f := range res.News {
			if err := enc.Encode(f); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(os.Stderr, replaySummary(res))

	if replayOpts.compare {
		recorded := host.RecordedNews(entries)
		if i := host.CompareNews(res.News, recorded); i >= 0 {
			return fmt.Errorf("replay diverges from the recording at news frame %s (%d replayed, %d recorded)",
				humanize.Ordinal(i+1), len(res.News), len(recorded))
		}
		fmt.Fprintf(os.Stderr, "matches %s recorded news frames\n", humanize.Comma(int64(len(recorded))))
	}
	return nil
}

func replaySummary(res *host.ReplayResult) string {
	out := fmt.Sprintf("replayed %s frames: %s news frames, %s changes, %s events",
		humanize.Comma(int64(res.Frames)),
		humanize.Comma(int64(len(res.News))),
		humanize.Comma(int64(res.Changes)),
		humanize.Comma(int64(res.Events)))
	if !res.Started.IsZero() {
		out += fmt.Sprintf(" (recorded %s, over %s)",
			res.Started.Format(time.DateTime),
			strings.TrimSpace(humanize.RelTime(res.Started, res.Ended, "", "")))
	}
	return out
}
