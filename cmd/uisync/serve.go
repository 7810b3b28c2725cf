package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/uisync/internal/config"
	"github.com/jmylchreest/uisync/internal/host"
	"github.com/jmylchreest/uisync/internal/store"
)

var serveOpts struct {
	journal    string
	noSnapshot bool
	noWatch    bool
}

// errInputClosed ends a serve run when the host closes stdin.
var errInputClosed = errors.New("host input closed")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a sync session over stdin/stdout",
	Long: `Run a sync session over stdio.

The host writes one JSON frame per line to stdin:

  {"id":"...","changes":["Inv.Title","Bags"],"events":["Inv","Slot1","EventLClick",""],"request_news":true}

and reads news frames from stdout:

  {"id":"...","changes":["Inv.Echo","Bags"],"events":"Inv@Slot1@EventAck@"}

A frame with only "request_news": true asks for pending changes. With
frame_interval set in [host], news is also flushed on a timer.

Persistent values are restored from the snapshot at startup and written back
every snapshot_every frames and on exit. Edits to the [window] section of the
config file are applied while running.

Examples:
  # Run with a journal for later replay
  game-host | uisync serve --journal session.jsonl

  # Run without touching the saved snapshot
  uisync serve --no-snapshot`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveOpts.journal, "journal", "",
		"Record every frame to this JSONL file (default: [host] journal_path)")
	serveCmd.Flags().BoolVar(&serveOpts.noSnapshot, "no-snapshot", false,
		"Do not restore or write the snapshot")
	serveCmd.Flags().BoolVar(&serveOpts.noWatch, "no-watch", false,
		"Do not reload the config file on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := host.NewRuntime(cfg, logger)
	if err != nil {
		return err
	}

	snapPath := ""
	if !serveOpts.noSnapshot {
		snapPath = snapshotPath()
		snap, err := store.LoadSnapshot(snapPath)
		if err != nil {
			return err
		}
		if err := rt.Restore(snap); err != nil {
			return err
		}
	}

	journalPath := serveOpts.journal
	if journalPath == "" {
		journalPath = cfg.Host.JournalPath
	}
	var journal *store.Journal
	if journalPath != "" {
		journal, err = store.NewJournal(journalPath)
		if err != nil {
			return err
		}
		defer journal.Close()
	}

	bridge := host.NewBridge(logger)
	defer bridge.Close()

	g, gctx := errgroup.WithContext(ctx)

	// Subscribe before anything publishes: the bridge drops messages
	// nobody listens for.
	hostMsgs, err := bridge.SubscribeHost(gctx)
	if err != nil {
		return err
	}
	newsMsgs, err := bridge.SubscribeNews(gctx)
	if err != nil {
		return err
	}

	session := host.NewSession(rt.Engine, bridge, host.SessionOptions{
		Journal:       journal,
		SnapshotPath:  snapPath,
		SnapshotEvery: cfg.Host.SnapshotEvery,
		FrameInterval: cfg.FrameInterval(),
	}, logger)

	logger.Info("session started",
		"snapshot", snapPath, "journal", journalPath, "screens", len(cfg.Screens))

	g.Go(func() error {
		return session.Run(gctx, hostMsgs)
	})
	g.Go(func() error {
		return host.WriteNews(gctx, os.Stdout, newsMsgs, logger)
	})
	g.Go(func() error {
		if err := host.ReadFrames(gctx, os.Stdin, bridge, logger); err != nil {
			return err
		}
		return errInputClosed
	})

	if !serveOpts.noWatch {
		if watcher := watchConfig(gctx, session, rt); watcher != nil {
			g.Go(func() error {
				<-gctx.Done()
				return watcher.Stop()
			})
		}
	}

	err = g.Wait()
	logger.Info("session stopped", "frames", session.Frames(), "news", session.Sent())
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}

// watchConfig reloads the config file on change and applies its [window]
// section on the session goroutine. It returns nil if the file cannot be
// watched.
func watchConfig(ctx context.Context, session *host.Session, rt *host.Runtime) *store.FileWatcher {
	path := configPath()
	if path == "" {
		return nil
	}

	watcher, err := store.NewFileWatcher(path, func() {
		next, err := config.LoadConfig(path)
		if err != nil {
			logger.Warn("config reload failed", "path", path, "error", err)
			return
		}
		if err := session.Do(ctx, func() { rt.Reconfigure(next) }); err != nil {
			logger.Debug("config reload skipped", "error", err)
		}
	}, logger)
	if err != nil {
		logger.Warn("failed to create config watcher", "error", err)
		return nil
	}
	if err := watcher.Start(); err != nil {
		logger.Debug("config watcher not started", "path", path, "error", err)
		return nil
	}
	return watcher
}
