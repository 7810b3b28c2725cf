package host

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/jmylchreest/uisync/internal/engine"
	"github.com/jmylchreest/uisync/internal/model"
	"github.com/jmylchreest/uisync/internal/store"
)

// SessionOptions configure a Session.
type SessionOptions struct {
	Journal       *store.Journal // nil disables journaling
	SnapshotPath  string         // empty disables snapshots
	SnapshotEvery int            // frames between snapshots, 0 = only on stop
	FrameInterval time.Duration  // automatic flush interval, 0 = only on request
}

// Session owns the engine. Every engine call happens on the goroutine
// running Run; other goroutines go through Do.
type Session struct {
	eng    *engine.Engine
	news   NewsPublisher
	opts   SessionOptions
	logger *slog.Logger

	calls  chan func()
	frames int
	sent   int
}

// NewSession creates a Session publishing news frames to news.
func NewSession(eng *engine.Engine, news NewsPublisher, opts SessionOptions, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		eng:    eng,
		news:   news,
		opts:   opts,
		logger: logger,
		calls:  make(chan func()),
	}
}

// Frames returns the number of host frames handled.
func (s *Session) Frames() int { return s.frames }

// Sent returns the number of news frames published.
func (s *Session) Sent() int { return s.sent }

// Run handles inbound messages until ctx is done or msgs is closed, then
// writes a final snapshot.
func (s *Session) Run(ctx context.Context, msgs <-chan *message.Message) error {
	var tick <-chan time.Time
	if s.opts.FrameInterval > 0 {
		t := time.NewTicker(s.opts.FrameInterval)
		defer t.Stop()
		tick = t.C
	}

	defer s.snapshot()

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			s.handleMessage(msg)
			msg.Ack()

		case fn := <-s.calls:
			fn()

		case <-tick:
			s.Flush()
		}
	}
}

// Do runs fn on the session goroutine and waits for it to finish.
func (s *Session) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case s.calls <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) handleMessage(msg *message.Message) {
	env, err := ParseEnvelope(msg)
	if err != nil {
		s.logger.Warn("dropping message", "error", err)
		return
	}
	switch env.Type {
	case TypeHostFrame:
		var f model.HostFrame
		if err := env.Decode(&f); err != nil {
			s.logger.Warn("dropping frame", "error", err)
			return
		}
		s.HandleFrame(f)
	case TypeNewsRequest:
		s.requestNews()
	default:
		s.logger.Warn("unknown message type", "type", env.Type)
	}
}

// HandleFrame applies one host frame: the state diff, then its events,
// then the resulting notifications. A rejected diff or event list is logged
// and the rest of the frame still runs.
func (s *Session) HandleFrame(f model.HostFrame) {
	if s.opts.Journal != nil {
		if err := s.opts.Journal.AppendHost(f); err != nil {
			s.logger.Warn("journal append failed", "error", err)
		}
	}

	if err := s.eng.ApplyInboundBatch(f.Changes); err != nil {
		s.logger.Debug("frame changes rejected", "frame", f.ID, "error", err)
	}
	if err := s.eng.DispatchInboundEvents(f.Events); err != nil {
		s.logger.Debug("frame events rejected", "frame", f.ID, "error", err)
	}
	n := s.eng.DrainNotifications()

	s.frames++
	s.logger.Debug("frame applied", "frame", f.ID, "changes", len(f.Changes)/2, "notified", n)

	if s.opts.SnapshotEvery > 0 && s.frames%s.opts.SnapshotEvery == 0 {
		s.snapshot()
	}
	if f.RequestNews {
		s.Flush()
	}
}

// requestNews flushes on a bare host request, journaling it so a replay
// flushes at the same points.
func (s *Session) requestNews() {
	if s.opts.Journal != nil {
		id, _ := model.NewFrameID()
		if err := s.opts.Journal.AppendHost(model.HostFrame{ID: id, RequestNews: true}); err != nil {
			s.logger.Warn("journal append failed", "error", err)
		}
	}
	s.Flush()
}

// Flush collects the outbound batch and publishes it unless it is empty.
// It reports whether a frame was published.
func (s *Session) Flush() bool {
	changes, events := s.eng.FlushOutbound()
	if len(changes) == 0 && events == "" {
		return false
	}

	id, err := model.NewFrameID()
	if err != nil {
		s.logger.Warn("frame id", "error", err)
	}
	f := model.NewsFrame{ID: id, Changes: changes, Events: events}

	if s.opts.Journal != nil {
		if err := s.opts.Journal.AppendNews(f); err != nil {
			s.logger.Warn("journal append failed", "error", err)
		}
	}
	if err := s.news.PublishNews(f); err != nil {
		s.logger.Error("publish news failed", "error", err)
		return false
	}
	s.sent++
	return true
}

func (s *Session) snapshot() {
	if s.opts.SnapshotPath == "" {
		return
	}
	if err := store.SaveSnapshot(s.opts.SnapshotPath, store.SnapshotOf(s.eng, s.frames)); err != nil {
		s.logger.Warn("snapshot failed", "path", s.opts.SnapshotPath, "error", err)
		return
	}
	s.logger.Debug("snapshot written", "path", s.opts.SnapshotPath, "frames", s.frames)
}
