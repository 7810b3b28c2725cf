package host

import (
	"log/slog"
	"slices"
	"time"

	"github.com/jmylchreest/uisync/internal/config"
	"github.com/jmylchreest/uisync/internal/model"
	"github.com/jmylchreest/uisync/internal/store"
)

// ReplayResult is the outcome of running recorded host frames through a
// fresh runtime.
type ReplayResult struct {
	Frames  int
	News    []model.NewsFrame
	Changes int // key/value pairs sent
	Events  int

	// First and last recording times taken from the frame IDs; zero when
	// no frame carries a time-ordered ID.
	Started time.Time
	Ended   time.Time
}

type newsRecorder struct {
	frames []model.NewsFrame
}

func (r *newsRecorder) PublishNews(f model.NewsFrame) error {
	r.frames = append(r.frames, f)
	return nil
}

// Replay feeds frames to a runtime built from cfg, starting without a
// snapshot, and collects the news it produces. Pending news is flushed at
// the end.
func Replay(cfg *config.Config, frames []model.HostFrame, logger *slog.Logger) (*ReplayResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	rt, err := NewRuntime(cfg, logger)
	if err != nil {
		return nil, err
	}

	rec := &newsRecorder{}
	s := NewSession(rt.Engine, rec, SessionOptions{}, logger)
	res := &ReplayResult{}
	for _, f := range frames {
		if t := model.FrameTime(f.ID); !t.IsZero() {
			if res.Started.IsZero() || t.Before(res.Started) {
				res.Started = t
			}
			if t.After(res.Ended) {
				res.Ended = t
			}
		}
		s.HandleFrame(f)
	}
	s.Flush()

	res.Frames = s.Frames()
	res.News = rec.frames
	ec := EngineConfig(cfg)
	for _, n := range rec.frames {
		res.Changes += len(n.Changes) / 2
		events, err := model.DecodeEvents(n.Events, ec.EventFieldSeparator, ec.EventSeparator)
		if err != nil {
			logger.Debug("news events not decodable", "frame", n.ID, "error", err)
			continue
		}
		res.Events += len(events)
	}
	return res, nil
}

// RecordedNews returns the outbound frames of entries in order.
func RecordedNews(entries []store.Entry) []model.NewsFrame {
	var out []model.NewsFrame
	for _, e := range entries {
		if e.Direction == store.DirectionOut && e.News != nil {
			out = append(out, *e.News)
		}
	}
	return out
}

// CompareNews compares two news sequences by content, ignoring frame IDs.
// It returns the index of the first differing frame, or -1 if they match.
func CompareNews(got, want []model.NewsFrame) int {
	for i := range min(len(got), len(want)) {
		if !slices.Equal(got[i].Changes, want[i].Changes) || got[i].Events != want[i].Events {
			return i
		}
	}
	if len(got) != len(want) {
		return min(len(got), len(want))
	}
	return -1
}
