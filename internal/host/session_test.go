package host

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uisync/internal/engine"
	"github.com/jmylchreest/uisync/internal/model"
	"github.com/jmylchreest/uisync/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type collector struct {
	frames []model.NewsFrame
}

func (c *collector) PublishNews(f model.NewsFrame) error {
	c.frames = append(c.frames, f)
	return nil
}

type echo struct {
	eng *engine.Engine
}

func (e *echo) Updated()     { e.eng.Update("Inv.Echo", e.eng.Get("Inv.Title"), nil) }
func (e *echo) Item() string { return "Inv" }

// newEchoEngine returns an engine whose Inv.Title listener copies the title
// to Inv.Echo and whose event handler answers every event with EventAck.
func newEchoEngine() *engine.Engine {
	eng := engine.New(engine.DefaultConfig(), discardLogger())
	eng.Bind("Inv.Title", "", &echo{eng: eng}, engine.BindOptions{})
	eng.SetEventHandler(func(ev model.Event) {
		eng.SendEvent(ev.Dispatch, ev.Sender, "EventAck", ev.Message)
	})
	eng.DrainNotifications()
	eng.FlushOutbound()
	return eng
}

func TestSession_HandleFrameAndFlush(t *testing.T) {
	eng := newEchoEngine()
	news := &collector{}
	s := NewSession(eng, news, SessionOptions{}, discardLogger())

	s.HandleFrame(model.HostFrame{
		ID:      "f1",
		Changes: []string{"Inv.Title", "Bags"},
		Events:  []string{"Inv", "Slot1", model.EventLClick, ""},
	})
	assert.Empty(t, news.frames)
	assert.Equal(t, 1, s.Frames())

	require.True(t, s.Flush())
	require.Len(t, news.frames, 1)
	assert.Equal(t, []string{"Inv.Echo", "Bags"}, news.frames[0].Changes)
	assert.Equal(t, "Inv@Slot1@EventAck@EventLClick", news.frames[0].Events)
	assert.NotEmpty(t, news.frames[0].ID)

	// Nothing pending: no frame.
	assert.False(t, s.Flush())
	assert.Equal(t, 1, s.Sent())
}

func TestSession_RequestNewsFlag(t *testing.T) {
	eng := newEchoEngine()
	news := &collector{}
	s := NewSession(eng, news, SessionOptions{}, discardLogger())

	s.HandleFrame(model.HostFrame{Changes: []string{"Inv.Title", "x"}, RequestNews: true})

	require.Len(t, news.frames, 1)
	assert.Equal(t, []string{"Inv.Echo", "x"}, news.frames[0].Changes)
}

func TestSession_BadFrameStillDispatchesEvents(t *testing.T) {
	eng := newEchoEngine()
	news := &collector{}
	s := NewSession(eng, news, SessionOptions{}, discardLogger())

	s.HandleFrame(model.HostFrame{
		Changes:     []string{"Inv.Title"},
		Events:      []string{"Inv", "Inv", model.EventCloseBox, ""},
		RequestNews: true,
	})

	require.Len(t, news.frames, 1)
	assert.Empty(t, news.frames[0].Changes)
	assert.Equal(t, "Inv@Inv@EventAck@EventCloseBox", news.frames[0].Events)
	assert.Equal(t, "", eng.Get("Inv.Title"))
}

func TestSession_JournalAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	j, err := store.NewJournal(filepath.Join(dir, "journal.jsonl"))
	require.NoError(t, err)
	defer j.Close()
	snapPath := filepath.Join(dir, "snapshot.json")

	eng := newEchoEngine()
	s := NewSession(eng, &collector{}, SessionOptions{
		Journal:       j,
		SnapshotPath:  snapPath,
		SnapshotEvery: 2,
	}, discardLogger())

	s.HandleFrame(model.HostFrame{ID: "a", Changes: []string{"Inv.Title", "one"}})
	snap, err := store.LoadSnapshot(snapPath)
	require.NoError(t, err)
	assert.Empty(t, snap.Values)

	s.HandleFrame(model.HostFrame{ID: "b", Changes: []string{"Inv.Title", "two"}, RequestNews: true})

	snap, err = store.LoadSnapshot(snapPath)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Frames)
	v, _ := snap.Get("Inv.Echo")
	assert.Equal(t, "two", v)

	entries, err := j.Load()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].FrameID())
	assert.Equal(t, "b", entries[1].FrameID())
	assert.Equal(t, store.DirectionOut, entries[2].Direction)
}

func TestSession_RunSnapshotsOnStop(t *testing.T) {
	snapPath := filepath.Join(t.TempDir(), "snapshot.json")
	eng := newEchoEngine()
	s := NewSession(eng, &collector{}, SessionOptions{SnapshotPath: snapPath}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, nil) }()

	require.NoError(t, s.Do(ctx, func() {
		s.HandleFrame(model.HostFrame{Changes: []string{"Inv.Title", "kept"}})
	}))
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}

	snap, err := store.LoadSnapshot(snapPath)
	require.NoError(t, err)
	v, ok := snap.Get("Inv.Title")
	assert.True(t, ok)
	assert.Equal(t, "kept", v)
}

func TestSession_FrameIntervalFlushes(t *testing.T) {
	eng := newEchoEngine()
	b := NewBridge(discardLogger())
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	newsMsgs, err := b.SubscribeNews(ctx)
	require.NoError(t, err)

	s := NewSession(eng, b, SessionOptions{FrameInterval: 5 * time.Millisecond}, discardLogger())
	go func() { _ = s.Run(ctx, nil) }()

	require.NoError(t, s.Do(ctx, func() {
		s.HandleFrame(model.HostFrame{Changes: []string{"Inv.Title", "tick"}})
	}))

	select {
	case msg := <-newsMsgs:
		env, err := ParseEnvelope(msg)
		require.NoError(t, err)
		msg.Ack()
		var f model.NewsFrame
		require.NoError(t, env.Decode(&f))
		assert.Equal(t, []string{"Inv.Echo", "tick"}, f.Changes)
	case <-time.After(2 * time.Second):
		t.Fatal("no news frame")
	}
}

func TestSession_StdioEndToEnd(t *testing.T) {
	eng := newEchoEngine()
	b := NewBridge(discardLogger())
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hostMsgs, err := b.SubscribeHost(ctx)
	require.NoError(t, err)
	newsMsgs, err := b.SubscribeNews(ctx)
	require.NoError(t, err)

	s := NewSession(eng, b, SessionOptions{}, discardLogger())
	go func() { _ = s.Run(ctx, hostMsgs) }()

	pr, pw := io.Pipe()
	defer pr.Close()
	go func() { _ = WriteNews(ctx, pw, newsMsgs, discardLogger()) }()

	input := strings.Join([]string{
		`{"id":"f1","changes":["Inv.Title","Bags"],"events":["Inv","Slot1","EventLClick",""]}`,
		`garbage`,
		`{"request_news":true}`,
	}, "\n") + "\n"
	go func() { _ = ReadFrames(ctx, strings.NewReader(input), b, discardLogger()) }()

	lines := make(chan string, 1)
	go func() {
		sc := bufio.NewScanner(pr)
		if sc.Scan() {
			lines <- sc.Text()
		}
	}()

	select {
	case line := <-lines:
		assert.Contains(t, line, `"changes":["Inv.Echo","Bags"]`)
		assert.Contains(t, line, `"events":"Inv@Slot1@EventAck@EventLClick"`)
	case <-time.After(2 * time.Second):
		t.Fatal("no news written")
	}
}
