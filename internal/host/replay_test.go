package host

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uisync/internal/config"
	"github.com/jmylchreest/uisync/internal/model"
	"github.com/jmylchreest/uisync/internal/store"
)

func TestReplay_MatchesRecordedSession(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Screens = []config.ScreenConfig{{Item: "Inv", Width: 200, Height: 100}}

	j, err := store.NewJournal(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	defer j.Close()

	rt, err := NewRuntime(cfg, discardLogger())
	require.NoError(t, err)
	s := NewSession(rt.Engine, &collector{}, SessionOptions{Journal: j}, discardLogger())

	s.HandleFrame(model.HostFrame{ID: "1", Changes: []string{"Inv.Title", "Bags"}, RequestNews: true})
	s.HandleFrame(model.HostFrame{ID: "2", Changes: []string{"Inv.Visible", "0"}})
	s.HandleFrame(model.HostFrame{ID: "3", Events: []string{"Inv", "Inv", model.HostEventPopupContextMenu, ""}})
	s.requestNews()

	entries, err := j.Load()
	require.NoError(t, err)
	recorded := RecordedNews(entries)
	require.NotEmpty(t, recorded)

	res, err := Replay(cfg, store.HostFrames(entries), discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Frames)
	assert.Equal(t, -1, CompareNews(res.News, recorded))
	assert.Positive(t, res.Changes)
}

func TestReplay_FlushesPendingNews(t *testing.T) {
	res, err := Replay(nil, []model.HostFrame{
		{Events: []string{"Inv", "Slot1", model.EventLClick, ""}},
	}, discardLogger())
	require.NoError(t, err)

	require.NotEmpty(t, res.News)
	assert.Equal(t, 1, res.Frames)
}

func TestReplay_RecordingSpan(t *testing.T) {
	first := ulid.MustNew(ulid.Timestamp(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)), nil).String()
	last := ulid.MustNew(ulid.Timestamp(time.Date(2026, 1, 2, 3, 6, 5, 0, time.UTC)), nil).String()

	res, err := Replay(nil, []model.HostFrame{
		{ID: first, Changes: []string{"Inv.Title", "Bags"}},
		{ID: "not-a-ulid"},
		{ID: last, Events: []string{"Inv", "Slot1", model.EventLClick, ""}, RequestNews: true},
	}, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, res.Ended.Sub(res.Started))
	assert.Equal(t, 3, res.Frames)
}

func TestReplay_NoTimedFrames(t *testing.T) {
	res, err := Replay(nil, []model.HostFrame{{ID: "1"}}, discardLogger())
	require.NoError(t, err)

	assert.True(t, res.Started.IsZero())
	assert.True(t, res.Ended.IsZero())
}

func TestCompareNews(t *testing.T) {
	a := model.NewsFrame{ID: "x", Changes: []string{"K", "V"}}
	b := model.NewsFrame{ID: "y", Changes: []string{"K", "V"}}
	c := model.NewsFrame{Events: "Inv@Inv@EventCloseBox@"}

	tests := []struct {
		name      string
		got, want []model.NewsFrame
		expected  int
	}{
		{"equal ignoring ids", []model.NewsFrame{a}, []model.NewsFrame{b}, -1},
		{"both empty", nil, nil, -1},
		{"content differs", []model.NewsFrame{a, a}, []model.NewsFrame{b, c}, 1},
		{"got shorter", []model.NewsFrame{a}, []model.NewsFrame{b, c}, 1},
		{"got longer", []model.NewsFrame{a, c}, []model.NewsFrame{b}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompareNews(tt.got, tt.want))
		})
	}
}
