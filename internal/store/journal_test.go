package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uisync/internal/model"
)

func TestNewJournal_WritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.jsonl")

	j, err := NewJournal(path)
	require.NoError(t, err)
	defer j.Close()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "uisync_journal_version")
	assert.Equal(t, path, j.Path())
}

func TestJournal_AppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j, err := NewJournal(path)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.AppendHost(model.HostFrame{ID: "h1", Changes: []string{"Inv.Visible", "1"}}))
	require.NoError(t, j.AppendNews(model.NewsFrame{ID: "n1", Events: "Inv@Inv@EventCloseBox@"}))
	require.NoError(t, j.AppendHost(model.HostFrame{ID: "h2", RequestNews: true}))

	entries, err := j.Load()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, DirectionIn, entries[0].Direction)
	assert.Equal(t, []string{"Inv.Visible", "1"}, entries[0].Host.Changes)
	assert.Equal(t, DirectionOut, entries[1].Direction)
	assert.Equal(t, "n1", entries[1].FrameID())
	assert.True(t, entries[2].Host.RequestNews)
	assert.NotZero(t, entries[0].Time)

	// Appends after a load go to the end.
	require.NoError(t, j.AppendHost(model.HostFrame{ID: "h3"}))
	entries, err = j.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestJournal_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j, err := NewJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.AppendHost(model.HostFrame{ID: "h1"}))
	require.NoError(t, j.Close())

	j, err = NewJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.AppendHost(model.HostFrame{ID: "h2"}))
	require.NoError(t, j.Close())

	entries, err := ReadJournal(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "h1", entries[0].FrameID())
	assert.Equal(t, "h2", entries[1].FrameID())
}

func TestJournal_Closed(t *testing.T) {
	j, err := NewJournal(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	assert.ErrorIs(t, j.AppendHost(model.HostFrame{}), ErrJournalClosed)
	_, err = j.Load()
	assert.ErrorIs(t, err, ErrJournalClosed)
}

func TestReadJournal_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	content := `{"uisync_journal_version":1,"created_at":1}
{"dir":"in","time":1,"host":{"id":"a"}}
not json

{"dir":"out","time":2}
{"dir":"sideways","time":3,"host":{"id":"b"}}
{"dir":"out","time":4,"news":{"id":"c"}}
{"dir":"in","time":5,"host":{"id":"d"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	entries, err := ReadJournal(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].FrameID())
	assert.Equal(t, "c", entries[1].FrameID())
}

func TestReadJournal_NewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"uisync_journal_version":99,"created_at":1}`+"\n"), 0600))

	_, err := ReadJournal(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported journal version")
}

func TestReadJournal_Missing(t *testing.T) {
	_, err := ReadJournal(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHostFrames(t *testing.T) {
	entries := []Entry{
		{Direction: DirectionIn, Host: &model.HostFrame{ID: "1"}},
		{Direction: DirectionOut, News: &model.NewsFrame{ID: "2"}},
		{Direction: DirectionIn, Host: &model.HostFrame{ID: "3"}},
	}

	frames := HostFrames(entries)

	require.Len(t, frames, 2)
	assert.Equal(t, "1", frames[0].ID)
	assert.Equal(t, "3", frames[1].ID)
}
