package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uisync/internal/engine"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadSnapshot_Missing(t *testing.T) {
	s, err := LoadSnapshot(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Values)
	assert.True(t, s.Time().IsZero())
}

func TestLoadSnapshot_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

	_, err := LoadSnapshot(path)
	assert.Error(t, err)
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "snapshot.json")
	s := &Snapshot{Values: []engine.KeyValue{{Key: "Inv.Title", Value: "Bags"}}}

	require.NoError(t, SaveSnapshot(path, s))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, loaded.SchemaVersion)
	assert.WithinDuration(t, time.Now(), loaded.Time(), 5*time.Second)
	v, ok := loaded.Get("Inv.Title")
	assert.True(t, ok)
	assert.Equal(t, "Bags", v)
}

func TestSnapshot_Set(t *testing.T) {
	s := &Snapshot{}
	s.Set("A", "1")
	s.Set("B", "2")
	s.Set("A", "3")

	assert.Equal(t, []string{"A", "3", "B", "2"}, s.Pairs())
	_, ok := s.Get("C")
	assert.False(t, ok)
}

func TestSnapshotOf_SkipsTransient(t *testing.T) {
	eng := engine.New(engine.DefaultConfig(), discardLogger())
	eng.Bind("Inv.Title", "Bags", nil, engine.BindOptions{})
	eng.Bind("Inv.Drag", "1", nil, engine.BindOptions{Transient: true})

	s := SnapshotOf(eng, 7)

	assert.Equal(t, 7, s.Frames)
	_, ok := s.Get("Inv.Title")
	assert.True(t, ok)
	_, ok = s.Get("Inv.Drag")
	assert.False(t, ok)
}

func TestSnapshot_Restore(t *testing.T) {
	s := &Snapshot{Values: []engine.KeyValue{
		{Key: "Inv.Title", Value: "Bags"},
		{Key: "Inv.IniState", Value: "0.5|0.5"},
	}}
	eng := engine.New(engine.DefaultConfig(), discardLogger())

	require.NoError(t, s.Restore(eng))

	assert.Equal(t, "Bags", eng.Get("Inv.Title"))
	assert.Equal(t, "0.5|0.5", eng.Get("Inv.IniState"))
	changes, _ := eng.FlushOutbound()
	assert.Empty(t, changes)
}
