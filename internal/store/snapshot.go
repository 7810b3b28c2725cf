package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/uisync/internal/engine"
)

// SnapshotVersion is the current snapshot schema version.
const SnapshotVersion = 1

// Snapshot is the persisted set of non-transient engine values.
type Snapshot struct {
	SchemaVersion int               `json:"schema_version"`
	WrittenAt     int64             `json:"written_at"` // unix seconds
	Frames        int               `json:"frames,omitempty"`
	Values        []engine.KeyValue `json:"values"`
}

// Time returns the write time.
func (s *Snapshot) Time() time.Time {
	if s.WrittenAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.WrittenAt, 0)
}

// Get returns the value stored for key.
func (s *Snapshot) Get(key string) (string, bool) {
	for _, kv := range s.Values {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set stores value under key, adding the key if needed.
func (s *Snapshot) Set(key, value string) {
	for i := range s.Values {
		if s.Values[i].Key == key {
			s.Values[i].Value = value
			return
		}
	}
	s.Values = append(s.Values, engine.KeyValue{Key: key, Value: value})
}

// Pairs returns the values as alternating key/value pairs.
func (s *Snapshot) Pairs() []string {
	out := make([]string, 0, len(s.Values)*2)
	for _, kv := range s.Values {
		out = append(out, kv.Key, kv.Value)
	}
	return out
}

// snapshotFileMutex protects concurrent access to snapshot files.
var snapshotFileMutex sync.RWMutex

// SnapshotOf captures the persistent values of eng.
func SnapshotOf(eng *engine.Engine, frames int) *Snapshot {
	return &Snapshot{
		SchemaVersion: SnapshotVersion,
		WrittenAt:     time.Now().Unix(),
		Frames:        frames,
		Values:        eng.PersistentValues(),
	}
}

// LoadSnapshot reads the snapshot at path. A missing file yields an empty
// snapshot; a corrupted one is an error.
func LoadSnapshot(path string) (*Snapshot, error) {
	snapshotFileMutex.RLock()
	defer snapshotFileMutex.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Snapshot{SchemaVersion: SnapshotVersion}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	if s.SchemaVersion > SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (max: %d)", s.SchemaVersion, SnapshotVersion)
	}
	if s.SchemaVersion == 0 {
		s.SchemaVersion = SnapshotVersion
	}
	return &s, nil
}

// SaveSnapshot writes s to path atomically.
func SaveSnapshot(path string, s *Snapshot) error {
	snapshotFileMutex.Lock()
	defer snapshotFileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if s.SchemaVersion == 0 {
		s.SchemaVersion = SnapshotVersion
	}
	if s.WrittenAt == 0 {
		s.WrittenAt = time.Now().Unix()
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Restore applies the snapshot to eng as a host batch.
func (s *Snapshot) Restore(eng *engine.Engine) error {
	if len(s.Values) == 0 {
		return nil
	}
	return eng.ApplyInboundBatch(s.Pairs())
}
