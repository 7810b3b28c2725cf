// Package store persists frames and engine values to disk.
package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/uisync/internal/model"
)

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

const maxLineSize = 1024 * 1024

// Direction says which way a journaled frame travelled.
type Direction string

const (
	// DirectionIn is a host frame received by the UI.
	DirectionIn Direction = "in"
	// DirectionOut is a news frame sent to the host.
	DirectionOut Direction = "out"
)

// Entry is one journal line.
type Entry struct {
	Direction Direction        `json:"dir"`
	Time      int64            `json:"time"` // unix ms
	Host      *model.HostFrame `json:"host,omitempty"`
	News      *model.NewsFrame `json:"news,omitempty"`
}

// FrameID returns the ID of the frame carried by the entry.
func (e Entry) FrameID() string {
	switch {
	case e.Host != nil:
		return e.Host.ID
	case e.News != nil:
		return e.News.ID
	}
	return ""
}

func (e Entry) valid() bool {
	switch e.Direction {
	case DirectionIn:
		return e.Host != nil
	case DirectionOut:
		return e.News != nil
	}
	return false
}

// schemaHeader is the first line of the journal.
type schemaHeader struct {
	UisyncJournalVersion int   `json:"uisync_journal_version"`
	CreatedAt            int64 `json:"created_at"`
}

// ErrJournalClosed is returned when operations are attempted on a closed journal.
var ErrJournalClosed = errors.New("journal is closed")

// Journal records host and news frames as JSONL.
type Journal struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
	now    func() time.Time
}

// NewJournal opens or creates the journal at path.
func NewJournal(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	j := &Journal{path: path, file: file, now: time.Now}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := j.writeLine(schemaHeader{
			UisyncJournalVersion: SchemaVersion,
			CreatedAt:            j.now().Unix(),
		}); err != nil {
			file.Close()
			return nil, err
		}
	}
	return j, nil
}

// Path returns the journal file path.
func (j *Journal) Path() string { return j.path }

func (j *Journal) writeLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = j.file.Write(append(data, '\n'))
	return err
}

func (j *Journal) append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed || j.file == nil {
		return ErrJournalClosed
	}
	e.Time = j.now().UnixMilli()
	if err := j.writeLine(e); err != nil {
		return fmt.Errorf("append to %s: %w", j.path, err)
	}
	return j.file.Sync()
}

// AppendHost records an inbound frame.
func (j *Journal) AppendHost(f model.HostFrame) error {
	return j.append(Entry{Direction: DirectionIn, Host: &f})
}

// AppendNews records an outbound frame.
func (j *Journal) AppendNews(f model.NewsFrame) error {
	return j.append(Entry{Direction: DirectionOut, News: &f})
}

// Load reads every entry recorded so far.
func (j *Journal) Load() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed || j.file == nil {
		return nil, ErrJournalClosed
	}
	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", j.path, err)
	}
	entries, err := readEntries(j.file)
	if _, serr := j.file.Seek(0, io.SeekEnd); serr != nil && err == nil {
		err = serr
	}
	return entries, err
}

// Close releases the file handle.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	if j.file != nil {
		err := j.file.Close()
		j.file = nil
		return err
	}
	return nil
}

// ReadJournal reads the journal at path without opening it for writing.
func ReadJournal(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	defer f.Close()
	return readEntries(f)
}

// readEntries skips blank and malformed lines so a torn final write does
// not lose the rest of the journal.
func readEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			var header schemaHeader
			if err := json.Unmarshal(line, &header); err == nil && header.UisyncJournalVersion > 0 {
				if header.UisyncJournalVersion > SchemaVersion {
					return nil, fmt.Errorf("unsupported journal version %d (max: %d)",
						header.UisyncJournalVersion, SchemaVersion)
				}
				continue
			}
		}

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil || !e.valid() {
			continue
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("error reading journal: %w", err)
	}
	return entries, nil
}

// HostFrames returns the inbound frames of entries in order.
func HostFrames(entries []Entry) []model.HostFrame {
	var out []model.HostFrame
	for _, e := range entries {
		if e.Direction == DirectionIn && e.Host != nil {
			out = append(out, *e.Host)
		}
	}
	return out
}
