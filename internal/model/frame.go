package model

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// HostFrame is one host->UI push: a state diff of alternating key/value pairs
// and a flat list of (dispatch, sender, message, params) event tuples.
// RequestNews asks the UI side to answer with its pending news.
type HostFrame struct {
	ID          string   `json:"id,omitempty"`
	Changes     []string `json:"changes,omitempty"`
	Events      []string `json:"events,omitempty"`
	RequestNews bool     `json:"request_news,omitempty"`
}

// IsEmpty reports whether the frame carries no state and no events.
func (f HostFrame) IsEmpty() bool {
	return len(f.Changes) == 0 && len(f.Events) == 0
}

// NewsFrame is one UI->host batch produced by a flush.
type NewsFrame struct {
	ID      string   `json:"id"`
	Changes []string `json:"changes,omitempty"`
	Events  string   `json:"events,omitempty"`
}

// IsEmpty reports whether the frame has nothing for the host.
func (f NewsFrame) IsEmpty() bool {
	return len(f.Changes) == 0 && f.Events == ""
}

// NewFrameID returns a time-ordered identifier for a frame.
func NewFrameID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}
	return id.String(), nil
}

// FrameTime extracts the creation time encoded in a frame ID.
// It returns the zero time for IDs that are not ULIDs.
func FrameTime(id string) time.Time {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}
