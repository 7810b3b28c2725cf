package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/uisync/internal/host"
)

func TestReplaySummary(t *testing.T) {
	res := &host.ReplayResult{Frames: 1200, Changes: 3, Events: 1}
	assert.Equal(t, "replayed 1,200 frames: 0 news frames, 3 changes, 1 events", replaySummary(res))

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	res.Started = start
	res.Ended = start.Add(2 * time.Minute)
	out := replaySummary(res)
	assert.Contains(t, out, "recorded 2026-01-02 03:04:05")
	assert.Contains(t, out, "over 2 minutes")
}
