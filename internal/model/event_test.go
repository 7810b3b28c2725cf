package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvents(t *testing.T) {
	events := []Event{
		{Dispatch: "Inv", Sender: "Slot1", Message: EventLClick, Params: "Ctrl"},
		{Dispatch: "Inv", Sender: "Slot2", Message: EventMouseOver},
	}

	s := EncodeEvents(events, EventListSeparator1, EventListSeparator2)
	assert.Equal(t, "Inv@Slot1@EventLClick@Ctrl$Inv@Slot2@EventMouseOver@", s)
	assert.Empty(t, EncodeEvents(nil, "@", "$"))

	got, err := DecodeEvents(s, EventListSeparator1, EventListSeparator2)
	require.NoError(t, err)
	assert.Equal(t, events, got)
}

func TestDecodeEvents_Malformed(t *testing.T) {
	_, err := DecodeEvents("Inv@Slot1@EventLClick", "@", "$")
	assert.ErrorIs(t, err, ErrMalformedEventList)

	got, err := DecodeEvents("", "@", "$")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFrameTime(t *testing.T) {
	id, err := NewFrameID()
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now(), FrameTime(id), 5*time.Second)
	assert.True(t, FrameTime("1").IsZero())
}
