package model

import (
	"errors"
	"strings"
)

// Events sent from the UI to the host.
const (
	EventSelItem            = "EventSelItem"
	EventValueChange        = "EventValueChange"
	EventAccept             = "EventAccept"
	EventContextMenuSelItem = "EventContextMenuSelItem"

	EventQMarkBox    = "EventQMarkBox"
	EventCloseBox    = "EventCloseBox"
	EventMinimizeBox = "EventMinimizeBox"

	EventLClick      = "EventLClick"
	EventLLongClick  = "EventLLongClick"
	EventRClick      = "EventRClick"
	EventRLongClick  = "EventRLongClick"
	EventRButtonDown = "EventRButtonDown"
	EventLLongUp     = "EventLLongUp"
	EventRLongUp     = "EventRLongUp"

	EventWindowRectChanged = "EventWindowRectChanged"
	EventMouseOver         = "EventMouseOver"
	EventMouseOut          = "EventMouseOut"

	EventColumnClick = "EventColumnClick"
)

// Events sent from the host to the UI.
const (
	HostEventPopupContextMenu = "HostEventPopupContextMenu"
)

// Key modifiers encoded into event params.
const (
	KeyModifierCtrl  = "Ctrl"
	KeyModifierAlt   = "Alt"
	KeyModifierShift = "Shift"
)

// Event is one entry of the event log crossing the UI/host boundary.
type Event struct {
	Dispatch string `json:"dispatch" yaml:"dispatch"`
	Sender   string `json:"sender" yaml:"sender"`
	Message  string `json:"message" yaml:"message"`
	Params   string `json:"params,omitempty" yaml:"params,omitempty"`
}

// IsNoisy reports whether the event is too frequent to be worth logging.
func (e Event) IsNoisy() bool {
	return e.Message == EventMouseOver || e.Message == EventMouseOut
}

// Fields returns the event as its four wire fields.
func (e Event) Fields() []string {
	return []string{e.Dispatch, e.Sender, e.Message, e.Params}
}

// ErrMalformedEventList is returned when a serialized event list cannot be decoded.
var ErrMalformedEventList = errors.New("malformed event list")

// EncodeEvents serializes events for the outbound batch: fields of one event
// are joined by fieldSep, events by eventSep (EventListSeparator1 and
// EventListSeparator2 on the standard wire).
func EncodeEvents(events []Event, fieldSep, eventSep string) string {
	if len(events) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range events {
		if i > 0 {
			sb.WriteString(eventSep)
		}
		sb.WriteString(strings.Join(e.Fields(), fieldSep))
	}
	return sb.String()
}

// DecodeEvents parses a string produced by EncodeEvents with the same
// separators. It is the host-side inverse, used by the journal replay.
func DecodeEvents(s, fieldSep, eventSep string) ([]Event, error) {
	if s == "" {
		return nil, nil
	}
	chunks := strings.Split(s, eventSep)
	events := make([]Event, 0, len(chunks))
	for _, c := range chunks {
		f := strings.Split(c, fieldSep)
		if len(f) != 4 {
			return nil, ErrMalformedEventList
		}
		events = append(events, Event{Dispatch: f[0], Sender: f[1], Message: f[2], Params: f[3]})
	}
	return events, nil
}
