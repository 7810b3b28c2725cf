package engine

import (
	"log/slog"

	"github.com/jmylchreest/uisync/internal/model"
)

// EventHandler receives inbound host events in order.
type EventHandler func(e model.Event)

// eventQueue is the ordered outbound event log.
type eventQueue struct {
	events []model.Event
}

func (q *eventQueue) push(e model.Event) {
	q.events = append(q.events, e)
}

func (q *eventQueue) take() []model.Event {
	out := q.events
	q.events = nil
	return out
}

func (q *eventQueue) len() int {
	return len(q.events)
}

// EventRouter dispatches inbound events to handlers by message name.
type EventRouter struct {
	handlers map[string]EventHandler
	fallback EventHandler
	logger   *slog.Logger
}

// NewEventRouter creates an EventRouter.
func NewEventRouter(logger *slog.Logger) *EventRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventRouter{
		handlers: make(map[string]EventHandler),
		logger:   logger,
	}
}

// Handle registers h for message, replacing any previous handler.
func (r *EventRouter) Handle(message string, h EventHandler) {
	r.handlers[message] = h
}

// HandleDefault registers h for messages without a handler.
func (r *EventRouter) HandleDefault(h EventHandler) {
	r.fallback = h
}

// Dispatch routes e. It satisfies EventHandler.
func (r *EventRouter) Dispatch(e model.Event) {
	if h, ok := r.handlers[e.Message]; ok {
		h(e)
		return
	}
	if r.fallback != nil {
		r.fallback(e)
		return
	}
	r.logger.Debug("unhandled host event",
		"dispatch", e.Dispatch, "sender", e.Sender, "message", e.Message)
}
