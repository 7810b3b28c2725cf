// Package engine implements the key/value state synchronization engine
// shared by the UI side and the host.
//
// The engine is single-threaded: every method must be called from the one
// goroutine that owns it (see host.Session). It never returns errors to
// widget callers; boundary violations and misuse are logged and dropped.
package engine

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/jmylchreest/uisync/internal/model"
)

// Config holds the wire separators.
type Config struct {
	ListSeparator       string
	EventFieldSeparator string
	EventSeparator      string
}

// DefaultConfig returns the standard wire separators.
func DefaultConfig() Config {
	return Config{
		ListSeparator:       model.ListSeparator,
		EventFieldSeparator: model.EventListSeparator1,
		EventSeparator:      model.EventListSeparator2,
	}
}

// BindOptions modify how Bind registers a key.
type BindOptions struct {
	Transient     bool // not persisted by the host
	WriteOnly     bool // reading it is misuse
	NotifyNow     bool // the binding listener is notified of its own default
	CppCantChange bool // advertised in System.KeysCppCantChange
}

// Stats summarizes the engine state.
type Stats struct {
	Keys      int `json:"keys"`
	Listeners int `json:"listeners"`
	Pending   int `json:"pending"`
	Outbound  int `json:"outbound"`
	Events    int `json:"events"`
	Polled    int `json:"polled"`
}

// Engine owns the key store, the notification index, the change batcher,
// the outbound event queue and the polled key set.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	store  keyStore
	index  notificationIndex
	batch  changeBatcher
	events eventQueue
	polled polledKeySet

	writeOnly map[string]struct{}
	transient map[string]struct{}

	handler  EventHandler
	draining bool
}

// New creates an Engine. Empty separators in cfg fall back to the defaults.
func New(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.ListSeparator == "" {
		cfg.ListSeparator = def.ListSeparator
	}
	if cfg.EventFieldSeparator == "" {
		cfg.EventFieldSeparator = def.EventFieldSeparator
	}
	if cfg.EventSeparator == "" {
		cfg.EventSeparator = def.EventSeparator
	}
	return &Engine{
		cfg:       cfg,
		logger:    logger,
		store:     newKeyStore(),
		index:     newNotificationIndex(),
		batch:     newChangeBatcher(),
		polled:    newPolledKeySet(),
		writeOnly: make(map[string]struct{}),
		transient: make(map[string]struct{}),
	}
}

// Startup advertises the reserved list keys as host-immutable.
func (e *Engine) Startup() {
	e.AddToCppCantChange(model.KeySystemKeysCppCantChange, model.KeySystemKeysSentEachFrame)
}

// Bind links l to key and initializes key to def if it is unknown.
// Binding an existing key never changes its value.
func (e *Engine) Bind(key, def string, l Listener, opts BindOptions) {
	if key == "" {
		e.logger.Warn("bind dropped", "error", ErrEmptyKey, "default", def)
		return
	}
	if l != nil {
		e.index.add(key, l)
	}

	suppressed := l
	if opts.NotifyNow {
		suppressed = nil
	}
	if opts.WriteOnly {
		e.writeOnly[key] = struct{}{}
	}
	if opts.Transient {
		e.transient[key] = struct{}{}
	}
	if opts.CppCantChange {
		e.AddToCppCantChange(key)
	}

	if !e.store.has(key) {
		e.Update(key, def, suppressed)
	}
}

// Update writes value if it differs from the current value or key is new.
// suppressed, if non-nil, is not notified of this change.
func (e *Engine) Update(key, value string, suppressed Listener) {
	if key == "" {
		e.logger.Warn("update dropped", "error", ErrEmptyKey, "value", value)
		return
	}
	if cur, ok := e.store.get(key); ok && cur == value {
		return
	}
	e.store.set(key, value)
	e.batch.stage(key, value)
	e.batch.enqueue(key, suppressed)
}

// AppendValue appends values joined by sep to the current value of key.
func (e *Engine) AppendValue(key string, values []string, sep string, suppressed Listener) {
	joined := strings.Join(values, sep)
	cur, _ := e.store.get(key)
	if cur != "" {
		joined = cur + sep + joined
	}
	e.Update(key, joined, suppressed)
}

// AddToCppCantChange appends keys to System.KeysCppCantChange. Keys already
// listed are skipped.
func (e *Engine) AddToCppCantChange(keys ...string) {
	cur, _ := e.store.get(model.KeySystemKeysCppCantChange)
	listed := strings.Split(cur, e.cfg.ListSeparator)
	var add []string
	for _, k := range keys {
		if k == "" || slices.Contains(listed, k) || slices.Contains(add, k) {
			continue
		}
		add = append(add, k)
	}
	if len(add) > 0 {
		e.AppendValue(model.KeySystemKeysCppCantChange, add, e.cfg.ListSeparator, nil)
	}
}

// Get returns the value of key. An empty key yields "". Unknown keys are
// logged and yield "".
func (e *Engine) Get(key string) string {
	if key == "" {
		return ""
	}
	if _, ok := e.writeOnly[key]; ok {
		e.logger.Warn("read of write-only key", "key", key)
	}
	v, ok := e.store.get(key)
	if !ok {
		e.logger.Error("read of unknown key", "key", key)
		return ""
	}
	return v
}

// Has reports whether key has been bound or updated.
func (e *Engine) Has(key string) bool {
	return e.store.has(key)
}

// IsTransient reports whether key was bound as transient.
func (e *Engine) IsTransient(key string) bool {
	_, ok := e.transient[key]
	return ok
}

// RemoveListener removes every link of l.
func (e *Engine) RemoveListener(l Listener) {
	if l == nil {
		return
	}
	n := e.index.remove(l)
	e.logger.Debug("listener removed", "item", l.Item(), "links", n)
}

// ApplyInboundBatch applies alternating key/value pairs from the host.
// Every applied key notifies all of its listeners on the next drain.
// An odd-length batch is rejected as a whole.
func (e *Engine) ApplyInboundBatch(pairs []string) error {
	if len(pairs)%2 != 0 {
		err := &BatchError{Op: "apply inbound batch", Len: len(pairs), Want: 2, Err: ErrOddChangeList}
		e.logger.Error("inbound batch rejected", "error", err)
		return err
	}
	for i := 0; i < len(pairs); i += 2 {
		key, value := pairs[i], pairs[i+1]
		if key == "" {
			e.logger.Warn("inbound pair dropped", "error", ErrEmptyKey, "value", value)
			continue
		}
		e.store.set(key, value)
		e.batch.enqueue(key, nil)
	}
	return nil
}

// SetEventHandler sets the receiver of inbound host events.
func (e *Engine) SetEventHandler(h EventHandler) {
	e.handler = h
}

// DispatchInboundEvents invokes the event handler once per
// (dispatch, sender, message, params) tuple, in order.
func (e *Engine) DispatchInboundEvents(quads []string) error {
	if len(quads)%4 != 0 {
		err := &BatchError{Op: "dispatch inbound events", Len: len(quads), Want: 4, Err: ErrBadEventListSize}
		e.logger.Error("inbound events rejected", "error", err)
		return err
	}
	for i := 0; i < len(quads); i += 4 {
		ev := model.Event{Dispatch: quads[i], Sender: quads[i+1], Message: quads[i+2], Params: quads[i+3]}
		if e.handler == nil {
			e.logger.Debug("no event handler", "message", ev.Message, "sender", ev.Sender)
			continue
		}
		e.handler(ev)
	}
	return nil
}

// DrainNotifications notifies listeners of pending changes in FIFO order.
// A listener is notified at most once per drain and never for a change it
// suppressed. Changes made by listeners during the drain are delivered in
// the same drain. It returns the number of listeners notified.
func (e *Engine) DrainNotifications() int {
	if e.draining {
		e.logger.Warn("nested drain ignored")
		return 0
	}
	e.draining = true
	defer func() { e.draining = false }()

	notified := make(map[Listener]struct{})
	for i := 0; i < len(e.batch.pending); i++ {
		pc := e.batch.pending[i]
		for _, l := range e.index.listeners(pc.key) {
			if _, done := notified[l]; done || l == pc.suppressed {
				continue
			}
			notified[l] = struct{}{}
			l.Updated()
		}
	}
	e.batch.pending = nil
	return len(notified)
}

// FlushOutbound returns and clears the outbound state diff and the
// serialized event log. The polled key list is staged first when it changed.
func (e *Engine) FlushOutbound() ([]string, string) {
	if keys, changed := e.polled.take(e.cfg.ListSeparator); changed {
		e.Update(model.KeySystemKeysSentEachFrame, keys, nil)
	}

	changes := e.batch.takeOutbound()
	events := model.EncodeEvents(e.events.take(), e.cfg.EventFieldSeparator, e.cfg.EventSeparator)
	if len(changes) > 0 || events != "" {
		e.logger.Debug("outbound flush", "changes", len(changes)/2, "events_bytes", len(events))
	}
	return changes, events
}

// RegisterPolledKey asks the host to push key every frame.
func (e *Engine) RegisterPolledKey(key string) {
	e.polled.register(key)
}

// UnregisterPolledKey drops one registration of key.
func (e *Engine) UnregisterPolledKey(key string) {
	if !e.polled.unregister(key) {
		e.logger.Warn("unregister of unknown polled key", "key", key)
	}
}

// PolledKeys returns the registered polled keys, sorted.
func (e *Engine) PolledKeys() []string {
	return e.polled.keys()
}

// ReportFailure logs an unrecoverable UI error and publishes it to the host
// through System.Error.Critical.
func (e *Engine) ReportFailure(message string) {
	e.logger.Error("ui failure", "message", message)
	e.Update(model.KeySystemErrorCritical, message, nil)
}

// ReportWarning publishes a non-fatal UI error through System.Error.Warning.
func (e *Engine) ReportWarning(message string) {
	e.logger.Warn("ui warning", "message", message)
	e.Update(model.KeySystemErrorWarning, message, nil)
}

// SendEvent queues an event for the host.
func (e *Engine) SendEvent(dispatch, sender, message, params string) {
	ev := model.Event{Dispatch: dispatch, Sender: sender, Message: message, Params: params}
	if !ev.IsNoisy() {
		e.logger.Info("event", "dispatch", dispatch, "sender", sender, "message", message, "params", params)
	}
	e.events.push(ev)
}

// Values returns entries whose key contains filter case-insensitively,
// sorted by key.
func (e *Engine) Values(filter string) []KeyValue {
	return e.store.matching(filter, nil)
}

// PersistentValues returns all non-transient entries, sorted by key.
func (e *Engine) PersistentValues() []KeyValue {
	return e.store.matching("", e.IsTransient)
}

// Stats returns counters describing the engine state.
func (e *Engine) Stats() Stats {
	return Stats{
		Keys:      e.store.len(),
		Listeners: len(e.index.byListener),
		Pending:   e.batch.pendingLen(),
		Outbound:  e.batch.outboundLen(),
		Events:    e.events.len(),
		Polled:    len(e.polled.counts),
	}
}
