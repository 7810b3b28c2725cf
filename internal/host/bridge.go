// Package host carries frames between the game host and the UI engine.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/jmylchreest/uisync/internal/model"
)

// Topics.
const (
	TopicHostFrames = "uisync.host.frames"
	TopicUINews     = "uisync.ui.news"
)

// Envelope types.
const (
	TypeHostFrame   = "host.frame"
	TypeNewsRequest = "news.request"
	TypeNewsFrame   = "ui.news"
)

// Envelope wraps a typed payload on the bus.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope encodes v as the payload of an envelope of type typ.
func NewEnvelope(typ string, v any) (Envelope, error) {
	env := Envelope{Type: typ}
	if v == nil {
		return env, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", typ, err)
	}
	env.Payload = b
	return env, nil
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// ParseEnvelope reads the envelope carried by msg.
func ParseEnvelope(msg *message.Message) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("parse envelope %s: %w", msg.UUID, err)
	}
	return env, nil
}

// NewsPublisher receives the news frames produced by a session.
type NewsPublisher interface {
	PublishNews(f model.NewsFrame) error
}

// Bridge is an in-process pub/sub between the transport goroutines and the
// session goroutine. Publishing blocks until the subscriber acks, which keeps
// frames in order. Subscribe before publishing: messages without a
// subscriber are dropped.
type Bridge struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// NewBridge creates a Bridge.
func NewBridge(logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	ps := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		BlockPublishUntilSubscriberAck: true,
	}, watermill.NewSlogLogger(logger.With("component", "bridge")))
	return &Bridge{pubsub: ps, logger: logger}
}

func (b *Bridge) publish(topic, typ string, v any) error {
	env, err := NewEnvelope(typ, v)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := b.pubsub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// PublishHostFrame sends an inbound frame to the session.
func (b *Bridge) PublishHostFrame(f model.HostFrame) error {
	return b.publish(TopicHostFrames, TypeHostFrame, f)
}

// RequestNews asks the session to flush its outbound batch.
func (b *Bridge) RequestNews() error {
	return b.publish(TopicHostFrames, TypeNewsRequest, nil)
}

// PublishNews sends an outbound frame to the host writer.
func (b *Bridge) PublishNews(f model.NewsFrame) error {
	return b.publish(TopicUINews, TypeNewsFrame, f)
}

// SubscribeHost returns the inbound message stream.
func (b *Bridge) SubscribeHost(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicHostFrames)
}

// SubscribeNews returns the outbound message stream.
func (b *Bridge) SubscribeNews(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicUINews)
}

// Close shuts the pub/sub down and closes all subscriptions.
func (b *Bridge) Close() error {
	return b.pubsub.Close()
}
