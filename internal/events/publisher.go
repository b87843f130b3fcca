package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// SessionEventsTopic carries all session lifecycle events.
const SessionEventsTopic = "session-events"

// EventPublisher defines the interface for publishing session events
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, event *SessionEvent) error
	Close() error
}

// GoChannelEventPublisher implements EventPublisher on Watermill's
// in-process GoChannel transport. Sessions live in one process, so no
// broker is involved; subscribers attach through Subscriber().
type GoChannelEventPublisher struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewGoChannelEventPublisher creates a new in-process event publisher
func NewGoChannelEventPublisher(logger *slog.Logger) *GoChannelEventPublisher {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))

	return &GoChannelEventPublisher{
		pubSub: pubSub,
		logger: logger,
	}
}

// PublishSessionEvent publishes a session event to the session events topic
func (p *GoChannelEventPublisher) PublishSessionEvent(ctx context.Context, event *SessionEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("session_id", event.SessionID)
	msg.Metadata.Set("timestamp", event.Timestamp.Format("2006-01-02T15:04:05Z07:00"))

	if err := p.pubSub.Publish(SessionEventsTopic, msg); err != nil {
		p.logger.Error("Failed to publish session event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	p.logger.Debug("Published session event",
		"event_id", event.ID,
		"event_type", event.Type,
		"session_id", event.SessionID)

	return nil
}

// Subscriber exposes the transport for in-process consumers.
func (p *GoChannelEventPublisher) Subscriber() message.Subscriber {
	return p.pubSub
}

// Close closes the publisher and releases resources
func (p *GoChannelEventPublisher) Close() error {
	return p.pubSub.Close()
}

// MockEventPublisher is a mock implementation for testing
type MockEventPublisher struct {
	Events []SessionEvent
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{Events: make([]SessionEvent, 0)}
}

// PublishSessionEvent stores the event in memory (for testing)
func (m *MockEventPublisher) PublishSessionEvent(_ context.Context, event *SessionEvent) error {
	m.Events = append(m.Events, *event)
	return nil
}

// Close is a no-op for the mock publisher
func (m *MockEventPublisher) Close() error {
	return nil
}
