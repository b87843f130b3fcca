package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// AnalyticsSubscriber consumes session events and logs running aggregates.
// It is the only consumer of the session events topic in a single-process
// deployment.
type AnalyticsSubscriber struct {
	logger *slog.Logger

	sessionsExtracted int
	sessionsSubmitted int
	questionsServed   int
}

func NewAnalyticsSubscriber(logger *slog.Logger) *AnalyticsSubscriber {
	return &AnalyticsSubscriber{logger: logger}
}

// Run blocks consuming events until the context is cancelled or the
// subscription channel closes. Callers wanting it off the main goroutine
// start it with go.
func (a *AnalyticsSubscriber) Run(ctx context.Context, sub message.Subscriber) error {
	messages, err := sub.Subscribe(ctx, SessionEventsTopic)
	if err != nil {
		return err
	}

	for msg := range messages {
		a.handle(msg)
		msg.Ack()
	}

	return nil
}

func (a *AnalyticsSubscriber) handle(msg *message.Message) {
	var event SessionEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		a.logger.Warn("Dropping undecodable session event", "message_id", msg.UUID, "error", err)
		return
	}

	switch event.Type {
	case EventExtractionCompleted:
		a.sessionsExtracted++
		a.questionsServed += event.QuestionCount
		a.logger.Info("Session extracted",
			"session_id", event.SessionID,
			"title", event.Title,
			"questions", event.QuestionCount,
			"pages", event.PageCount,
			"total_sessions_extracted", a.sessionsExtracted)
	case EventSessionSubmitted:
		a.sessionsSubmitted++
		a.logger.Info("Session submitted",
			"session_id", event.SessionID,
			"correct", event.CorrectCount,
			"incorrect", event.IncorrectCount,
			"skipped", event.SkippedCount,
			"percentage", event.Percentage,
			"elapsed_seconds", event.ElapsedSeconds,
			"total_sessions_submitted", a.sessionsSubmitted)
	case EventSessionReset:
		a.logger.Info("Session reset", "session_id", event.SessionID)
	default:
		a.logger.Debug("Ignoring unknown session event type", "type", event.Type)
	}
}
