package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Mailer is the outbound delivery port. The default implementation only logs;
// a real SMTP/SES sender plugs in behind the same interface.
type Mailer interface {
	Send(ctx context.Context, topic string, payload []byte) error
}

type LogMailer struct{}

func NewLogMailer() Mailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(_ context.Context, topic string, payload []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		slog.Warn("notification payload is not valid JSON", "topic", topic)
		fields = map[string]any{"raw": string(payload)}
	}
	slog.Info("notification sent", "topic", topic, "payload", fields)
	return nil
}
