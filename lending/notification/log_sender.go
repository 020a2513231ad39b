package notification

import (
	"context"
	"log/slog"
)

const logMsgNotificationSent = "notification sent"

// LogSender writes notifications to the log. It is the Sender of deployments without a broker.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) LogSender {
	return LogSender{logger: logger}
}

// Send logs the notification at info level.
func (s LogSender) Send(ctx context.Context, notification Notification) error {
	s.logger.InfoContext(ctx, logMsgNotificationSent,
		logAttrKind, notification.Kind,
		logAttrPatronID, notification.PatronID,
		logAttrBookID, notification.BookID,
		"reservation_id", notification.ReservationID,
		"deadline", notification.Deadline,
	)

	return nil
}
