package notifier

import (
	"context"

	"chatlink-auth/pkg/logger"
)

// LogSMSSender writes SMS messages to the log instead of a gateway.
// The message body, which carries the code, is only logged when revealMessage is set.
type LogSMSSender struct {
	logger        *logger.Logger
	revealMessage bool
}

func NewLogSMSSender(logger *logger.Logger, revealMessage bool) *LogSMSSender {
	return &LogSMSSender{logger: logger, revealMessage: revealMessage}
}

func (s *LogSMSSender) Send(_ context.Context, destination, message string) error {
	if s.revealMessage {
		s.logger.Infow("SMS message", "destination", destination, "message", message)
		return nil
	}
	s.logger.Infow("SMS message", "destination", destination, "length", len(message))
	return nil
}
