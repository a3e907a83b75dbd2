// Package notifier delivers one-time codes to users. Delivery is fire and
// forget: callers log failures but never roll back an issued code because of them.
package notifier

import (
	"context"
	"fmt"

	"chatlink-auth/entity"
	"chatlink-auth/pkg/logger"
)

// Notifier sends a message to a destination over a channel.
type Notifier interface {
	Send(ctx context.Context, channel entity.DeliveryChannel, destination, message string) error
}

// Sender delivers over a single channel.
type Sender interface {
	Send(ctx context.Context, destination, message string) error
}

// Dispatcher routes a message to the sender registered for its channel.
type Dispatcher struct {
	senders map[entity.DeliveryChannel]Sender
	logger  *logger.Logger
}

// NewDispatcher creates a dispatcher with email and SMS senders.
func NewDispatcher(email, sms Sender, logger *logger.Logger) *Dispatcher {
	return &Dispatcher{
		senders: map[entity.DeliveryChannel]Sender{
			entity.ChannelEmail: email,
			entity.ChannelSMS:   sms,
		},
		logger: logger,
	}
}

func (d *Dispatcher) Send(ctx context.Context, channel entity.DeliveryChannel, destination, message string) error {
	sender, ok := d.senders[channel]
	if !ok || sender == nil {
		return fmt.Errorf("no sender registered for channel %q", channel)
	}

	if err := sender.Send(ctx, destination, message); err != nil {
		d.logger.Warnw("Failed to deliver notification", "channel", channel, "error", err)
		return fmt.Errorf("failed to send %s notification: %w", channel, err)
	}

	d.logger.Debugw("Notification delivered", "channel", channel)
	return nil
}

// OTPMessage renders the body sent with a one-time code.
func OTPMessage(code string) string {
	return fmt.Sprintf("Your OTP is %s", code)
}
