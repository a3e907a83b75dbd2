package notifier

import (
	"context"
	"errors"
	"testing"

	"chatlink-auth/config"
	"chatlink-auth/entity"
	"chatlink-auth/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

type recordingSender struct {
	destination string
	message     string
	err         error
}

func (s *recordingSender) Send(_ context.Context, destination, message string) error {
	s.destination = destination
	s.message = message
	return s.err
}

func TestEmailSender_Send(t *testing.T) {
	dialer := &fakeDialer{}
	sender := &EmailSender{dialer: dialer, from: "no-reply@chatlink.local", subject: "ChatLink OTP Verification"}

	err := sender.Send(context.Background(), "a@x.com", OTPMessage("123456"))
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)

	m := dialer.sent[0]
	assert.Equal(t, []string{"a@x.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"no-reply@chatlink.local"}, m.GetHeader("From"))
	assert.Equal(t, []string{"ChatLink OTP Verification"}, m.GetHeader("Subject"))
}

func TestEmailSender_Send_Failure(t *testing.T) {
	sender := &EmailSender{dialer: &fakeDialer{err: errors.New("dial tcp: refused")}}

	err := sender.Send(context.Background(), "a@x.com", "body")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "smtp delivery failed")
}

func TestEmailSender_Send_CancelledContext(t *testing.T) {
	dialer := &fakeDialer{}
	sender := &EmailSender{dialer: dialer}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sender.Send(ctx, "a@x.com", "body"), context.Canceled)
	assert.Empty(t, dialer.sent)
}

func TestNewEmailSender(t *testing.T) {
	sender := NewEmailSender(config.Mail{Host: "smtp.example.com", Port: 587, From: "from@example.com", Subject: "subj"})

	assert.Equal(t, "from@example.com", sender.from)
	assert.Equal(t, "subj", sender.subject)
	d, ok := sender.dialer.(*gomail.Dialer)
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com", d.TLSConfig.ServerName)
}

func TestDispatcher_Send(t *testing.T) {
	email := &recordingSender{}
	sms := &recordingSender{}
	d := NewDispatcher(email, sms, logger.NewNop())

	require.NoError(t, d.Send(context.Background(), entity.ChannelEmail, "a@x.com", "hello"))
	assert.Equal(t, "a@x.com", email.destination)
	assert.Empty(t, sms.destination)

	require.NoError(t, d.Send(context.Background(), entity.ChannelSMS, "+1234567890", "hi"))
	assert.Equal(t, "+1234567890", sms.destination)
	assert.Equal(t, "hi", sms.message)
}

func TestDispatcher_Send_Errors(t *testing.T) {
	d := NewDispatcher(&recordingSender{err: errors.New("boom")}, NewLogSMSSender(logger.NewNop(), false), logger.NewNop())

	err := d.Send(context.Background(), entity.ChannelEmail, "a@x.com", "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email notification")

	err = d.Send(context.Background(), entity.DeliveryChannel("pigeon"), "roof", "hello")
	assert.Error(t, err)

	assert.NoError(t, d.Send(context.Background(), entity.ChannelSMS, "+1234567890", "hello"))
}

func TestLogSMSSender(t *testing.T) {
	message := OTPMessage("482913")

	tests := []struct {
		name          string
		revealMessage bool
		wantCode      bool
	}{
		{"production redacts the code", false, false},
		{"development shows the code", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

			require.NoError(t, NewLogSMSSender(log, tt.revealMessage).Send(context.Background(), "+1234567890", message))

			require.Equal(t, 1, logs.Len())
			fields := logs.All()[0].ContextMap()
			assert.Equal(t, "+1234567890", fields["destination"])
			_, hasMessage := fields["message"]
			assert.Equal(t, tt.wantCode, hasMessage)
			for _, v := range fields {
				if s, ok := v.(string); ok && !tt.wantCode {
					assert.NotContains(t, s, "482913")
				}
			}
		})
	}
}
