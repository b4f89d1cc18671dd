package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msb-booking/internal/config"
	"msb-booking/internal/domain"
)

type recordingSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (r *recordingSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	r.sent = append(r.sent, params)
	if r.err != nil {
		return nil, r.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func newTestService(sender *recordingSender) *service {
	return &service{
		client: sender,
		config: &config.Config{
			FromEmail:    "noreply@msb.test",
			OTPTTL:       10 * time.Minute,
			EmailTimeout: time.Second,
		},
	}
}

func TestSendVerificationCode(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(sender)

	require.NoError(t, svc.SendVerificationCode(context.Background(), "a@b.test", "Ana", "123456"))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"a@b.test"}, msg.To)
	assert.Equal(t, "MSB Barbershop <noreply@msb.test>", msg.From)
	assert.Equal(t, "Verify your email", msg.Subject)
	assert.Contains(t, msg.Html, "123456")
	assert.Contains(t, msg.Html, "10 minutes")
}

func TestSendBookingConfirmation(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(sender)

	appt := &domain.Appointment{
		ReceiptCode:   "MSB-0042",
		ScheduledDate: "2024-06-01",
		ScheduledTime: "10:00",
		Total:         260,
	}
	require.NoError(t, svc.SendBookingConfirmation(context.Background(), "a@b.test", "Ana", appt))

	msg := sender.sent[0]
	assert.Equal(t, "Booking received - MSB-0042", msg.Subject)
	assert.Contains(t, msg.Html, "MSB-0042")
	assert.Contains(t, msg.Html, "260.00")
}

func TestSendPropagatesProviderError(t *testing.T) {
	svc := newTestService(&recordingSender{err: errors.New("rate limited")})
	err := svc.SendPasswordResetCode(context.Background(), "a@b.test", "Ana", "654321")
	assert.EqualError(t, err, "rate limited")
}
