package push

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msb-booking/internal/pkg/retry"
)

type fakeMessaging struct {
	calls int
	errs  []error
	last  *messaging.Message
}

func (f *fakeMessaging) Send(ctx context.Context, m *messaging.Message) (string, error) {
	f.calls++
	f.last = m
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return "", err
	}
	return "projects/msb/messages/1", nil
}

func TestFCMSendBuildsMessage(t *testing.T) {
	client := &fakeMessaging{}
	sender := NewFCMSender(client, time.Second, retry.Policy{MaxAttempts: 1})

	ticket, err := sender.Send(context.Background(), Message{
		Token: "device",
		Title: "Appointment Cancelled",
		Body:  "Your appointment was cancelled.",
		Data:  map[string]string{"appointment_id": "a1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "projects/msb/messages/1", ticket.ID)
	assert.Equal(t, "device", client.last.Token)
	assert.Equal(t, "Appointment Cancelled", client.last.Notification.Title)
	assert.Equal(t, "a1", client.last.Data["appointment_id"])
}

func TestFCMSendRetriesTransientFailures(t *testing.T) {
	client := &fakeMessaging{errs: []error{errors.New("unavailable")}}
	sender := NewFCMSender(client, time.Second, retry.Policy{MaxAttempts: 3, Base: time.Millisecond})

	_, err := sender.Send(context.Background(), Message{Token: "device"})

	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
}

func TestFCMSendWithoutClient(t *testing.T) {
	sender := NewFCMSender(nil, 0, retry.Policy{})
	_, err := sender.Send(context.Background(), Message{Token: "device"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
