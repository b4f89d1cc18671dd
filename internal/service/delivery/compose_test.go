package delivery_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"msb-booking/internal/realtime"
	"msb-booking/internal/service/delivery"
)

func statusChange(from, to string) realtime.Event {
	return realtime.Event{
		Table: "appointments",
		Type:  realtime.Update,
		New:   json.RawMessage(`{"id":"a1","status":"` + to + `","scheduled_date":"2024-06-01","scheduled_time":"10:00","receipt_code":"MSB-0001"}`),
		Old:   json.RawMessage(`{"id":"a1","status":"` + from + `","scheduled_date":"2024-06-01","scheduled_time":"10:00","receipt_code":"MSB-0001"}`),
	}
}

func TestComposeNotificationInsert(t *testing.T) {
	c := delivery.ComposeMessage(realtime.Event{
		Table: "notifications",
		Type:  realtime.Insert,
		New:   json.RawMessage(`{"id":"n1","title":"Promo","description":"20% off Fridays"}`),
	})

	assert.Equal(t, "Promo", c.Title)
	assert.Equal(t, "20% off Fridays", c.Body)
	assert.Equal(t, "n1", c.Data["notification_id"])
}

func TestComposeSkipsAppointmentInboxRows(t *testing.T) {
	c := delivery.ComposeMessage(realtime.Event{
		Table: "notifications",
		Type:  realtime.Insert,
		New:   json.RawMessage(`{"id":"n2","title":"Appointment Booked","description":"Your booking MSB-0001 was received.","source":"appointment"}`),
	})

	assert.True(t, c.Empty())
}

func TestComposeAppointmentInsert(t *testing.T) {
	c := delivery.ComposeMessage(realtime.Event{
		Table: "appointments",
		Type:  realtime.Insert,
		New:   json.RawMessage(`{"id":"a1","status":"pending","scheduled_date":"2024-06-01","scheduled_time":"10:00"}`),
	})

	assert.Equal(t, "Appointment Booked", c.Title)
	assert.Contains(t, c.Body, "2024-06-01")
	assert.Contains(t, c.Body, "10:00")
}

func TestComposeStatusChanges(t *testing.T) {
	cases := []struct {
		from, to string
		title    string
	}{
		{"pending", "Approved", "Appointment Confirmed"},
		{"pending", "confirmed", "Appointment Confirmed"},
		{"pending", "Cancelled", "Appointment Cancelled"},
		{"pending", "cancelled", "Appointment Cancelled"},
		{"Approved", "Rescheduled", "Appointment Rescheduled"},
		{"Approved", "Completed", "Appointment Completed"},
	}

	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			c := delivery.ComposeMessage(statusChange(tc.from, tc.to))
			assert.Equal(t, tc.title, c.Title)
			assert.Equal(t, "MSB-0001", c.Data["receipt_code"])
		})
	}
}

func TestComposeStatusChangeSentinels(t *testing.T) {
	assert.True(t, delivery.ComposeMessage(statusChange("pending", "pending")).Empty())
	assert.True(t, delivery.ComposeMessage(statusChange("Cancelled", "cancelled")).Empty())
	assert.True(t, delivery.ComposeMessage(statusChange("Approved", "No Show")).Empty())
	assert.True(t, delivery.ComposeMessage(statusChange("Approved", "something-else")).Empty())
}

func TestComposeIgnoresOtherTables(t *testing.T) {
	c := delivery.ComposeMessage(realtime.Event{Table: "customers", Type: realtime.Update, New: json.RawMessage(`{}`)})
	assert.True(t, c.Empty())
}
