package delivery

import (
	"msb-booking/internal/domain"
	"msb-booking/internal/pkg/i18n"
	"msb-booking/internal/realtime"
)

// Composed is what a change event turns into. An empty title means the
// event is not worth notifying about.
type Composed struct {
	Title string
	Body  string
	Data  map[string]string
}

func (c Composed) Empty() bool {
	return c.Title == "" && c.Body == ""
}

type notificationRow struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	Description *string                   `json:"description"`
	ReceiptCode *string                   `json:"receipt_code"`
	Source      domain.NotificationSource `json:"source"`
}

type appointmentRow struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	ReceiptCode   string `json:"receipt_code"`
}

var statusKeys = map[domain.AppointmentStatus]string{
	domain.StatusApproved:    "appointment.approved",
	domain.StatusCancelled:   "appointment.cancelled",
	domain.StatusRescheduled: "appointment.rescheduled",
	domain.StatusCompleted:   "appointment.completed",
}

func ComposeMessage(e realtime.Event) Composed {
	switch {
	case e.Table == "notifications" && e.Type == realtime.Insert:
		return composeNotification(e)
	case e.Table == "appointments" && e.Type == realtime.Insert:
		return composeBooked(e)
	case e.Table == "appointments" && e.Type == realtime.Update:
		return composeStatusChange(e)
	}
	return Composed{}
}

func composeNotification(e realtime.Event) Composed {
	var row notificationRow
	if err := e.Decode(&row); err != nil {
		return Composed{}
	}
	// Appointment triggers write these; the appointment event was pushed already.
	if row.Source == domain.NotificationSourceAppointment {
		return Composed{}
	}

	c := Composed{
		Title: row.Title,
		Data:  map[string]string{"type": "notification", "notification_id": row.ID},
	}
	if row.Description != nil {
		c.Body = *row.Description
	}
	if row.ReceiptCode != nil {
		c.Data["receipt_code"] = *row.ReceiptCode
	}
	return c
}

func composeBooked(e realtime.Event) Composed {
	var row appointmentRow
	if err := e.Decode(&row); err != nil {
		return Composed{}
	}

	return Composed{
		Title: i18n.Translate(i18n.DefaultLocale, "appointment.booked.title"),
		Body:  i18n.Format(i18n.DefaultLocale, "appointment.booked.body", row.ScheduledDate, row.ScheduledTime),
		Data:  appointmentData(row),
	}
}

func composeStatusChange(e realtime.Event) Composed {
	var next, prev appointmentRow
	if err := e.Decode(&next); err != nil {
		return Composed{}
	}
	if len(e.Old) > 0 {
		if err := e.DecodeOld(&prev); err != nil {
			return Composed{}
		}
	}

	status := domain.AppointmentStatus(next.Status).Canonical()
	if status == domain.AppointmentStatus(prev.Status).Canonical() {
		return Composed{}
	}

	key, ok := statusKeys[status]
	if !ok {
		return Composed{}
	}

	return Composed{
		Title: i18n.Translate(i18n.DefaultLocale, key+".title"),
		Body:  i18n.Format(i18n.DefaultLocale, key+".body", next.ScheduledDate, next.ScheduledTime),
		Data:  appointmentData(next),
	}
}

func appointmentData(row appointmentRow) map[string]string {
	return map[string]string{
		"type":           "appointment",
		"appointment_id": row.ID,
		"receipt_code":   row.ReceiptCode,
		"status":         row.Status,
	}
}
