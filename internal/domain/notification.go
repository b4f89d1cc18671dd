package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationSource string

const (
	NotificationSourceStaff       NotificationSource = "staff"
	NotificationSourceAppointment NotificationSource = "appointment"
)

// Notification is one inbox entry. Rows are written by database triggers
// and staff tooling; customers only read, mark and delete them.
type Notification struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	UserID      uuid.UUID          `json:"user_id" db:"user_id"`
	Title       string             `json:"title" db:"title"`
	Description *string            `json:"description,omitempty" db:"description"`
	ReceiptCode *string            `json:"receipt_code,omitempty" db:"receipt_code"`
	Source      NotificationSource `json:"source" db:"source"`
	IsRead      bool               `json:"is_read" db:"is_read"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}

type MarkSelectedInput struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type UnreadCount struct {
	Count int64 `json:"count"`
}
