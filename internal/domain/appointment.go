package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FixedAppointmentFee is charged on top of the service subtotal for every booking.
const FixedAppointmentFee = 10.0

type Appointment struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	CustomerID     uuid.UUID         `json:"customer_id" db:"customer_id"`
	BarberID       uuid.UUID         `json:"barber_id" db:"barber_id"`
	ServiceID      uuid.UUID         `json:"service_id" db:"service_id"`
	ScheduledDate  string            `json:"scheduled_date" db:"scheduled_date"`
	ScheduledTime  string            `json:"scheduled_time" db:"scheduled_time"`
	CustomerName   string            `json:"customer_name" db:"customer_name"`
	ContactNumber  *string           `json:"contact_number,omitempty" db:"contact_number"`
	Subtotal       float64           `json:"subtotal" db:"subtotal"`
	AppointmentFee float64           `json:"appointment_fee" db:"appointment_fee"`
	Total          float64           `json:"total" db:"total"`
	Status         AppointmentStatus `json:"status" db:"status"`
	ReceiptCode    string            `json:"receipt_code" db:"receipt_code"`
	PaymentMethod  *string           `json:"payment_method,omitempty" db:"payment_method"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`

	Service   *Service `json:"service,omitempty" db:"-"`
	CanCancel bool     `json:"can_cancel" db:"-"`
}

type CreateAppointmentInput struct {
	BarberID       uuid.UUID         `json:"barber_id" validate:"required"`
	ServiceID      uuid.UUID         `json:"service_id" validate:"required"`
	ScheduledDate  string            `json:"scheduled_date" validate:"required"`
	ScheduledTime  string            `json:"scheduled_time" validate:"required"`
	CustomerName   string            `json:"customer_name"`
	ContactNumber  *string           `json:"contact_number,omitempty"`
	Subtotal       float64           `json:"subtotal"`
	AppointmentFee float64           `json:"appointment_fee"`
	Total          float64           `json:"total"`
	Status         AppointmentStatus `json:"status,omitempty"`
	PaymentMethod  *string           `json:"payment_method,omitempty"`
}

func (in CreateAppointmentInput) Validate() error {
	if in.BarberID == uuid.Nil || in.ServiceID == uuid.Nil {
		return ErrMissingSelection
	}
	if strings.TrimSpace(in.ScheduledDate) == "" || strings.TrimSpace(in.ScheduledTime) == "" {
		return ErrMissingSelection
	}
	return nil
}

type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// BookingResult is returned for a persisted booking. PushError is
// informational and never turns a booking into a failure.
type BookingResult struct {
	Appointment *Appointment `json:"appointment"`
	PushSent    bool         `json:"push_sent"`
	PushError   string       `json:"push_error,omitempty"`
}

type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusApproved    AppointmentStatus = "Approved"
	StatusRescheduled AppointmentStatus = "Rescheduled"
	StatusCancelled   AppointmentStatus = "Cancelled"
	StatusCompleted   AppointmentStatus = "Completed"
	StatusNoShow      AppointmentStatus = "No Show"
)

var statusAliases = map[string]AppointmentStatus{
	"pending":     StatusPending,
	"approved":    StatusApproved,
	"confirmed":   StatusApproved,
	"rescheduled": StatusRescheduled,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
	"completed":   StatusCompleted,
	"no show":     StatusNoShow,
	"no_show":     StatusNoShow,
	"noshow":      StatusNoShow,
}

// ParseAppointmentStatus maps any casing or known alias onto the canonical status.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Canonical returns the canonical spelling, or the raw value when unknown.
func (s AppointmentStatus) Canonical() AppointmentStatus {
	if c, err := ParseAppointmentStatus(string(s)); err == nil {
		return c
	}
	return s
}

var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:     {StatusApproved, StatusRescheduled, StatusCancelled},
	StatusRescheduled: {StatusApproved, StatusCancelled},
	StatusApproved:    {StatusCompleted, StatusNoShow, StatusRescheduled},
	StatusCancelled:   nil,
	StatusCompleted:   nil,
	StatusNoShow:      nil,
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s.Canonical()] {
		if allowed == next.Canonical() {
			return true
		}
	}
	return false
}

// CanCancel is the customer cancellation policy. The API exposes it as
// can_cancel so the client's cancel button agrees with the server.
func (s AppointmentStatus) CanCancel() bool {
	switch s.Canonical() {
	case StatusCancelled, StatusNoShow, StatusApproved, StatusCompleted:
		return false
	}
	return true
}
