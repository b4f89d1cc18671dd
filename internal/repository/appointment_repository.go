package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"msb-booking/internal/domain"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	GetByIDForCustomer(ctx context.Context, id, customerID uuid.UUID) (*domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Appointment, error)
	LatestReceiptCode(ctx context.Context) (string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error
}

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

const appointmentColumns = `
	a.id, a.customer_id, a.barber_id, a.service_id, a.scheduled_date, a.scheduled_time,
	a.customer_name, a.contact_number, a.subtotal, a.appointment_fee, a.total, a.status,
	a.receipt_code, a.payment_method, a.created_at, a.updated_at`

// appointmentRow is an appointment joined with its service.
type appointmentRow struct {
	domain.Appointment
	ServiceName        sql.NullString  `db:"service_name"`
	ServiceDescription sql.NullString  `db:"service_description"`
	ServicePrice       sql.NullFloat64 `db:"service_price"`
	ServiceDuration    sql.NullInt64   `db:"service_duration_minutes"`
	ServiceActive      sql.NullBool    `db:"service_is_active"`
}

func (row appointmentRow) toDomain() domain.Appointment {
	appt := row.Appointment
	if row.ServiceName.Valid {
		svc := &domain.Service{
			ID:              appt.ServiceID,
			Name:            row.ServiceName.String,
			Price:           row.ServicePrice.Float64,
			DurationMinutes: int(row.ServiceDuration.Int64),
			IsActive:        row.ServiceActive.Bool,
		}
		if row.ServiceDescription.Valid {
			desc := row.ServiceDescription.String
			svc.Description = &desc
		}
		appt.Service = svc
	}
	return appt
}

func (r *appointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, customer_id, barber_id, service_id, scheduled_date, scheduled_time,
			customer_name, contact_number, subtotal, appointment_fee, total, status,
			receipt_code, payment_method
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		appt.ID, appt.CustomerID, appt.BarberID, appt.ServiceID, appt.ScheduledDate, appt.ScheduledTime,
		appt.CustomerName, appt.ContactNumber, appt.Subtotal, appt.AppointmentFee, appt.Total, appt.Status,
		appt.ReceiptCode, appt.PaymentMethod,
	).Scan(&appt.CreatedAt, &appt.UpdatedAt)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	var appt domain.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments a WHERE a.id = $1`

	err := r.db.GetContext(ctx, &appt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) GetByIDForCustomer(ctx context.Context, id, customerID uuid.UUID) (*domain.Appointment, error) {
	var appt domain.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments a WHERE a.id = $1 AND a.customer_id = $2`

	err := r.db.GetContext(ctx, &appt, query, id, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `,
			s.name AS service_name, s.description AS service_description, s.price AS service_price,
			s.duration_minutes AS service_duration_minutes, s.is_active AS service_is_active
		FROM appointments a
		LEFT JOIN services s ON s.id = a.service_id
		WHERE a.customer_id = $1
		ORDER BY a.created_at DESC`

	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, customerID); err != nil {
		return nil, err
	}

	appointments := make([]domain.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, row.toDomain())
	}
	return appointments, nil
}

// LatestReceiptCode returns the receipt code with the highest numeric
// suffix across all customers, or "" when none has been issued yet.
// Suffixes past 9999 are wider, so the order must be numeric.
func (r *appointmentRepository) LatestReceiptCode(ctx context.Context) (string, error) {
	var code string
	query := `
		SELECT receipt_code FROM appointments
		WHERE receipt_code ~ '^MSB-[0-9]+$'
		ORDER BY CAST(substring(receipt_code FROM 5) AS bigint) DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &code, query)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return code, err
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
