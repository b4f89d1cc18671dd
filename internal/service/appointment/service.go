package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"msb-booking/internal/domain"
	"msb-booking/internal/identity"
	"msb-booking/internal/pkg/i18n"
	"msb-booking/internal/repository"
	"msb-booking/internal/service/delivery"
)

type Service interface {
	ListMine(ctx context.Context) ([]domain.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Appointment, error)
}

type service struct {
	appointmentRepo repository.AppointmentRepository
	delivery        delivery.Service
	storeTimeout    time.Duration
	logger          *zap.Logger
}

func NewService(appointmentRepo repository.AppointmentRepository, deliverySvc delivery.Service, storeTimeout time.Duration, logger *zap.Logger) Service {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &service{
		appointmentRepo: appointmentRepo,
		delivery:        deliverySvc,
		storeTimeout:    storeTimeout,
		logger:          logger,
	}
}

// storeCtx bounds a single repository call.
func (s *service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (s *service) ListMine(ctx context.Context) ([]domain.Appointment, error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, user.ID)
}

func (s *service) list(ctx context.Context, customerID uuid.UUID) ([]domain.Appointment, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	appointments, err := s.appointmentRepo.ListByCustomer(storeCtx, customerID)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		appointments[i].CanCancel = appointments[i].Status.CanCancel()
	}
	return appointments, nil
}

// Cancel moves an owned appointment to Cancelled and returns the refreshed
// list. Statuses that block cancellation are rejected without a write.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) ([]domain.Appointment, error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}

	appt, err := s.fetch(ctx, func(ctx context.Context) (*domain.Appointment, error) {
		return s.appointmentRepo.GetByIDForCustomer(ctx, id, user.ID)
	})
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanCancel() {
		return nil, domain.ErrCancellationBlocked
	}

	if err := s.updateStatus(ctx, appt.ID, domain.StatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.notify(ctx, appt, "appointment.cancelled")

	return s.list(ctx, user.ID)
}

// UpdateStatus is the staff path for confirming, rescheduling and closing
// out appointments.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Appointment, error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	if !domain.RoleSatisfies(user.Role, string(domain.RoleStaff)) {
		return nil, domain.ErrForbidden
	}

	next, err := domain.ParseAppointmentStatus(status)
	if err != nil {
		return nil, err
	}

	appt, err := s.fetch(ctx, func(ctx context.Context) (*domain.Appointment, error) {
		return s.appointmentRepo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, appt.Status.Canonical(), next)
	}

	if err := s.updateStatus(ctx, appt.ID, next); err != nil {
		return nil, err
	}

	appt.Status = next
	appt.CanCancel = next.CanCancel()
	return appt, nil
}

func (s *service) fetch(ctx context.Context, get func(context.Context) (*domain.Appointment, error)) (*domain.Appointment, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	appt, err := get(storeCtx)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, domain.ErrNotFound
	}
	return appt, nil
}

func (s *service) updateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.appointmentRepo.UpdateStatus(storeCtx, id, status)
}

func (s *service) notify(ctx context.Context, appt *domain.Appointment, key string) {
	title := i18n.Translate(i18n.DefaultLocale, key+".title")
	body := i18n.Format(i18n.DefaultLocale, key+".body", appt.ScheduledDate, appt.ScheduledTime)
	data := map[string]string{
		"type":           "appointment",
		"appointment_id": appt.ID.String(),
		"receipt_code":   appt.ReceiptCode,
	}

	if _, err := s.delivery.SendPushNotification(ctx, title, body, data); err != nil {
		s.logger.Warn("cancellation notification failed",
			zap.String("appointment_id", appt.ID.String()),
			zap.Error(err),
		)
	}
}
