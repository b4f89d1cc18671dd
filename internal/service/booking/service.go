package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"msb-booking/internal/domain"
	"msb-booking/internal/identity"
	"msb-booking/internal/pkg/i18n"
	"msb-booking/internal/push"
	"msb-booking/internal/repository"
	"msb-booking/internal/service/email"
)

var ErrStoreRejected = errors.New("appointment store rejected the booking")

type Service interface {
	Book(ctx context.Context, input domain.CreateAppointmentInput) (*domain.BookingResult, error)
}

// Config bounds the outbound calls a booking makes. Zero values fall back
// to defaults.
type Config struct {
	PushTimeout  time.Duration
	StoreTimeout time.Duration
}

type service struct {
	appointmentRepo repository.AppointmentRepository
	customerRepo    repository.CustomerRepository
	pushSender      push.Sender
	emailSvc        email.Service
	cfg             Config
	logger          *zap.Logger
}

func NewService(
	appointmentRepo repository.AppointmentRepository,
	customerRepo repository.CustomerRepository,
	pushSender push.Sender,
	emailSvc email.Service,
	cfg Config,
	logger *zap.Logger,
) Service {
	if cfg.PushTimeout <= 0 {
		cfg.PushTimeout = 10 * time.Second
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	return &service{
		appointmentRepo: appointmentRepo,
		customerRepo:    customerRepo,
		pushSender:      pushSender,
		emailSvc:        emailSvc,
		cfg:             cfg,
		logger:          logger,
	}
}

// Book runs receipt code, insert and confirmation push strictly in that
// order. Only the first two can fail the booking.
func (s *service) Book(ctx context.Context, input domain.CreateAppointmentInput) (*domain.BookingResult, error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	code, err := s.nextReceiptCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreRejected, err)
	}

	status := domain.StatusPending
	if input.Status != "" {
		if status, err = domain.ParseAppointmentStatus(string(input.Status)); err != nil {
			return nil, err
		}
	}

	fee := input.AppointmentFee
	if fee == 0 {
		fee = domain.FixedAppointmentFee
	}

	appt := &domain.Appointment{
		ID:             uuid.New(),
		CustomerID:     user.ID,
		BarberID:       input.BarberID,
		ServiceID:      input.ServiceID,
		ScheduledDate:  input.ScheduledDate,
		ScheduledTime:  input.ScheduledTime,
		CustomerName:   input.CustomerName,
		ContactNumber:  input.ContactNumber,
		Subtotal:       input.Subtotal,
		AppointmentFee: fee,
		Total:          input.Subtotal + fee,
		Status:         status,
		ReceiptCode:    code,
		PaymentMethod:  input.PaymentMethod,
	}
	appt.CanCancel = appt.Status.CanCancel()

	if err := s.create(ctx, appt); err != nil {
		if repository.IsUniqueViolation(err) {
			s.logger.Warn("receipt code collision", zap.String("receipt_code", code))
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreRejected, err)
	}

	result := &domain.BookingResult{Appointment: appt}
	if err := s.sendBookedPush(ctx, user.ID, appt); err != nil {
		s.logger.Warn("booking push failed",
			zap.String("receipt_code", appt.ReceiptCode),
			zap.Error(err),
		)
		result.PushError = err.Error()
	} else {
		result.PushSent = true
	}

	go s.sendConfirmationEmail(identity.Detach(ctx), user, appt)

	return result, nil
}

func (s *service) create(ctx context.Context, appt *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	return s.appointmentRepo.Create(ctx, appt)
}

func (s *service) nextReceiptCode(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	latest, err := s.appointmentRepo.LatestReceiptCode(ctx)
	if err != nil {
		return "", err
	}
	if _, ok := parseReceiptCode(latest); latest != "" && !ok {
		s.logger.Warn("malformed latest receipt code, restarting sequence", zap.String("latest", latest))
	}
	return NextReceiptCode(latest), nil
}

var errNoPushToken = errors.New("customer has no push token")

func (s *service) sendBookedPush(ctx context.Context, customerID uuid.UUID, appt *domain.Appointment) error {
	lookupCtx, cancelLookup := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	token, err := s.customerRepo.GetPushToken(lookupCtx, customerID)
	cancelLookup()
	if err != nil {
		return fmt.Errorf("lookup push token: %w", err)
	}
	if token == "" {
		return errNoPushToken
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.PushTimeout)
	defer cancel()

	_, err = s.pushSender.Send(ctx, push.Message{
		Token: token,
		Title: i18n.Translate(i18n.DefaultLocale, "appointment.booked.title"),
		Body:  i18n.Format(i18n.DefaultLocale, "appointment.booked.receipt", appt.ReceiptCode),
		Data: map[string]string{
			"type":           "appointment",
			"appointment_id": appt.ID.String(),
			"receipt_code":   appt.ReceiptCode,
			"total":          strconv.FormatFloat(appt.Total, 'f', 2, 64),
		},
	})
	return err
}

func (s *service) sendConfirmationEmail(ctx context.Context, user identity.User, appt *domain.Appointment) {
	if user.Email == "" {
		return
	}
	if err := s.emailSvc.SendBookingConfirmation(ctx, user.Email, appt.CustomerName, appt); err != nil {
		s.logger.Warn("booking confirmation email failed",
			zap.String("receipt_code", appt.ReceiptCode),
			zap.Error(err),
		)
	}
}
