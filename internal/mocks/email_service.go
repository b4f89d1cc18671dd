package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"msb-booking/internal/domain"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendVerificationCode(ctx context.Context, toEmail, fullName, code string) error {
	args := m.Called(ctx, toEmail, fullName, code)
	return args.Error(0)
}

func (m *EmailService) SendPasswordResetCode(ctx context.Context, toEmail, fullName, code string) error {
	args := m.Called(ctx, toEmail, fullName, code)
	return args.Error(0)
}

func (m *EmailService) SendBookingConfirmation(ctx context.Context, toEmail, fullName string, appt *domain.Appointment) error {
	args := m.Called(ctx, toEmail, fullName, appt)
	return args.Error(0)
}
