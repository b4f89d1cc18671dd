package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"msb-booking/internal/push"
	"msb-booking/internal/service/delivery"
)

type PushSender struct {
	mock.Mock
}

func (m *PushSender) Send(ctx context.Context, msg push.Message) (*push.Ticket, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*push.Ticket), args.Error(1)
}

type LocalNotifier struct {
	mock.Mock
}

func (m *LocalNotifier) ScheduleImmediate(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) error {
	args := m.Called(ctx, userID, title, body, data)
	return args.Error(0)
}

type DeliveryService struct {
	mock.Mock
}

func (m *DeliveryService) Start(ctx context.Context, pushToken string) {
	m.Called(ctx, pushToken)
}

func (m *DeliveryService) SetupRealtimeListeners(ctx context.Context) {
	m.Called(ctx)
}

func (m *DeliveryService) SendPushNotification(ctx context.Context, title, body string, data map[string]string) (*delivery.SendResult, error) {
	args := m.Called(ctx, title, body, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.SendResult), args.Error(1)
}

func (m *DeliveryService) Stop(ctx context.Context) {
	m.Called(ctx)
}

func (m *DeliveryService) Close() {
	m.Called()
}
