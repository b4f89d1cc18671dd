package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"msb-booking/internal/domain"
)

type CatalogRepository struct {
	mock.Mock
}

func (m *CatalogRepository) ListBarbers(ctx context.Context) ([]domain.Barber, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Barber), args.Error(1)
}

func (m *CatalogRepository) GetBarber(ctx context.Context, id uuid.UUID) (*domain.Barber, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Barber), args.Error(1)
}

func (m *CatalogRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Service), args.Error(1)
}

func (m *CatalogRepository) GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}
