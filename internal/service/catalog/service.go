package catalog

import (
	"context"

	"github.com/google/uuid"

	"msb-booking/internal/domain"
	"msb-booking/internal/repository"
)

type Service interface {
	ListBarbers(ctx context.Context) ([]domain.Barber, error)
	GetBarber(ctx context.Context, id uuid.UUID) (*domain.Barber, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

type service struct {
	catalogRepo repository.CatalogRepository
}

func NewService(catalogRepo repository.CatalogRepository) Service {
	return &service{catalogRepo: catalogRepo}
}

func (s *service) ListBarbers(ctx context.Context) ([]domain.Barber, error) {
	return s.catalogRepo.ListBarbers(ctx)
}

func (s *service) GetBarber(ctx context.Context, id uuid.UUID) (*domain.Barber, error) {
	barber, err := s.catalogRepo.GetBarber(ctx, id)
	if err != nil {
		return nil, err
	}
	if barber == nil || !barber.IsActive {
		return nil, domain.ErrNotFound
	}
	return barber, nil
}

func (s *service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.catalogRepo.ListServices(ctx)
}

func (s *service) GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	svc, err := s.catalogRepo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil || !svc.IsActive {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}
