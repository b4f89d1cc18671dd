package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"msb-booking/internal/domain"
)

type CatalogRepository interface {
	ListBarbers(ctx context.Context) ([]domain.Barber, error)
	GetBarber(ctx context.Context, id uuid.UUID) (*domain.Barber, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

type catalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListBarbers(ctx context.Context) ([]domain.Barber, error) {
	barbers := []domain.Barber{}
	err := r.db.SelectContext(ctx, &barbers, `SELECT * FROM barbers WHERE is_active = true ORDER BY name`)
	return barbers, err
}

func (r *catalogRepository) GetBarber(ctx context.Context, id uuid.UUID) (*domain.Barber, error) {
	var barber domain.Barber
	err := r.db.GetContext(ctx, &barber, `SELECT * FROM barbers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *catalogRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	services := []domain.Service{}
	err := r.db.SelectContext(ctx, &services, `SELECT * FROM services WHERE is_active = true ORDER BY price, name`)
	return services, err
}

func (r *catalogRepository) GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	var service domain.Service
	err := r.db.GetContext(ctx, &service, `SELECT * FROM services WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}
