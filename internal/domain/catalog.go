package domain

import (
	"time"

	"github.com/google/uuid"
)

type Barber struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	PhotoURL  *string   `json:"photo_url,omitempty" db:"photo_url"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Service struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     *string   `json:"description,omitempty" db:"description"`
	Price           float64   `json:"price" db:"price"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
