package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Customer     CustomerRepository
	Appointment  AppointmentRepository
	Catalog      CatalogRepository
	Notification NotificationRepository
	Session      SessionRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Customer:     NewCustomerRepository(db),
		Appointment:  NewAppointmentRepository(db),
		Catalog:      NewCatalogRepository(db),
		Notification: NewNotificationRepository(db),
		Session:      NewSessionRepository(db),
	}
}
