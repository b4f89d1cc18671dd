package handler

import "msb-booking/internal/service"

type Handlers struct {
	Auth         *AuthHandler
	Catalog      *CatalogHandler
	Appointment  *AppointmentHandler
	Notification *NotificationHandler
	Profile      *ProfileHandler
	Device       *DeviceHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Catalog:      NewCatalogHandler(services.Catalog),
		Appointment:  NewAppointmentHandler(services.Booking, services.Appointment),
		Notification: NewNotificationHandler(services.Notification),
		Profile:      NewProfileHandler(services.Profile),
		Device:       NewDeviceHandler(services.Delivery),
	}
}
