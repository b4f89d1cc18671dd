package service

import (
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"msb-booking/internal/config"
	"msb-booking/internal/device"
	"msb-booking/internal/push"
	"msb-booking/internal/realtime"
	"msb-booking/internal/repository"
	"msb-booking/internal/service/appointment"
	"msb-booking/internal/service/auth"
	"msb-booking/internal/service/booking"
	"msb-booking/internal/service/catalog"
	"msb-booking/internal/service/delivery"
	"msb-booking/internal/service/email"
	"msb-booking/internal/service/notification"
	"msb-booking/internal/service/otp"
	"msb-booking/internal/service/profile"
)

type Services struct {
	Auth         auth.Service
	Booking      booking.Service
	Appointment  appointment.Service
	Delivery     delivery.Service
	Notification notification.Service
	Catalog      catalog.Service
	Profile      profile.Service
	Email        email.Service
	OTP          otp.Service
}

// Infra is what the services need beyond the repositories.
type Infra struct {
	Redis   *redis.Client
	MinIO   *minio.Client
	Push    push.Sender
	Gateway *device.Gateway
	Hub     *realtime.Hub
}

func NewServices(repos *repository.Repositories, infra Infra, cfg *config.Config, logger *zap.Logger) *Services {
	emailService := email.NewService(cfg)
	otpService := otp.NewService(otp.NewRedisStore(infra.Redis), cfg.OTPTTL)
	authService := auth.NewService(repos.Customer, repos.Session, emailService, otpService, cfg, logger.Named("auth"))

	attempts := cfg.PushMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	deliveryService := delivery.NewService(
		repos.Customer,
		infra.Push,
		infra.Gateway,
		infra.Hub,
		delivery.Config{
			RemoteTimeout: cfg.PushTimeout * time.Duration(attempts),
			LocalTimeout:  cfg.LocalNotifyTimeout,
			StoreTimeout:  cfg.StoreTimeout,
		},
		logger.Named("delivery"),
	)

	bookingService := booking.NewService(repos.Appointment, repos.Customer, infra.Push, emailService, booking.Config{
		PushTimeout:  cfg.PushTimeout * time.Duration(attempts),
		StoreTimeout: cfg.StoreTimeout,
	}, logger.Named("booking"))
	appointmentService := appointment.NewService(repos.Appointment, deliveryService, cfg.StoreTimeout, logger.Named("appointment"))

	return &Services{
		Auth:         authService,
		Booking:      bookingService,
		Appointment:  appointmentService,
		Delivery:     deliveryService,
		Notification: notification.NewService(repos.Notification, infra.Gateway),
		Catalog:      catalog.NewService(repos.Catalog),
		Profile:      profile.NewService(repos.Customer, infra.MinIO, cfg),
		Email:        emailService,
		OTP:          otpService,
	}
}
