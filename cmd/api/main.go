package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"msb-booking/internal/config"
	"msb-booking/internal/device"
	"msb-booking/internal/domain"
	"msb-booking/internal/handler"
	"msb-booking/internal/middleware"
	"msb-booking/internal/pkg/retry"
	"msb-booking/internal/realtime"
	"msb-booking/internal/repository"
	"msb-booking/internal/service"
	"msb-booking/internal/service/auth"
)

const sessionSweepInterval = time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	zlog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redis.Close()

	minioClient, err := config.NewMinIOClient(cfg, zlog)
	if err != nil {
		zlog.Warn("Failed to connect to MinIO, avatar upload will not work", zap.Error(err))
	}

	hub := realtime.NewHub(zlog.Named("realtime"))
	go hub.Run(ctx, cfg.DatabaseURL, cfg.RealtimeChannel, retry.Policy{Base: time.Second, Cap: time.Minute})

	gateway := device.NewGateway(zlog.Named("device"))

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, service.Infra{
		Redis:   redis,
		MinIO:   minioClient,
		Push:    config.NewPushSender(ctx, cfg, zlog.Named("push")),
		Gateway: gateway,
		Hub:     hub,
	}, cfg, zlog)
	defer services.Delivery.Close()

	handlers := handler.NewHandlers(services)

	go sweepSessions(ctx, repos.Session, zlog)

	deviceServer := &http.Server{
		Addr:              ":" + cfg.DevicePort,
		Handler:           deviceMux(gateway, services.Auth),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info("Device gateway starting", zap.String("port", cfg.DevicePort))
		if err := deviceServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("device gateway stopped", zap.Error(err))
		}
	}()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(zlog),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	go func() {
		<-ctx.Done()
		zlog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := deviceServer.Shutdown(shutdownCtx); err != nil {
			zlog.Warn("device gateway shutdown", zap.Error(err))
		}
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			zlog.Warn("api shutdown", zap.Error(err))
		}
	}()

	zlog.Info("Server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Error("Failed to start server", zap.Error(err))
	}
}

func deviceMux(gateway *device.Gateway, authService auth.Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", gateway.Handler(func(token string) (uuid.UUID, error) {
		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			return uuid.Nil, err
		}
		return claims.UserID, nil
	}))
	return mux
}

func sweepSessions(ctx context.Context, sessions repository.SessionRepository, zlog *zap.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.DeleteExpired(ctx); err != nil {
				zlog.Warn("expired session sweep failed", zap.Error(err))
			}
		}
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/verify-email", h.Auth.VerifyEmail)
	authGroup.Post("/resend-verification", h.Auth.ResendVerificationEmail)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)
	authGroup.Post("/logout", h.Auth.Logout)
	authGroup.Post("/forgot-password", h.Auth.ForgotPassword)
	authGroup.Post("/reset-password", h.Auth.ResetPassword)

	catalog := v1.Group("/catalog")
	catalog.Get("/barbers", h.Catalog.ListBarbers)
	catalog.Get("/barbers/:id", h.Catalog.GetBarber)
	catalog.Get("/services", h.Catalog.ListServices)
	catalog.Get("/services/:id", h.Catalog.GetService)

	protected := v1.Group("", middleware.AuthRequired(authService))

	profile := protected.Group("/profile")
	profile.Get("/", h.Profile.Get)
	profile.Put("/", h.Profile.Update)
	profile.Post("/avatar", h.Profile.UploadAvatar)

	devices := protected.Group("/devices")
	devices.Post("/start", h.Device.Start)
	devices.Post("/stop", h.Device.Stop)
	devices.Post("/test", h.Device.TestPush)

	appointments := protected.Group("/appointments")
	appointments.Post("/", h.Appointment.Book)
	appointments.Get("/", h.Appointment.ListMine)
	appointments.Post("/:id/cancel", h.Appointment.Cancel)
	appointments.Patch("/:id/status", middleware.RequireRole(domain.RoleStaff), h.Appointment.UpdateStatus)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Post("/mark-selected-read", h.Notification.MarkSelectedAsRead)
	notifications.Delete("/:id", h.Notification.Delete)
}
