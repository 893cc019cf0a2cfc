package main

import (
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rental-service/config"
	"github.com/rentora/rental-service/internal/handler"
	"github.com/rentora/rental-service/internal/middleware"
	"github.com/rentora/rental-service/internal/models"
	"github.com/rentora/rental-service/internal/repository"
	"github.com/rentora/rental-service/internal/scheduler"
	"github.com/rentora/rental-service/internal/service"
	"github.com/rentora/rental-service/pkg/database"
	"github.com/rentora/rental-service/pkg/rabbitmq"
	"github.com/rentora/rental-service/pkg/token"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		logrus.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	txRunner := repository.NewTxRunner(db)

	// Services
	authSvc := service.NewAuthService(userRepo, tokens)
	userSvc := service.NewUserService(userRepo)
	vehicleSvc := service.NewVehicleService(vehicleRepo, bookingRepo)
	bookingSvc := service.NewBookingService(txRunner, bookingRepo, vehicleRepo, publisher)

	// Daily auto-return sweep
	cronRunner, err := scheduler.Start(cfg.AutoReturnSpec, cfg.Location(), scheduler.NewAutoReturnJob(bookingSvc))
	if err != nil {
		logrus.Fatalf("failed to start auto-return job: %v", err)
	}
	defer cronRunner.Stop()

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = handler.NewRequestValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logrus.WithFields(logrus.Fields{
				"method": v.Method,
				"uri":    v.URI,
				"status": v.Status,
			}).Info("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "rental-service"})
	})

	authRequired := middleware.Authenticate(tokens)
	adminOnly := middleware.Authenticate(tokens, models.RoleAdmin)

	api := e.Group("/api/v1")
	handler.NewAuthHandler(authSvc).RegisterRoutes(api.Group("/auth"))
	handler.NewUserHandler(userSvc).RegisterRoutes(api.Group("/users"), authRequired, adminOnly)
	handler.NewVehicleHandler(vehicleSvc).RegisterRoutes(api.Group("/vehicles"), adminOnly)
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(api.Group("/bookings"), authRequired)

	logrus.Infof("Rental Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
