package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/uniride/uniride/internal/pkg/config"
	"github.com/uniride/uniride/internal/pkg/constants"
	"github.com/uniride/uniride/internal/pkg/database"
	"github.com/uniride/uniride/internal/pkg/eventbus"
	"github.com/uniride/uniride/internal/pkg/health"
	"github.com/uniride/uniride/internal/pkg/jwt"
	"github.com/uniride/uniride/internal/pkg/logger"
	"github.com/uniride/uniride/internal/pkg/middleware"
	natspkg "github.com/uniride/uniride/internal/pkg/nats"
	wspkg "github.com/uniride/uniride/internal/pkg/websocket"
	"github.com/uniride/uniride/services/booking"
	bookinggw "github.com/uniride/uniride/services/booking/gateway"
	bookinghandler "github.com/uniride/uniride/services/booking/handler"
	bookingrepo "github.com/uniride/uniride/services/booking/repository"
	bookinguc "github.com/uniride/uniride/services/booking/usecase"
	"github.com/uniride/uniride/services/presence"
	"github.com/uniride/uniride/services/presence/gateway"
	"github.com/uniride/uniride/services/presence/handler"
	"github.com/uniride/uniride/services/presence/repository"
	"github.com/uniride/uniride/services/presence/usecase"
)

// tokenIdentity serves the externally issued access token as the session
// credential.
type tokenIdentity struct {
	token string
}

func (t tokenIdentity) Credential(ctx context.Context, subjectID string) (*jwt.Credential, error) {
	return jwt.ParseCredential(t.token)
}

func main() {
	appName := "rider-daemon"
	configs := config.InitConfig(os.Getenv("CONFIG_PATH"))

	zapLogger, err := logger.NewZapLogger(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	logger.SetGlobalLogger(zapLogger)
	defer zapLogger.Close()

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("environment", configs.App.Environment))

	cred, err := jwt.ParseCredential(configs.Session.AccessToken)
	if err != nil {
		logger.Fatal("Invalid access token", logger.Err(err))
	}
	subjectID := cred.SubjectID

	// Backends are optional for a rider daemon; unset hosts are skipped.
	var redisClient *database.RedisClient
	if configs.Redis.Host != "" {
		redisClient, err = database.NewRedisClient(configs.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		defer redisClient.Close()
	}

	var postgresClient *database.PostgresClient
	if configs.Database.Host != "" {
		postgresClient, err = database.NewPostgresClient(configs.Database)
		if err != nil {
			logger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
		}
		defer postgresClient.Close()
	}

	var natsClient *natspkg.Client
	if configs.NATS.URL != "" {
		natsClient, err = natspkg.NewClient(configs.NATS.URL)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", logger.Err(err))
		}
		defer natsClient.Close()
	}

	bus := eventbus.New()
	session := wspkg.NewSession(configs.Session, bus, tokenIdentity{token: configs.Session.AccessToken})

	var presenceRepo presence.PresenceRepo
	if redisClient != nil {
		presenceRepo = repository.NewPresenceRepository(redisClient, configs.Location)
	}

	eventHandler := handler.NewEventHandler(bus, presenceRepo)
	eventHandler.Register()
	defer eventHandler.Unregister()

	deviceGW := gateway.NewDeviceGateway(configs.Location)
	publisher := usecase.NewPublisher(configs.Location, subjectID, deviceGW, session, presenceRepo)
	tracker := usecase.NewTracker(configs.Location, session)
	finder := usecase.NewFinder(configs.Location, presenceRepo, usecase.NewProximityIndex(configs.Location))

	var bookingUC booking.BookingUC
	if postgresClient != nil {
		var gw booking.BookingGW
		if natsClient != nil {
			gw = bookinggw.NewBookingGateway(natsClient)
		}
		bookingRepo := bookingrepo.NewBookingRepository(postgresClient.GetDB())
		bookingUC = bookinguc.NewBookingUC(bookingRepo, gw, bus)
	}

	ctx := context.Background()
	if err := session.Connect(ctx, subjectID); err != nil {
		logger.Warn("Initial connect failed, session will keep retrying", logger.Err(err))
	}
	defer session.Disconnect()

	if err := publisher.Start(ctx, configs.Location.PublishInterval); err != nil {
		logger.Warn("Location publishing disabled", logger.Err(err))
	} else {
		defer publisher.Stop()
	}

	// Once the session gives up reconnecting there is nothing left to
	// publish to.
	bus.Subscribe(constants.EventReconnectFailed, func(interface{}) {
		publisher.Stop()
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.RequestLoggerMiddleware())

	healthService := health.NewService(appName, func() string { return string(session.State()) })
	healthService.AddChecker("redis", health.NewRedisChecker(redisClient))
	healthService.AddChecker("postgres", health.NewPostgresChecker(postgresClient))
	healthService.AddChecker("nats", health.NewNATSChecker(natsClient))
	healthService.RegisterEndpoints(e)

	handler.NewHTTPHandler(tracker, finder).RegisterRoutes(e)
	if bookingUC != nil {
		bookinghandler.NewBookingHandler(bookingUC, subjectID).RegisterRoutes(e)
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", configs.Server.Host, configs.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down", logger.String("app", appName))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", logger.Err(err))
	}
}
