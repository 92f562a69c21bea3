package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-backoffice/config"
	"hotel-backoffice/controllers"
	"hotel-backoffice/events"
	"hotel-backoffice/logging"
	"hotel-backoffice/mailer"
	"hotel-backoffice/metrics"
	"hotel-backoffice/routes"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load(utils.EnvOrDefault("CONFIG_PATH", "config.yaml"))
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	logger, logCloser, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to init logger")
	}
	defer logCloser.Close()
	log := *logger

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDatabase(*cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("database connect failed")
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}()
	log.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	if cfg.Monitoring.MetricsEnabled {
		metrics.Register()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus(log.With().Str("component", "events").Logger())
	if cfg.Kafka.Enabled {
		publisher := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers), cfg.Kafka.Topic,
			log.With().Str("component", "kafka").Logger())
		publisher.Attach(bus)
		defer publisher.Close()
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka publisher attached")
	}

	var hold services.RoomHold = services.NoopRoomHold{}
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer client.Close()
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, room holds will fail open")
		}
		pingCancel()
		hold = services.NewRedisRoomHold(client, cfg.Redis.HoldTTL, log.With().Str("component", "room_hold").Logger())
	}

	mailLog := log.With().Str("component", "mailer").Logger()
	mailPool := mailer.NewPool(cfg.Mail.Workers, cfg.Mail.QueueSize, mailer.NewSMTPSender(cfg.Mail, mailLog),
		mailer.RetryPolicy{MaxRetries: cfg.Mail.MaxRetries, InitialDelay: cfg.Mail.InitialDelay, MaxDelay: time.Minute, BackoffFactor: 2},
		mailLog)
	mailPool.Start(ctx)

	opts := []services.Option{
		services.WithLogger(log),
		services.WithEventBus(bus),
		services.WithRoomHold(hold),
		services.WithMailQueue(mailPool),
	}
	authService := services.NewAuthService(db, cfg.Auth, opts...)

	router := routes.SetupRouter(cfg, log, authService, routes.Controllers{
		Auth:         controllers.NewAuthController(authService),
		Bookings:     controllers.NewBookingController(services.NewBookingService(db, opts...)),
		Invoices:     controllers.NewInvoiceController(services.NewInvoiceService(db, opts...)),
		Rooms:        controllers.NewRoomController(services.NewRoomService(db, opts...)),
		RoomTypes:    controllers.NewRoomTypeController(services.NewRoomTypeService(db, opts...)),
		Housekeeping: controllers.NewHousekeepingController(services.NewHousekeepingService(db, opts...)),
		Maintenance:  controllers.NewMaintenanceController(services.NewMaintenanceService(db, opts...)),
		Feedback:     controllers.NewFeedbackController(services.NewFeedbackService(db, opts...)),
		Users:        controllers.NewUserController(services.NewUserService(db, opts...)),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.App.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	mailPool.Close()
	log.Info().Msg("server stopped")
}
