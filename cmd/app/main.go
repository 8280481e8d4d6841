package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovchar/trainbook/config"
	"github.com/ovchar/trainbook/internal/bootstrap"
	"github.com/ovchar/trainbook/internal/cache"
	"github.com/ovchar/trainbook/internal/kafka"
	"github.com/ovchar/trainbook/internal/repository"
	"github.com/ovchar/trainbook/internal/service/booking"
	"github.com/ovchar/trainbook/internal/service/catalog"
	"github.com/ovchar/trainbook/internal/service/payment"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	catalogCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.CatalogCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	stationRepo := repository.NewStationRepository(pool)
	tripRepo := repository.NewTripRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	catalogService := catalog.NewCatalogService(stationRepo, tripRepo, catalogCache, logger)
	bookingService := booking.NewBookingService(
		bookingRepo,
		tripRepo,
		stationRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
		logger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	processor := payment.NewSimulatedProcessor(cfg.Payment.SuccessRate, time.Duration(cfg.Payment.ProcessingDelayMs)*time.Millisecond)
	paymentService := payment.NewPaymentService(
		paymentRepo,
		bookingRepo,
		tripRepo,
		processor,
		producer,
		cfg.Kafka.BookingEventsTopic,
		logger,
		payment.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, logger, userRepo, catalogService, bookingService, paymentService); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}
