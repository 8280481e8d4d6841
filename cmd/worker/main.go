package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ovchar/trainbook/config"
	"github.com/ovchar/trainbook/internal/email"
	"github.com/ovchar/trainbook/internal/kafka"
	"github.com/sirupsen/logrus"
)

// The worker consumes booking and payment notifications and hands them to
// the email sender. Booking expiry is deliberately not swept here: holds are
// checked lazily when payment is attempted.
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	sender := email.NewSender(logger)

	logger.WithField("topic", cfg.Kafka.NotificationsTopic).Info("notifications worker starting")

	if err := consumer.Consume(ctx, sender.Send); err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("consumer stopped")
	}
}
