package email

import (
	"context"

	"github.com/ovchar/trainbook/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender is a stand-in for a real mail integration: it records what would
// have been sent so the worker pipeline can be observed end to end.
type Sender struct {
	log *logrus.Logger
}

func NewSender(log *logrus.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.WithFields(logrus.Fields{
		"type":       event.Type,
		"booking_id": event.BookingID,
		"user_id":    event.UserID,
		"status":     event.Status,
	}).Info("sending booking notification email")
	return nil
}
