package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ovchar/trainbook/internal/domain"
	"github.com/ovchar/trainbook/internal/kafka"
	"github.com/ovchar/trainbook/internal/repository"
	"github.com/sirupsen/logrus"
)

type PaymentUseCase interface {
	Submit(ctx context.Context, userID, bookingID string, input SubmitPaymentInput) (*domain.Payment, error)
}

// Processor is the capability boundary to the payment gateway. The wired
// implementation is a simulator; a real integration replaces it without
// touching the reconciliation flow.
type Processor interface {
	Charge(ctx context.Context, source domain.PaymentSource, amount float64, currency string) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SubmitPaymentInput struct {
	Amount   float64
	Currency string
	Source   domain.PaymentSource
}

type PaymentService struct {
	payments           repository.PaymentRepository
	bookings           repository.BookingRepository
	trips              repository.TripRepository
	processor          Processor
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	log                *logrus.Logger
}

type PaymentServiceOption func(*PaymentService)

func WithNotificationsTopic(topic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.notificationsTopic = topic
	}
}

func NewPaymentService(
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	trips repository.TripRepository,
	processor Processor,
	producer Producer,
	bookingTopic string,
	log *logrus.Logger,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		payments:     payments,
		bookings:     bookings,
		trips:        trips,
		processor:    processor,
		producer:     producer,
		bookingTopic: bookingTopic,
		log:          log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *PaymentService) Submit(ctx context.Context, userID, bookingID string, input SubmitPaymentInput) (*domain.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.ErrForbidden
	}

	paid, err := s.payments.HasSucceeded(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, domain.ErrAlreadyPaid
	}

	if booking.Expired(time.Now()) {
		return nil, domain.ErrBookingExpired
	}

	trip, err := s.trips.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}
	if input.Amount != trip.Price {
		return nil, fmt.Errorf("%w of %.2f", domain.ErrAmountMismatch, trip.Price)
	}

	payment := &domain.Payment{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Source:    input.Source.Mask(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.payments.CreatePending(ctx, payment); err != nil {
		return nil, err
	}

	// An invocation error is not a decline: the payment stays pending and
	// the booking is untouched.
	approved, err := s.processor.Charge(ctx, input.Source, input.Amount, input.Currency)
	if err != nil {
		return nil, fmt.Errorf("payment processor: %w", err)
	}

	if err := s.payments.Finalize(ctx, payment, approved); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"booking_id": bookingID,
		"status":     payment.Status,
	}).Info("payment finalized")

	eventType := "payment_failed"
	if payment.Status == domain.PaymentStatusSucceeded {
		eventType = "payment_succeeded"
	}
	s.publish(ctx, eventType, booking, payment)

	return payment, nil
}

func (s *PaymentService) publish(ctx context.Context, eventType string, booking *domain.Booking, payment *domain.Payment) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		TripID:    booking.TripID,
		UserID:    booking.UserID,
		PaymentID: payment.ID,
		Status:    string(payment.Status),
		Amount:    payment.Amount,
		Currency:  payment.Currency,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		s.log.WithError(err).WithField("payment_id", payment.ID).Warnf("failed to publish %s event", eventType)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			s.log.WithError(err).WithField("payment_id", payment.ID).Warnf("failed to publish %s notification", eventType)
		}
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
