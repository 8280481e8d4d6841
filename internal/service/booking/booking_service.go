package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ovchar/trainbook/internal/domain"
	"github.com/ovchar/trainbook/internal/kafka"
	"github.com/ovchar/trainbook/internal/repository"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	Create(ctx context.Context, userID string, input CreateBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, userID, id string) (*domain.BookingDetails, error)
	List(ctx context.Context, userID string, page, limit int) (*BookingPage, error)
	Cancel(ctx context.Context, userID, id string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	TripID        string
	PassengerName string
	HasBicycle    bool
	HasDog        bool
}

type BookingPage struct {
	Items []domain.Booking
	Total int
}

type BookingService struct {
	bookings           repository.BookingRepository
	trips              repository.TripRepository
	stations           repository.StationRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	log                *logrus.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	trips repository.TripRepository,
	stations repository.StationRepository,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	log *logrus.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		trips:        trips,
		stations:     stations,
		producer:     producer,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
		log:          log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Create(ctx context.Context, userID string, input CreateBookingInput) (*domain.Booking, error) {
	trip, err := s.trips.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}

	if input.HasBicycle && !trip.BicyclesAllowed {
		return nil, domain.ErrBicyclesNotAllowed
	}
	if input.HasDog && !trip.DogsAllowed {
		return nil, domain.ErrDogsNotAllowed
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		ID:            uuid.NewString(),
		TripID:        trip.ID,
		UserID:        userID,
		PassengerName: input.PassengerName,
		HasBicycle:    input.HasBicycle,
		HasDog:        input.HasDog,
		Status:        domain.BookingStatusPending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.holdTTL),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"trip_id":    trip.ID,
		"user_id":    userID,
	}).Info("booking created")

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, userID, id string) (*domain.BookingDetails, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.ErrForbidden
	}

	trip, err := s.trips.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}
	origin, err := s.stations.GetByID(ctx, trip.OriginID)
	if err != nil {
		return nil, err
	}
	destination, err := s.stations.GetByID(ctx, trip.DestinationID)
	if err != nil {
		return nil, err
	}

	return &domain.BookingDetails{
		Booking:     *booking,
		Trip:        *trip,
		Origin:      *origin,
		Destination: *destination,
	}, nil
}

func (s *BookingService) List(ctx context.Context, userID string, page, limit int) (*BookingPage, error) {
	offset := (page - 1) * limit
	items, err := s.bookings.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.bookings.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BookingPage{Items: items, Total: total}, nil
}

func (s *BookingService) Cancel(ctx context.Context, userID, id string) error {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return domain.ErrForbidden
	}
	if booking.Status == domain.BookingStatusConfirmed {
		return domain.ErrBookingConfirmed
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    userID,
	}).Info("booking cancelled")

	booking.Status = domain.BookingStatusCancelled
	s.publish(ctx, "booking_cancelled", booking)
	return nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		TripID:    booking.TripID,
		UserID:    booking.UserID,
		Status:    string(booking.Status),
		ExpiresAt: booking.ExpiresAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		s.log.WithError(err).WithField("booking_id", booking.ID).Warnf("failed to publish %s event", eventType)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			s.log.WithError(err).WithField("booking_id", booking.ID).Warnf("failed to publish %s notification", eventType)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
