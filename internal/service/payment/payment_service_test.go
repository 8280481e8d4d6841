package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ovchar/trainbook/internal/domain"
	"github.com/ovchar/trainbook/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) HasSucceeded(ctx context.Context, bookingID string) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) CreatePending(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Finalize(ctx context.Context, payment *domain.Payment, approved bool) error {
	args := m.Called(ctx, payment, approved)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) Search(ctx context.Context, filter repository.TripFilter, limit, offset int) ([]domain.Trip, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]domain.Trip), args.Error(1)
}

func (m *MockTripRepository) Count(ctx context.Context, filter repository.TripFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Charge(ctx context.Context, source domain.PaymentSource, amount float64, currency string) (bool, error) {
	args := m.Called(ctx, source, amount, currency)
	return args.Bool(0), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func cardSource() domain.PaymentSource {
	return domain.PaymentSource{
		Object:         domain.SourceTypeCard,
		Name:           "J. Doe",
		Number:         "4242424242424242",
		CVC:            "123",
		ExpMonth:       12,
		ExpYear:        time.Now().Year() + 2,
		AddressCountry: "DE",
	}
}

type paymentFixture struct {
	payments  *MockPaymentRepository
	bookings  *MockBookingRepository
	trips     *MockTripRepository
	processor *MockProcessor
	producer  *MockProducer
	service   *PaymentService
}

func newFixture() *paymentFixture {
	f := &paymentFixture{
		payments:  &MockPaymentRepository{},
		bookings:  &MockBookingRepository{},
		trips:     &MockTripRepository{},
		processor: &MockProcessor{},
		producer:  &MockProducer{},
	}
	f.service = NewPaymentService(f.payments, f.bookings, f.trips, f.processor, f.producer, "booking-events", logrus.New())
	return f
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:        "b1",
		TripID:    "t1",
		UserID:    "user-1",
		Status:    domain.BookingStatusPending,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
}

func TestPaymentService_Submit_Forbidden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(pendingBooking(), nil).Once()

	result, err := f.service.Submit(ctx, "intruder", "b1", SubmitPaymentInput{Amount: 50, Currency: "eur", Source: cardSource()})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	f.payments.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything)
}

func TestPaymentService_Submit_AlreadyPaid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(pendingBooking(), nil).Once()
	f.payments.On("HasSucceeded", ctx, "b1").Return(true, nil).Once()

	result, err := f.service.Submit(ctx, "user-1", "b1", SubmitPaymentInput{Amount: 50, Currency: "eur", Source: cardSource()})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
	f.payments.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything)
}

func TestPaymentService_Submit_ExpiredBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	booking := pendingBooking()
	booking.ExpiresAt = time.Now().Add(-time.Minute)
	f.bookings.On("GetByID", ctx, "b1").Return(booking, nil).Once()
	f.payments.On("HasSucceeded", ctx, "b1").Return(false, nil).Once()

	result, err := f.service.Submit(ctx, "user-1", "b1", SubmitPaymentInput{Amount: 50, Currency: "eur", Source: cardSource()})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrBookingExpired)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	f.payments.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything)
}

func TestPaymentService_Submit_AmountMismatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(pendingBooking(), nil).Once()
	f.payments.On("HasSucceeded", ctx, "b1").Return(false, nil).Once()
	f.trips.On("GetByID", ctx, "t1").Return(&domain.Trip{ID: "t1", Price: 50}, nil).Once()

	result, err := f.service.Submit(ctx, "user-1", "b1", SubmitPaymentInput{Amount: 49.99, Currency: "eur", Source: cardSource()})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrAmountMismatch)
	assert.Contains(t, err.Error(), "50.00")
	f.payments.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything)
}

func TestPaymentService_Submit_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	source := cardSource()

	f.bookings.On("GetByID", ctx, "b1").Return(pendingBooking(), nil).Once()
	f.payments.On("HasSucceeded", ctx, "b1").Return(false, nil).Once()
	f.trips.On("GetByID", ctx, "t1").Return(&domain.Trip{ID: "t1", Price: 50}, nil).Once()
	f.payments.On("CreatePending", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()
	f.processor.On("Charge", ctx, source, 50.0, "eur").Return(true, nil).Once()
	f.payments.On("Finalize", ctx, mock.AnythingOfType("*domain.Payment"), true).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).Status = domain.PaymentStatusSucceeded
		}).Return(nil).Once()
	f.producer.On("Publish", ctx, "booking-events", "b1", mock.Anything).Return(nil).Once()

	result, err := f.service.Submit(ctx, "user-1", "b1", SubmitPaymentInput{Amount: 50, Currency: "eur", Source: source})

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, result.Status)
	assert.Equal(t, "************4242", result.Source.Number)
	assert.Empty(t, result.Source.CVC)
	f.payments.AssertExpectations(t)
	f.processor.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func TestPaymentService_Submit_Declined(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	source := cardSource()

	f.bookings.On("GetByID", ctx, "b1").Return(pendingBooking(), nil).Once()
	f.payments.On("HasSucceeded", ctx, "b1").Return(false, nil).Once()
	f.trips.On("GetByID", ctx, "t1").Return(&domain.Trip{ID: "t1", Price: 50}, nil).Once()
	f.payments.On("CreatePending", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()
	f.processor.On("Charge", ctx, source, 50.0, "eur").Return(false, nil).Once()
	f.payments.On("Finalize", ctx, mock.AnythingOfType("*domain.Payment"), false).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).Status = domain.PaymentStatusFailed
		}).Return(nil).Once()
	f.producer.On("Publish", ctx, "booking-events", "b1", mock.Anything).Return(nil).Once()

	result, err := f.service.Submit(ctx, "user-1", "b1", SubmitPaymentInput{Amount: 50, Currency: "eur", Source: source})

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, result.Status)
}

func TestPaymentService_Submit_ProcessorError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	source := cardSource()

	f.bookings.On("GetByID", ctx, "b1").Return(pendingBooking(), nil).Once()
	f.payments.On("HasSucceeded", ctx, "b1").Return(false, nil).Once()
	f.trips.On("GetByID", ctx, "t1").Return(&domain.Trip{ID: "t1", Price: 50}, nil).Once()
	f.payments.On("CreatePending", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()
	f.processor.On("Charge", ctx, source, 50.0, "eur").Return(false, errors.New("gateway timeout")).Once()

	result, err := f.service.Submit(ctx, "user-1", "b1", SubmitPaymentInput{Amount: 50, Currency: "eur", Source: source})

	assert.Nil(t, result)
	assert.Error(t, err)
	f.payments.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything, mock.Anything)
}

func TestSimulatedProcessor_Charge(t *testing.T) {
	always := NewSimulatedProcessor(1.0, 0)
	approved, err := always.Charge(context.Background(), cardSource(), 50, "eur")
	assert.NoError(t, err)
	assert.True(t, approved)

	never := NewSimulatedProcessor(0, 0)
	approved, err = never.Charge(context.Background(), cardSource(), 50, "eur")
	assert.NoError(t, err)
	assert.False(t, approved)
}

func TestSimulatedProcessor_ContextCancelled(t *testing.T) {
	p := NewSimulatedProcessor(1.0, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Charge(ctx, cardSource(), 50, "eur")
	assert.ErrorIs(t, err, context.Canceled)
}
