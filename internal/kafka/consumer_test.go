package kafka

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type stubReader struct {
	messages []kafka.Message
	next     int
}

func (r *stubReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if r.next >= len(r.messages) {
		return kafka.Message{}, io.EOF
	}
	msg := r.messages[r.next]
	r.next++
	return msg, nil
}

func (r *stubReader) Close() error { return nil }

func TestConsumer_Consume_DecodesEvents(t *testing.T) {
	reader := &stubReader{messages: []kafka.Message{
		{Value: []byte(`{"type":"booking_created","booking_id":"b1","status":"pending"}`)},
		{Value: []byte(`{"type":"payment_succeeded","booking_id":"b1","payment_id":"p1","status":"succeeded"}`)},
	}}
	consumer := &Consumer{reader: reader, log: logrus.New()}

	var seen []BookingEvent
	err := consumer.Consume(context.Background(), func(ctx context.Context, event BookingEvent) error {
		seen = append(seen, event)
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	assert.Len(t, seen, 2)
	assert.Equal(t, "booking_created", seen[0].Type)
	assert.Equal(t, "b1", seen[0].BookingID)
	assert.Equal(t, "payment_succeeded", seen[1].Type)
	assert.Equal(t, "p1", seen[1].PaymentID)
}

func TestConsumer_Consume_SkipsUndecodable(t *testing.T) {
	reader := &stubReader{messages: []kafka.Message{
		{Value: []byte(`not json`)},
		{Value: []byte(`{"type":"booking_cancelled","booking_id":"b2","status":"cancelled"}`)},
	}}
	consumer := &Consumer{reader: reader, log: logrus.New()}

	var seen []BookingEvent
	err := consumer.Consume(context.Background(), func(ctx context.Context, event BookingEvent) error {
		seen = append(seen, event)
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	assert.Len(t, seen, 1)
	assert.Equal(t, "booking_cancelled", seen[0].Type)
}

func TestConsumer_Consume_HandlerErrorStops(t *testing.T) {
	reader := &stubReader{messages: []kafka.Message{
		{Value: []byte(`{"type":"booking_created","booking_id":"b1","status":"pending"}`)},
		{Value: []byte(`{"type":"booking_created","booking_id":"b2","status":"pending"}`)},
	}}
	consumer := &Consumer{reader: reader, log: logrus.New()}

	handlerErr := errors.New("mailer unavailable")
	calls := 0
	err := consumer.Consume(context.Background(), func(ctx context.Context, event BookingEvent) error {
		calls++
		return handlerErr
	})

	assert.ErrorIs(t, err, handlerErr)
	assert.Equal(t, 1, calls)
}
