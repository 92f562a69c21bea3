package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishJSON(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var received *Event
	calls := 0
	bus.Subscribe(BookingCreated, func(event *Event) error {
		received = event
		calls++
		return nil
	})

	err := bus.PublishJSON(BookingCreated, "booking:7", BookingPayload{BookingID: 7, Status: "reserved"})
	require.NoError(t, err)

	require.Equal(t, 1, calls)
	assert.Equal(t, BookingCreated, received.Type)
	assert.Equal(t, "booking:7", received.Key)
	assert.NotEmpty(t, received.ID)
	assert.False(t, received.CreatedAt.IsZero())

	var payload BookingPayload
	require.NoError(t, json.Unmarshal(received.Payload, &payload))
	assert.Equal(t, uint(7), payload.BookingID)
}

func TestBusSubscribeAllAndErrors(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	var typed, all int

	bus.Subscribe(InvoicePaid, func(*Event) error { typed++; return errors.New("boom") })
	bus.SubscribeAll(func(*Event) error { all++; return nil })

	bus.Publish(&Event{Type: InvoicePaid})
	bus.Publish(&Event{Type: BookingCheckedIn})

	assert.Equal(t, 1, typed)
	assert.Equal(t, 2, all)
}

func TestNilBus(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() {
		bus.Publish(&Event{Type: "x"})
		assert.NoError(t, bus.PublishJSON("x", "k", nil))
	})
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherForwardsBusEvents(t *testing.T) {
	writer := &fakeWriter{}
	pub := NewKafkaPublisher(writer, "hotel.lifecycle", zerolog.Nop())
	bus := NewBus(zerolog.Nop())
	pub.Attach(bus)

	require.NoError(t, bus.PublishJSON(InvoicePaid, "invoice:3", InvoicePayload{InvoiceID: 3, Total: 300}))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "hotel.lifecycle", msg.Topic)
	assert.Equal(t, "invoice:3", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, InvoicePaid, string(msg.Headers[0].Value))

	var event Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, InvoicePaid, event.Type)

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherWriteError(t *testing.T) {
	pub := NewKafkaPublisher(&fakeWriter{err: errors.New("broker down")}, "t", zerolog.Nop())
	err := pub.Handle(&Event{Type: BookingCancelled, Key: "booking:1"})
	assert.ErrorContains(t, err, "broker down")
}
