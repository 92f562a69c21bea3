package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	BookingCreated    = "booking_created"
	BookingCheckedIn  = "booking_checked_in"
	BookingCheckedOut = "booking_checked_out"
	BookingCancelled  = "booking_cancelled"
	InvoicePaid       = "invoice_paid"
	InvoiceEmailed    = "invoice_emailed"
)

// BookingPayload is the booking snapshot carried by booking_* events.
type BookingPayload struct {
	BookingID     uint      `json:"bookingId"`
	ReferenceCode string    `json:"referenceCode"`
	GuestID       uint      `json:"guestId"`
	RoomID        uint      `json:"roomId"`
	From          string    `json:"from,omitempty"`
	Status        string    `json:"status"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
}

// InvoicePayload is carried by invoice_* events.
type InvoicePayload struct {
	InvoiceID uint    `json:"invoiceId"`
	BookingID uint    `json:"bookingId"`
	Total     float64 `json:"total"`
	EmailedTo string  `json:"emailedTo,omitempty"`
}

// Event is a domain event. Key groups events of one entity for ordered delivery.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Handler reacts to an event.
type Handler func(event *Event) error

// Bus provides in-process pub/sub for events. Handlers run synchronously in Publish.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
	all         []Handler
	log         zerolog.Logger
}

func NewBus(log zerolog.Logger) *Bus {
	return &Bus{subscribers: make(map[string][]Handler), log: log}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler that sees every event.
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}

// Publish notifies subscribers. Handler errors are logged and do not stop delivery.
func (b *Bus) Publish(event *Event) {
	if b == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			b.log.Warn().Err(err).Str("event", event.Type).Str("key", event.Key).Msg("event handler failed")
		}
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *Bus) PublishJSON(eventType, key string, payload interface{}) error {
	if b == nil {
		return nil
	}
	event, err := NewJSONEvent(eventType, key, payload)
	if err != nil {
		return err
	}
	b.Publish(&event)
	return nil
}

// NewJSONEvent builds an Event with a JSON payload.
func NewJSONEvent(eventType, key string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{ID: uuid.NewString(), Type: eventType, Key: key, Payload: raw, CreatedAt: time.Now().UTC()}, nil
}
