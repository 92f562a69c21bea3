package services

import (
	"time"

	"hotel-backoffice/events"
	"hotel-backoffice/mailer"

	"github.com/rs/zerolog"
)

// MailQueue accepts outgoing mail for asynchronous delivery.
type MailQueue interface {
	Enqueue(msg mailer.Message) error
}

// deps holds the collaborators shared by services. Zero values are safe.
type deps struct {
	log  zerolog.Logger
	bus  *events.Bus
	hold RoomHold
	mail MailQueue
	now  func() time.Time
}

// Option configures a service.
type Option func(*deps)

func WithLogger(log zerolog.Logger) Option {
	return func(d *deps) { d.log = log }
}

func WithEventBus(bus *events.Bus) Option {
	return func(d *deps) { d.bus = bus }
}

func WithRoomHold(hold RoomHold) Option {
	return func(d *deps) {
		if hold != nil {
			d.hold = hold
		}
	}
}

func WithMailQueue(q MailQueue) Option {
	return func(d *deps) { d.mail = q }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

func newDeps(opts []Option) deps {
	d := deps{log: zerolog.Nop(), hold: NoopRoomHold{}, now: time.Now}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func (d deps) publish(eventType, key string, payload interface{}) {
	if d.bus == nil {
		return
	}
	if err := d.bus.PublishJSON(eventType, key, payload); err != nil {
		d.log.Warn().Err(err).Str("event", eventType).Str("key", key).Msg("failed to publish event")
	}
}
