package mailer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"hotel-backoffice/config"
	"hotel-backoffice/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakySender struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []Message
}

func (s *flakySender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("smtp: 421 try again later")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *flakySender) snapshot() (int, []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, append([]Message(nil), s.sent...)
}

func TestRetryPolicyNextDelay(t *testing.T) {
	p := RetryPolicy{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, BackoffFactor: 2}
	assert.Equal(t, 100*time.Millisecond, p.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, p.NextDelay(2))
	assert.Equal(t, 400*time.Millisecond, p.NextDelay(3))
	assert.Equal(t, time.Second, p.NextDelay(10))
	assert.Equal(t, time.Second, RetryPolicy{}.NextDelay(0))
}

func TestPoolRetriesUntilSent(t *testing.T) {
	sender := &flakySender{failures: 2}
	pool := NewPool(1, 4, sender, RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond}, zerolog.Nop())
	pool.Start(context.Background())

	require.NoError(t, pool.Enqueue(Message{To: "guest@example.com", Subject: "hi"}))
	pool.Close()

	calls, sent := sender.snapshot()
	assert.Equal(t, 3, calls)
	require.Len(t, sent, 1)
	assert.Equal(t, "guest@example.com", sent[0].To)
}

func TestPoolGivesUpAfterMaxRetries(t *testing.T) {
	sender := &flakySender{failures: 100}
	pool := NewPool(1, 1, sender, RetryPolicy{MaxRetries: 2, InitialDelay: time.Millisecond}, zerolog.Nop())
	pool.Start(context.Background())

	require.NoError(t, pool.Enqueue(Message{To: "guest@example.com"}))
	pool.Close()

	calls, sent := sender.snapshot()
	assert.Equal(t, 3, calls)
	assert.Empty(t, sent)
}

func TestPoolEnqueueAfterClose(t *testing.T) {
	pool := NewPool(1, 1, &flakySender{}, RetryPolicy{}, zerolog.Nop())
	pool.Start(context.Background())
	pool.Close()
	pool.Close()

	assert.ErrorIs(t, pool.Enqueue(Message{}), ErrPoolClosed)
}

func TestPoolQueueFull(t *testing.T) {
	// not started, so nothing drains the queue
	pool := NewPool(1, 1, &flakySender{}, RetryPolicy{}, zerolog.Nop())
	require.NoError(t, pool.Enqueue(Message{To: "a@example.com"}))
	assert.ErrorIs(t, pool.Enqueue(Message{To: "b@example.com"}), ErrQueueFull)
}

func TestSMTPSenderWithoutCredentialsIsMock(t *testing.T) {
	sender := NewSMTPSender(config.MailConfig{}, zerolog.Nop())
	assert.NoError(t, sender.Send(context.Background(), Message{To: "guest@example.com"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, sender.Send(ctx, Message{To: "guest@example.com"}))
}

func TestBuildMIMEStripsHeaderInjection(t *testing.T) {
	raw := string(buildMIME("Hotel <desk@hotel.local>", Message{
		To:      "guest@example.com",
		Subject: "Invoice\r\nBcc: attacker@example.com",
		Text:    "body",
		HTML:    "<p>body</p>",
	}))
	assert.Contains(t, raw, "Subject: Invoice  Bcc: attacker@example.com\r\n")
	assert.Contains(t, raw, "text/html")
	assert.True(t, strings.HasSuffix(raw, "--\r\n"))
}

func TestInvoiceMessage(t *testing.T) {
	inv := models.Invoice{ID: 12, Items: []models.InvoiceItem{models.RoomChargeItem("101", 3, 100)}}
	inv.Recalculate()

	msg := InvoiceMessage("guest@example.com", "Ann <Guest>", inv)
	assert.Equal(t, "Your invoice #12", msg.Subject)
	assert.Contains(t, msg.Text, "Room 101 – 3 nights")
	assert.Contains(t, msg.Text, "Total: 300.00")
	assert.Contains(t, msg.HTML, "Ann &lt;Guest&gt;")
}
