package mailer

import (
	"context"
	"errors"
	"sync"
	"time"

	"hotel-backoffice/metrics"

	"github.com/rs/zerolog"
)

var (
	ErrQueueFull  = errors.New("mail queue is full")
	ErrPoolClosed = errors.New("mail pool is closed")
)

// Pool delivers queued messages on a fixed set of workers, retrying failures with backoff.
type Pool struct {
	size   int
	jobs   chan Message
	sender Sender
	retry  RetryPolicy
	log    zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewPool(size, queueSize int, sender Sender, retry RetryPolicy, log zerolog.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = size
	}
	return &Pool{
		size:   size,
		jobs:   make(chan Message, queueSize),
		sender: sender,
		retry:  retry,
		log:    log,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.With().Int("worker", id).Logger()
	log.Debug().Msg("mail worker started")
	for {
		select {
		case msg, ok := <-p.jobs:
			if !ok {
				log.Debug().Msg("mail worker drained")
				return
			}
			p.deliver(ctx, log, msg)
		case <-ctx.Done():
			log.Debug().Msg("mail worker shutting down")
			return
		}
	}
}

func (p *Pool) deliver(ctx context.Context, log zerolog.Logger, msg Message) {
	attempts := p.retry.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		err := p.sender.Send(ctx, msg)
		if err == nil {
			metrics.IncMailDelivery("sent")
			log.Info().Str("to", msg.To).Str("subject", msg.Subject).Int("attempt", attempt).Msg("mail sent")
			return
		}
		if attempt == attempts {
			metrics.IncMailDelivery("failed")
			log.Error().Err(err).Str("to", msg.To).Int("attempts", attempt).Msg("mail delivery failed")
			return
		}

		metrics.IncMailDelivery("retry")
		delay := p.retry.NextDelay(attempt)
		log.Warn().Err(err).Str("to", msg.To).Dur("retry_in", delay).Msg("mail delivery failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// Enqueue queues a message without blocking.
func (p *Pool) Enqueue(msg Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for the queue to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
