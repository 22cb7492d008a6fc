package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/draftforge/content-platform/internal/core/ports"
	"github.com/draftforge/content-platform/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	deliverTimeout = 5 * time.Second
	maxAttempts    = 3
	retryBackoff   = 30 * time.Second
)

// EmailDispatcher retries failed verification emails on a fixed set of
// workers, sharded by recipient so that per-recipient ordering holds.
// Registration never blocks on it: handlers enqueue and move on.
type EmailDispatcher struct {
	workers []chan ports.PendingEmail
	sender  ports.EmailSender
	log     zerolog.Logger
}

// NewEmailDispatcher creates an EmailDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewEmailDispatcher(numWorkers int, sender ports.EmailSender, log zerolog.Logger) *EmailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &EmailDispatcher{
		workers: make([]chan ports.PendingEmail, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.PendingEmail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *EmailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an email to the worker responsible for its recipient. When
// the worker channel is full the email is dropped with a log line; a full
// retry queue must not back-pressure registration.
func (d *EmailDispatcher) Enqueue(email ports.PendingEmail) {
	select {
	case d.workers[d.shardIndex(email.Recipient)] <- email:
	default:
		d.log.Warn().Str("recipient", email.Recipient).Msg("email retry queue full, dropping")
	}
}

func (d *EmailDispatcher) runWorker(ctx context.Context, id int, ch chan ports.PendingEmail) {
	workerID := strconv.Itoa(id)
	for {
		metrics.EmailQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))

		select {
		case <-ctx.Done():
			return
		case email := <-ch:
			d.deliver(ctx, email)
		}
	}
}

func (d *EmailDispatcher) deliver(ctx context.Context, email ports.PendingEmail) {
	sendCtx, cancel := context.WithTimeout(ctx, deliverTimeout)
	err := d.sender.SendVerification(sendCtx, email.Recipient, email.Token)
	cancel()

	if err == nil {
		metrics.EmailDeliveriesTotal.WithLabelValues("sent").Inc()
		d.log.Info().Str("recipient", email.Recipient).Int("attempt", email.Attempt).Msg("verification email delivered")
		return
	}

	email.Attempt++
	if email.Attempt >= maxAttempts {
		metrics.EmailDeliveriesTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).Str("recipient", email.Recipient).Msg("verification email abandoned")
		return
	}

	metrics.EmailDeliveriesTotal.WithLabelValues("retried").Inc()
	d.log.Warn().Err(err).Str("recipient", email.Recipient).Int("attempt", email.Attempt).Msg("verification email failed, re-queueing")

	// Re-enqueue after a delay without holding up the worker.
	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(retryBackoff):
			d.Enqueue(email)
		}
	}()
}

// shardIndex maps a recipient to a worker via FNV-1a, keeping retries for
// the same address in order.
func (d *EmailDispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}
