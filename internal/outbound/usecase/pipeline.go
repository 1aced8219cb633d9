package usecase

import (
	"context"
	"log"
	"time"

	"mailgate-backend/internal/outbound/domain"
	"mailgate-backend/internal/outbound/repository"
	"mailgate-backend/pkg/relay"
)

// RelayClient hands one composed message to one recipient's mail
// exchanger. Implemented by pkg/relay and stubbed in tests.
type RelayClient interface {
	Deliver(ctx context.Context, from, recipient string, message []byte) error
}

// Pipeline is the outbound delivery pipeline: durable enqueue plus a
// claim-and-relay sweep. ProcessQueue is the single processing primitive;
// the inline send path and the background sweep both go through it so
// retry semantics cannot diverge.
type Pipeline interface {
	// Enqueue persists one pending delivery per recipient and returns the
	// delivery ids
	Enqueue(userID uint, sender string, recipients []string, message []byte) ([]string, error)

	// EnqueueAndSend enqueues and immediately runs a queue pass
	EnqueueAndSend(ctx context.Context, userID uint, sender string, recipients []string, message []byte) ([]string, error)

	// ProcessQueue claims and relays every due delivery, returning how
	// many rows were processed. Safe to call concurrently.
	ProcessQueue(ctx context.Context) (int, error)

	// Receipt reports a delivery's current status, nil when unknown
	Receipt(id string) (*domain.DeliveryReceipt, error)
}

type pipeline struct {
	deliveries  repository.DeliveryRepository
	relay       RelayClient
	maxAttempts int
	backoffBase time.Duration
	now         func() time.Time
}

// NewPipeline creates the delivery pipeline. maxAttempts bounds transient
// retries; backoffBase is doubled on every further attempt.
func NewPipeline(deliveries repository.DeliveryRepository, relayClient RelayClient, maxAttempts int, backoffBase time.Duration) Pipeline {
	return &pipeline{
		deliveries:  deliveries,
		relay:       relayClient,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		now:         time.Now,
	}
}

func (p *pipeline) Enqueue(userID uint, sender string, recipients []string, message []byte) ([]string, error) {
	ids := make([]string, 0, len(recipients))
	for _, rcpt := range recipients {
		d := &domain.QueuedDelivery{
			UserID:    userID,
			Sender:    sender,
			Recipient: rcpt,
			Message:   message,
			Status:    domain.DeliveryStatusPending,
		}
		if err := p.deliveries.Create(d); err != nil {
			return ids, err
		}
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (p *pipeline) EnqueueAndSend(ctx context.Context, userID uint, sender string, recipients []string, message []byte) ([]string, error) {
	ids, err := p.Enqueue(userID, sender, recipients, message)
	if err != nil {
		return ids, err
	}
	if _, err := p.ProcessQueue(ctx); err != nil {
		log.Printf("[Pipeline] Inline queue pass failed: %v", err)
	}
	return ids, nil
}

func (p *pipeline) ProcessQueue(ctx context.Context) (int, error) {
	due, err := p.deliveries.FindDue(p.now())
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, d := range due {
		claimed, err := p.deliveries.Claim(d.ID, d.Status)
		if err != nil {
			return processed, err
		}
		if !claimed {
			// Another worker got there first.
			continue
		}
		p.process(ctx, d)
		processed++
	}
	return processed, nil
}

// process relays one claimed delivery and records the outcome. The row is
// in processing here; it leaves only to sent, retry or failed.
func (p *pipeline) process(ctx context.Context, d *domain.QueuedDelivery) {
	err := p.relay.Deliver(ctx, d.Sender, d.Recipient, d.Message)
	if err == nil {
		if err := p.deliveries.MarkSent(d.ID); err != nil {
			log.Printf("[Pipeline] Failed to mark delivery %s sent: %v", d.ID, err)
		}
		return
	}

	if relay.IsPermanent(err) {
		log.Printf("[Pipeline] Delivery %s to %s failed permanently: %v", d.ID, d.Recipient, err)
		if err := p.deliveries.MarkFailed(d.ID, d.Attempts, err.Error()); err != nil {
			log.Printf("[Pipeline] Failed to mark delivery %s failed: %v", d.ID, err)
		}
		return
	}

	attempts := d.Attempts + 1
	if attempts >= p.maxAttempts {
		log.Printf("[Pipeline] Delivery %s to %s exhausted %d attempts: %v", d.ID, d.Recipient, attempts, err)
		if err := p.deliveries.MarkFailed(d.ID, attempts, err.Error()); err != nil {
			log.Printf("[Pipeline] Failed to mark delivery %s failed: %v", d.ID, err)
		}
		return
	}

	next := p.now().Add(p.backoff(attempts))
	log.Printf("[Pipeline] Delivery %s to %s hit a transient failure (attempt %d), retrying at %s: %v",
		d.ID, d.Recipient, attempts, next.Format(time.RFC3339), err)
	if err := p.deliveries.MarkRetry(d.ID, attempts, err.Error(), next); err != nil {
		log.Printf("[Pipeline] Failed to mark delivery %s for retry: %v", d.ID, err)
	}
}

// backoff returns the exponential delay before the given attempt number.
func (p *pipeline) backoff(attempts int) time.Duration {
	delay := p.backoffBase
	for i := 1; i < attempts; i++ {
		delay *= 2
	}
	return delay
}

func (p *pipeline) Receipt(id string) (*domain.DeliveryReceipt, error) {
	d, err := p.deliveries.FindByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return &domain.DeliveryReceipt{DeliveryID: d.ID, Status: d.Status}, nil
}
