package repository

import (
	"time"

	"mailgate-backend/internal/outbound/domain"
)

// DeliveryRepository defines the interface for queued delivery data access
type DeliveryRepository interface {
	// Create persists a new queued delivery
	Create(d *domain.QueuedDelivery) error

	// FindByID finds a delivery by id
	FindByID(id string) (*domain.QueuedDelivery, error)

	// FindDue returns deliveries in pending or retry whose next_retry_at
	// (if any) has elapsed
	FindDue(now time.Time) ([]*domain.QueuedDelivery, error)

	// Claim atomically transitions a row from its current status to
	// processing. Returns false when another worker claimed it first.
	Claim(id string, from domain.DeliveryStatus) (bool, error)

	// MarkSent records a successful relay, terminal
	MarkSent(id string) error

	// MarkRetry schedules another attempt after a backoff
	MarkRetry(id string, attempts int, lastErr string, nextRetryAt time.Time) error

	// MarkFailed records a terminal failure
	MarkFailed(id string, attempts int, lastErr string) error
}
