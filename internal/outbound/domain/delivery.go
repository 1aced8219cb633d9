package domain

import "time"

// DeliveryStatus is the lifecycle state of an outbound delivery. The exact
// vocabulary is persisted and reported on status interfaces, so it must
// not change. Transitions follow pending→processing→{sent,retry,failed}
// and retry→processing; sent and failed are terminal.
type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "pending"
	DeliveryStatusProcessing DeliveryStatus = "processing"
	DeliveryStatusRetry      DeliveryStatus = "retry"
	DeliveryStatusSent       DeliveryStatus = "sent"
	DeliveryStatusFailed     DeliveryStatus = "failed"
)

// QueuedDelivery is a durable outbound job: one recipient, one composed
// message. Rows are retained after reaching a terminal state for audit.
type QueuedDelivery struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index"`
	Sender      string         `json:"sender"`
	Recipient   string         `json:"recipient" gorm:"not null"`
	Message     []byte         `json:"-" gorm:"not null"`
	Attempts    int            `json:"attempts" gorm:"default:0"`
	Status      DeliveryStatus `json:"status" gorm:"index;default:pending"`
	LastError   string         `json:"last_error,omitempty"`
	NextRetryAt *time.Time     `json:"next_retry_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DeliveryReceipt is the neutral status view handed to wire adapters.
type DeliveryReceipt struct {
	DeliveryID string         `json:"delivery_id"`
	Status     DeliveryStatus `json:"status"`
}
