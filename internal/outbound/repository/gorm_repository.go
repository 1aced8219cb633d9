package repository

import (
	"time"

	"mailgate-backend/internal/outbound/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormDeliveryRepository implements DeliveryRepository using GORM
type gormDeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new GORM-based DeliveryRepository
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &gormDeliveryRepository{db: db}
}

func (r *gormDeliveryRepository) Create(d *domain.QueuedDelivery) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Status == "" {
		d.Status = domain.DeliveryStatusPending
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	return r.db.Create(d).Error
}

func (r *gormDeliveryRepository) FindByID(id string) (*domain.QueuedDelivery, error) {
	var d domain.QueuedDelivery
	err := r.db.Where("id = ?", id).First(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *gormDeliveryRepository) FindDue(now time.Time) ([]*domain.QueuedDelivery, error) {
	var due []*domain.QueuedDelivery
	err := r.db.
		Where("status IN ?", []domain.DeliveryStatus{
			domain.DeliveryStatusPending,
			domain.DeliveryStatusRetry,
		}).
		Where("next_retry_at IS NULL OR next_retry_at <= ?", now).
		Order("created_at ASC").
		Find(&due).Error
	return due, err
}

// Claim is the queue's only concurrency-control primitive: a
// compare-and-set on the status column. The row moves to processing only
// if it still carries the status the caller saw, so concurrent sweeps
// never double-process a row.
func (r *gormDeliveryRepository) Claim(id string, from domain.DeliveryStatus) (bool, error) {
	res := r.db.Model(&domain.QueuedDelivery{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     domain.DeliveryStatusProcessing,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormDeliveryRepository) MarkSent(id string) error {
	return r.db.Model(&domain.QueuedDelivery{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        domain.DeliveryStatusSent,
			"last_error":    "",
			"next_retry_at": nil,
			"updated_at":    time.Now(),
		}).Error
}

func (r *gormDeliveryRepository) MarkRetry(id string, attempts int, lastErr string, nextRetryAt time.Time) error {
	return r.db.Model(&domain.QueuedDelivery{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        domain.DeliveryStatusRetry,
			"attempts":      attempts,
			"last_error":    lastErr,
			"next_retry_at": nextRetryAt,
			"updated_at":    time.Now(),
		}).Error
}

func (r *gormDeliveryRepository) MarkFailed(id string, attempts int, lastErr string) error {
	return r.db.Model(&domain.QueuedDelivery{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        domain.DeliveryStatusFailed,
			"attempts":      attempts,
			"last_error":    lastErr,
			"next_retry_at": nil,
			"updated_at":    time.Now(),
		}).Error
}
