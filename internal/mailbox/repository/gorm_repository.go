package repository

import (
	"time"

	"mailgate-backend/internal/mailbox/domain"

	"gorm.io/gorm"
)

// gormUserRepository implements UserRepository using GORM
type gormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM-based UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(user *domain.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	return r.db.Create(user).Error
}

func (r *gormUserRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// gormItemRepository implements ItemRepository using GORM
type gormItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new GORM-based ItemRepository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &gormItemRepository{db: db}
}

// FolderScope returns the scope predicate for a distinguished folder as a
// GORM scope. Inbox-class folders select items addressed to the user, sent
// items selects items the user sent. The remaining mail-class folders are
// not backed by distinct storage yet and select the empty set.
func FolderScope(kind domain.FolderKind, userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch kind {
		case domain.FolderInbox:
			return db.Where("recipient_id = ?", userID)
		case domain.FolderSentItems:
			return db.Where("sender_id = ?", userID)
		default:
			return db.Where("1 = 0")
		}
	}
}

func (r *gormItemRepository) Create(item *domain.Item) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	return r.db.Create(item).Error
}

func (r *gormItemRepository) FindByID(id uint) (*domain.Item, error) {
	var item domain.Item
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormItemRepository) FindByIDForUser(id, userID uint) (*domain.Item, error) {
	var item domain.Item
	err := r.db.Where("id = ? AND (sender_id = ? OR recipient_id = ?)", id, userID, userID).
		First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormItemRepository) CountInScope(kind domain.FolderKind, userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&domain.Item{}).
		Scopes(FolderScope(kind, userID)).
		Count(&total).Error
	return total, err
}

func (r *gormItemRepository) FindRecentInScope(kind domain.FolderKind, userID uint, limit int) ([]*domain.Item, error) {
	var items []*domain.Item
	// Secondary order on id keeps the result stable when creation times tie.
	err := r.db.Scopes(FolderScope(kind, userID)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *gormItemRepository) SetRead(id uint, read bool) error {
	return r.db.Model(&domain.Item{}).Where("id = ?", id).
		Update("is_read", read).Error
}
