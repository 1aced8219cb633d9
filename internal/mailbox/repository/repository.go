package repository

import (
	"mailgate-backend/internal/mailbox/domain"
)

// UserRepository defines the interface for user account data access
type UserRepository interface {
	// Create creates a new user account
	Create(user *domain.User) error

	// FindByID finds a user by its storage key
	FindByID(id uint) (*domain.User, error)

	// FindByEmail finds a user by its mail address
	FindByEmail(email string) (*domain.User, error)
}

// ItemRepository defines the interface for mail item data access
type ItemRepository interface {
	// Create stores a new item and fills in its storage key
	Create(item *domain.Item) error

	// FindByID finds an item by storage key, regardless of owner
	FindByID(id uint) (*domain.Item, error)

	// FindByIDForUser finds an item by storage key if the user is its
	// sender or recipient
	FindByIDForUser(id, userID uint) (*domain.Item, error)

	// CountInScope counts the items selected by a folder's scope predicate
	CountInScope(kind domain.FolderKind, userID uint) (int64, error)

	// FindRecentInScope returns at most limit items from a folder's scope,
	// newest first. Ordering is stable for a fixed storage state.
	FindRecentInScope(kind domain.FolderKind, userID uint, limit int) ([]*domain.Item, error)

	// SetRead updates an item's read flag
	SetRead(id uint, read bool) error
}
