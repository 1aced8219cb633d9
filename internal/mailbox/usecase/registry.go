package usecase

import (
	"fmt"

	"mailgate-backend/internal/mailbox/domain"
	"mailgate-backend/internal/mailbox/repository"
	"mailgate-backend/pkg/compose"
)

// RootChildFolderCount is the fixed number of distinguished folders under
// the message folder root.
const RootChildFolderCount = 9

// Registry resolves protocol-neutral folder and item references. It holds
// no mutable state: every call is answered from the reference itself plus
// the current storage contents.
type Registry interface {
	// ResolveFolder resolves either reference form (distinguished name or
	// opaque id) to a descriptor with live counts
	ResolveFolder(user *domain.User, ref string) (*domain.FolderDescriptor, error)

	// ListChildFolders returns the descriptors of all folders under the
	// root, in fixed reporting order
	ListChildFolders(user *domain.User) ([]domain.FolderDescriptor, error)

	// ResolveItem resolves an item reference for a user
	ResolveItem(user *domain.User, ref string) (*domain.ItemDescriptor, error)

	// ListFolderItems returns descriptors for up to limit of the most
	// recently created items in a folder's scope
	ListFolderItems(user *domain.User, kind domain.FolderKind, limit int) ([]domain.ItemDescriptor, error)

	// CountFolderItems counts the items in a folder's scope
	CountFolderItems(user *domain.User, kind domain.FolderKind) (int64, error)

	// DescribeItem builds the neutral descriptor for a stored item
	DescribeItem(user *domain.User, item *domain.Item) domain.ItemDescriptor
}

type registry struct {
	items repository.ItemRepository
}

// NewRegistry creates the identity registry over the item store.
func NewRegistry(items repository.ItemRepository) Registry {
	return &registry{items: items}
}

func (r *registry) ResolveFolder(user *domain.User, ref string) (*domain.FolderDescriptor, error) {
	kind, ok := domain.ParseFolderReference(ref)
	if !ok {
		return nil, fmt.Errorf("resolving folder %q: %w", ref, domain.ErrNotFound)
	}
	return r.describeFolder(user, kind)
}

func (r *registry) describeFolder(user *domain.User, kind domain.FolderKind) (*domain.FolderDescriptor, error) {
	itemCount, err := r.items.CountInScope(kind, user.ID)
	if err != nil {
		return nil, err
	}

	childCount := 0
	if kind == domain.FolderRoot {
		childCount = RootChildFolderCount
	}

	return &domain.FolderDescriptor{
		CanonicalID:      kind.CanonicalID(),
		ParentID:         kind.ParentID(),
		Class:            kind.Class(),
		DisplayName:      kind.DisplayName(),
		ItemCount:        itemCount,
		ChildFolderCount: childCount,
	}, nil
}

func (r *registry) ListChildFolders(user *domain.User) ([]domain.FolderDescriptor, error) {
	folders := make([]domain.FolderDescriptor, 0, RootChildFolderCount)
	for _, kind := range domain.FolderKinds {
		if kind == domain.FolderRoot {
			continue
		}
		fd, err := r.describeFolder(user, kind)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *fd)
	}
	return folders, nil
}

func (r *registry) ResolveItem(user *domain.User, ref string) (*domain.ItemDescriptor, error) {
	id, ok := domain.ParseItemReference(ref)
	if !ok {
		return nil, fmt.Errorf("resolving item %q: %w", ref, domain.ErrNotFound)
	}
	item, err := r.items.FindByIDForUser(id, user.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("resolving item %q: %w", ref, domain.ErrNotFound)
	}
	d := r.DescribeItem(user, item)
	return &d, nil
}

func (r *registry) ListFolderItems(user *domain.User, kind domain.FolderKind, limit int) ([]domain.ItemDescriptor, error) {
	items, err := r.items.FindRecentInScope(kind, user.ID, limit)
	if err != nil {
		return nil, err
	}
	descriptors := make([]domain.ItemDescriptor, 0, len(items))
	for _, item := range items {
		descriptors = append(descriptors, r.DescribeItem(user, item))
	}
	return descriptors, nil
}

func (r *registry) CountFolderItems(user *domain.User, kind domain.FolderKind) (int64, error) {
	return r.items.CountInScope(kind, user.ID)
}

func (r *registry) DescribeItem(user *domain.User, item *domain.Item) domain.ItemDescriptor {
	parent := domain.FolderSentItems
	if item.RecipientID != nil && *item.RecipientID == user.ID {
		parent = domain.FolderInbox
	}

	d := domain.ItemDescriptor{
		CanonicalID:    item.CanonicalID(),
		ParentFolderID: parent.CanonicalID(),
		Subject:        item.Subject,
		From:           item.FromAddr,
		To:             item.ToAddr,
		ReceivedAt:     item.CreatedAt,
		IsRead:         item.IsRead,
		Size:           len(item.RawMime),
		PlainBody:      item.TextBody,
		HTMLBody:       item.HTMLBody,
		MimeContent:    item.RawMime,
	}
	if d.Size == 0 {
		d.Size = len(item.TextBody) + len(item.HTMLBody)
	}

	if len(item.RawMime) > 0 {
		if parsed, err := compose.Parse(item.RawMime); err == nil {
			d.Headers = parsed.Headers
			d.HasAttachments = parsed.HasAttachments
		}
	}
	return d
}
