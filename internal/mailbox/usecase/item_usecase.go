package usecase

import (
	"context"
	"fmt"
	"strings"

	"mailgate-backend/internal/mailbox/domain"
	"mailgate-backend/internal/mailbox/repository"
	"mailgate-backend/pkg/compose"
)

// DeliverySender hands composed messages to the outbound delivery
// pipeline. It is satisfied by the outbound usecase; the mailbox layer
// never talks SMTP itself.
type DeliverySender interface {
	EnqueueAndSend(ctx context.Context, userID uint, sender string, recipients []string, message []byte) ([]string, error)
}

// CreateItemRequest is a compose (save and/or send) request. When
// MimeContent is supplied it is used verbatim; otherwise a message is
// composed from the bodies.
type CreateItemRequest struct {
	To          []string
	Subject     string
	TextBody    string
	HTMLBody    string
	MimeContent []byte
	Send        bool
}

// ItemUsecase covers the item write paths of the core: composing new
// items and flipping the read flag.
type ItemUsecase interface {
	// CreateItem stores a new item for the user and, on send paths, hands
	// one delivery per recipient to the pipeline. Returns the stored
	// item's descriptor and the delivery ids (empty for pure saves).
	CreateItem(ctx context.Context, user *domain.User, req CreateItemRequest) (*domain.ItemDescriptor, []string, error)

	// SetItemRead updates the read flag of an item the user owns
	SetItemRead(user *domain.User, ref string, read bool) error

	// SetDeliverySender wires the outbound pipeline in
	SetDeliverySender(sender DeliverySender)
}

type itemUsecase struct {
	items    repository.ItemRepository
	registry Registry
	sender   DeliverySender
}

// NewItemUsecase creates the item write-path usecase.
func NewItemUsecase(items repository.ItemRepository, registry Registry) ItemUsecase {
	return &itemUsecase{items: items, registry: registry}
}

func (u *itemUsecase) SetDeliverySender(sender DeliverySender) {
	u.sender = sender
}

func (u *itemUsecase) CreateItem(ctx context.Context, user *domain.User, req CreateItemRequest) (*domain.ItemDescriptor, []string, error) {
	subject := req.Subject
	textBody := req.TextBody
	htmlBody := req.HTMLBody
	raw := req.MimeContent

	if len(raw) > 0 {
		// Client-supplied MIME is validated before anything is stored or
		// queued.
		parsed, err := compose.Parse(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrMalformedMessage, err)
		}
		if subject == "" {
			subject = parsed.Subject
		}
		if textBody == "" {
			textBody = parsed.TextBody
		}
		if htmlBody == "" {
			htmlBody = parsed.HTMLBody
		}
	} else {
		composed, err := compose.Message(compose.MessageOptions{
			From:     user.Email,
			To:       req.To,
			Subject:  subject,
			TextBody: textBody,
			HTMLBody: htmlBody,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("composing message: %w", err)
		}
		raw = composed
		if textBody == "" && htmlBody != "" {
			textBody = compose.HTMLToText(htmlBody)
		}
	}

	item := &domain.Item{
		SenderID: &user.ID,
		FromAddr: user.Email,
		ToAddr:   strings.Join(req.To, ", "),
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
		RawMime:  raw,
	}
	if err := u.items.Create(item); err != nil {
		return nil, nil, err
	}

	var deliveryIDs []string
	if req.Send {
		if u.sender == nil {
			return nil, nil, fmt.Errorf("no delivery sender configured")
		}
		ids, err := u.sender.EnqueueAndSend(ctx, user.ID, user.Email, req.To, raw)
		if err != nil {
			return nil, nil, err
		}
		deliveryIDs = ids
	}

	d := u.registry.DescribeItem(user, item)
	return &d, deliveryIDs, nil
}

func (u *itemUsecase) SetItemRead(user *domain.User, ref string, read bool) error {
	id, ok := domain.ParseItemReference(ref)
	if !ok {
		return fmt.Errorf("updating item %q: %w", ref, domain.ErrNotFound)
	}
	item, err := u.items.FindByIDForUser(id, user.ID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("updating item %q: %w", ref, domain.ErrNotFound)
	}
	return u.items.SetRead(id, read)
}
