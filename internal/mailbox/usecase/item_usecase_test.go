package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mailgate-backend/internal/mailbox/domain"
	"mailgate-backend/internal/mailbox/repository"
	"mailgate-backend/internal/testutil"
)

// recordingSender captures EnqueueAndSend calls instead of relaying.
type recordingSender struct {
	mu         sync.Mutex
	recipients []string
	messages   [][]byte
}

func (s *recordingSender) EnqueueAndSend(ctx context.Context, userID uint, sender string, recipients []string, message []byte) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipients = append(s.recipients, recipients...)
	s.messages = append(s.messages, message)
	ids := make([]string, len(recipients))
	for i := range recipients {
		ids[i] = "delivery-id"
	}
	return ids, nil
}

func newItemFixture(t *testing.T) (ItemUsecase, *recordingSender, repository.UserRepository, repository.ItemRepository) {
	t.Helper()

	db := testutil.NewTestDB(t)
	users := repository.NewUserRepository(db)
	items := repository.NewItemRepository(db)
	registry := NewRegistry(items)
	uc := NewItemUsecase(items, registry)
	sender := &recordingSender{}
	uc.SetDeliverySender(sender)
	return uc, sender, users, items
}

func TestCreateItemSaveOnly(t *testing.T) {
	uc, sender, users, _ := newItemFixture(t)
	alice := seedUser(t, users, "alice@example.com")

	d, deliveryIDs, err := uc.CreateItem(context.Background(), alice, CreateItemRequest{
		To:       []string{"bob@example.org"},
		Subject:  "draft",
		TextBody: "body",
	})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}
	if len(deliveryIDs) != 0 {
		t.Errorf("pure save produced %d delivery ids", len(deliveryIDs))
	}
	if len(sender.recipients) != 0 {
		t.Errorf("pure save reached the pipeline: %v", sender.recipients)
	}
	if d.ParentFolderID != "DF_sentitems" {
		t.Errorf("stored item parent = %q, want DF_sentitems", d.ParentFolderID)
	}
	if len(d.MimeContent) == 0 {
		t.Error("stored item has no composed MIME")
	}
}

func TestCreateItemSendEnqueuesPerRecipient(t *testing.T) {
	uc, sender, users, _ := newItemFixture(t)
	alice := seedUser(t, users, "alice@example.com")

	_, deliveryIDs, err := uc.CreateItem(context.Background(), alice, CreateItemRequest{
		To:       []string{"bob@example.org", "carol@example.net"},
		Subject:  "hello",
		TextBody: "body",
		Send:     true,
	})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}
	if len(deliveryIDs) != 2 {
		t.Errorf("got %d delivery ids, want 2", len(deliveryIDs))
	}
	if len(sender.recipients) != 2 {
		t.Errorf("pipeline saw recipients %v, want 2", sender.recipients)
	}
}

func TestCreateItemRejectsMalformedMime(t *testing.T) {
	uc, sender, users, items := newItemFixture(t)
	alice := seedUser(t, users, "alice@example.com")

	_, _, err := uc.CreateItem(context.Background(), alice, CreateItemRequest{
		To:          []string{"bob@example.org"},
		MimeContent: []byte("this is not a header line\r\n\r\nbody"),
		Send:        true,
	})
	if !errors.Is(err, domain.ErrMalformedMessage) {
		t.Fatalf("err = %v, want ErrMalformedMessage", err)
	}
	if len(sender.recipients) != 0 {
		t.Error("malformed message reached the pipeline")
	}

	// Nothing may be stored either.
	count, err := items.CountInScope(domain.FolderSentItems, alice.ID)
	if err != nil {
		t.Fatalf("counting items: %v", err)
	}
	if count != 0 {
		t.Errorf("stored %d items for a rejected request", count)
	}
}

func TestCreateItemSuppliedMimeFillsFields(t *testing.T) {
	uc, _, users, _ := newItemFixture(t)
	alice := seedUser(t, users, "alice@example.com")

	raw := []byte("From: alice@example.com\r\n" +
		"To: bob@example.org\r\n" +
		"Subject: from the wire\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"wire body\r\n")
	d, _, err := uc.CreateItem(context.Background(), alice, CreateItemRequest{
		To:          []string{"bob@example.org"},
		MimeContent: raw,
	})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}
	if d.Subject != "from the wire" {
		t.Errorf("subject = %q, want the MIME header value", d.Subject)
	}
	if d.PlainBody == "" {
		t.Error("plain body not extracted from supplied MIME")
	}
}

func TestSetItemRead(t *testing.T) {
	uc, _, users, items := newItemFixture(t)
	alice := seedUser(t, users, "alice@example.com")
	bob := seedUser(t, users, "bob@example.com")
	item := seedInboxItem(t, items, alice, "unread")

	if err := uc.SetItemRead(alice, item.CanonicalID(), true); err != nil {
		t.Fatalf("marking read: %v", err)
	}
	got, err := items.FindByID(item.ID)
	if err != nil {
		t.Fatalf("finding item: %v", err)
	}
	if !got.IsRead {
		t.Error("item still unread after marking read")
	}

	if err := uc.SetItemRead(alice, item.CanonicalID(), false); err != nil {
		t.Fatalf("marking unread: %v", err)
	}
	got, _ = items.FindByID(item.ID)
	if got.IsRead {
		t.Error("item still read after marking unread")
	}

	// Other users cannot flip the flag.
	if err := uc.SetItemRead(bob, item.CanonicalID(), true); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-user update: err = %v, want ErrNotFound", err)
	}
}
