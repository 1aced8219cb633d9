package inbound

import (
	"errors"
	"strings"
	"testing"

	"mailgate-backend/internal/mailbox/domain"
	"mailgate-backend/internal/mailbox/repository"
	"mailgate-backend/internal/testutil"
	"mailgate-backend/pkg/compose"

	"github.com/emersion/go-smtp"
)

func newFixture(t *testing.T) (smtp.Session, repository.UserRepository, repository.ItemRepository) {
	t.Helper()

	db := testutil.NewTestDB(t)
	users := repository.NewUserRepository(db)
	items := repository.NewItemRepository(db)
	sess, err := NewBackend(users, items).NewSession(nil)
	if err != nil {
		t.Fatalf("starting session: %v", err)
	}
	return sess, users, items
}

func addUser(t *testing.T, users repository.UserRepository, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, DisplayName: email, PasswordHash: "x"}
	if err := users.Create(u); err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return u
}

func TestRcptRejectsUnknownMailbox(t *testing.T) {
	sess, _, _ := newFixture(t)

	err := sess.Rcpt("stranger@example.com", nil)
	if err == nil {
		t.Fatal("RCPT for unknown mailbox accepted")
	}
	var smtpErr *smtp.SMTPError
	if !errors.As(err, &smtpErr) {
		t.Fatalf("err = %T, want *smtp.SMTPError", err)
	}
	if smtpErr.Code != 550 {
		t.Errorf("reply code = %d, want 550", smtpErr.Code)
	}
}

func TestDataStoresItemForRecipient(t *testing.T) {
	sess, users, items := newFixture(t)
	bob := addUser(t, users, "bob@example.com")

	raw, err := compose.Message(compose.MessageOptions{
		From:     "alice@example.org",
		To:       []string{"bob@example.com"},
		Subject:  "inbound hello",
		TextBody: "hi bob",
	})
	if err != nil {
		t.Fatalf("composing message: %v", err)
	}

	if err := sess.Mail("alice@example.org", nil); err != nil {
		t.Fatalf("MAIL: %v", err)
	}
	if err := sess.Rcpt("bob@example.com", nil); err != nil {
		t.Fatalf("RCPT: %v", err)
	}
	if err := sess.Data(strings.NewReader(string(raw))); err != nil {
		t.Fatalf("DATA: %v", err)
	}

	stored, err := items.FindRecentInScope(domain.FolderInbox, bob.ID, 10)
	if err != nil {
		t.Fatalf("listing inbox: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d items, want 1", len(stored))
	}
	item := stored[0]
	if item.Subject != "inbound hello" {
		t.Errorf("subject = %q", item.Subject)
	}
	if item.FromAddr != "alice@example.org" {
		t.Errorf("from = %q", item.FromAddr)
	}
	if !strings.Contains(item.TextBody, "hi bob") {
		t.Errorf("text body = %q", item.TextBody)
	}
	if len(item.RawMime) == 0 {
		t.Error("raw message not retained")
	}
	if item.IsRead {
		t.Error("freshly received item marked read")
	}
}

func TestDataFansOutToEveryRecipient(t *testing.T) {
	sess, users, items := newFixture(t)
	bob := addUser(t, users, "bob@example.com")
	carol := addUser(t, users, "carol@example.com")

	if err := sess.Mail("alice@example.org", nil); err != nil {
		t.Fatalf("MAIL: %v", err)
	}
	for _, rcpt := range []string{"bob@example.com", "carol@example.com"} {
		if err := sess.Rcpt(rcpt, nil); err != nil {
			t.Fatalf("RCPT %s: %v", rcpt, err)
		}
	}
	if err := sess.Data(strings.NewReader("Subject: fan out\r\n\r\nbody\r\n")); err != nil {
		t.Fatalf("DATA: %v", err)
	}

	for _, u := range []*domain.User{bob, carol} {
		count, err := items.CountInScope(domain.FolderInbox, u.ID)
		if err != nil {
			t.Fatalf("counting inbox for %s: %v", u.Email, err)
		}
		if count != 1 {
			t.Errorf("%s has %d inbox items, want 1", u.Email, count)
		}
	}
}

func TestResetClearsEnvelope(t *testing.T) {
	sess, users, items := newFixture(t)
	bob := addUser(t, users, "bob@example.com")

	if err := sess.Mail("alice@example.org", nil); err != nil {
		t.Fatalf("MAIL: %v", err)
	}
	if err := sess.Rcpt("bob@example.com", nil); err != nil {
		t.Fatalf("RCPT: %v", err)
	}
	sess.Reset()

	if err := sess.Data(strings.NewReader("Subject: after reset\r\n\r\nbody\r\n")); err != nil {
		t.Fatalf("DATA: %v", err)
	}
	count, err := items.CountInScope(domain.FolderInbox, bob.ID)
	if err != nil {
		t.Fatalf("counting inbox: %v", err)
	}
	if count != 0 {
		t.Errorf("reset session still stored %d items", count)
	}
}
