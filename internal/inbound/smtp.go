// Package inbound accepts mail over SMTP and stores it as items for local
// recipients. This is the receipt path that fills inboxes; outbound relay
// lives in the delivery pipeline.
package inbound

import (
	"fmt"
	"io"
	"log"
	"time"

	"mailgate-backend/internal/mailbox/domain"
	"mailgate-backend/internal/mailbox/repository"
	"mailgate-backend/pkg/compose"

	"github.com/emersion/go-smtp"
)

// Backend implements the smtp.Backend interface over the mailbox store.
type Backend struct {
	users repository.UserRepository
	items repository.ItemRepository
}

// NewBackend creates a new SMTP receipt backend
func NewBackend(users repository.UserRepository, items repository.ItemRepository) *Backend {
	return &Backend{users: users, items: items}
}

// NewSession starts a new receipt session
func (b *Backend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &session{backend: b}, nil
}

type recipient struct {
	addr string
	user *domain.User
}

// session implements the smtp.Session interface
type session struct {
	backend    *Backend
	from       string
	recipients []recipient
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	user, err := s.backend.users.FindByEmail(to)
	if err != nil {
		return err
	}
	if user == nil {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 1, 1},
			Message:      fmt.Sprintf("no mailbox for %s", to),
		}
	}
	s.recipients = append(s.recipients, recipient{addr: to, user: user})
	return nil
}

func (s *session) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading message data: %w", err)
	}

	subject := ""
	textBody := string(raw)
	htmlBody := ""
	if parsed, err := compose.Parse(raw); err == nil {
		subject = parsed.Subject
		textBody = parsed.TextBody
		htmlBody = parsed.HTMLBody
	}

	for _, rcpt := range s.recipients {
		item := &domain.Item{
			RecipientID: &rcpt.user.ID,
			FromAddr:    s.from,
			ToAddr:      rcpt.addr,
			Subject:     subject,
			TextBody:    textBody,
			HTMLBody:    htmlBody,
			RawMime:     raw,
		}
		if err := s.backend.items.Create(item); err != nil {
			return fmt.Errorf("storing message for %s: %w", rcpt.addr, err)
		}
		log.Printf("[SMTP] Stored item %s for %s (from %s)", item.CanonicalID(), rcpt.addr, s.from)
	}
	return nil
}

func (s *session) Reset() {
	s.from = ""
	s.recipients = nil
}

func (s *session) Logout() error {
	return nil
}

// NewServer builds the SMTP server listening for inbound mail.
func NewServer(addr, domain string, backend *Backend) *smtp.Server {
	srv := smtp.NewServer(backend)
	srv.Addr = addr
	srv.Domain = domain
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.MaxMessageBytes = 10 * 1024 * 1024
	srv.MaxRecipients = 50
	return srv
}
