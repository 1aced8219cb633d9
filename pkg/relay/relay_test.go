package relay

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/emersion/go-smtp"
)

type fakeResolver struct {
	mxs []*net.MX
	err error
}

func (r *fakeResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	return r.mxs, r.err
}

func newTestClient(r Resolver) *Client {
	c := NewClient("mail.example.com", time.Second)
	c.SetResolver(r)
	return c
}

func TestDeliverRecipientWithoutDomain(t *testing.T) {
	c := newTestClient(&fakeResolver{})

	for _, rcpt := range []string{"nodomain", "trailing@"} {
		err := c.Deliver(context.Background(), "alice@example.com", rcpt, []byte("raw"))
		if err == nil {
			t.Fatalf("delivering to %q succeeded", rcpt)
		}
		if !IsPermanent(err) {
			t.Errorf("delivering to %q: err = %v, want permanent", rcpt, err)
		}
	}
}

func TestDeliverNoSuchDomainIsPermanent(t *testing.T) {
	c := newTestClient(&fakeResolver{
		err: &net.DNSError{Err: "no such host", Name: "example.invalid", IsNotFound: true},
	})

	err := c.Deliver(context.Background(), "alice@example.com", "bob@example.invalid", []byte("raw"))
	if !IsPermanent(err) {
		t.Errorf("err = %v, want permanent on NXDOMAIN", err)
	}
}

func TestDeliverEmptyMXIsPermanent(t *testing.T) {
	c := newTestClient(&fakeResolver{mxs: []*net.MX{}})

	err := c.Deliver(context.Background(), "alice@example.com", "bob@example.org", []byte("raw"))
	if !IsPermanent(err) {
		t.Errorf("err = %v, want permanent when the domain has no exchangers", err)
	}
}

func TestDeliverResolverOutageIsTransient(t *testing.T) {
	c := newTestClient(&fakeResolver{
		err: &net.DNSError{Err: "server misbehaving", Name: "example.org", IsTemporary: true},
	})

	err := c.Deliver(context.Background(), "alice@example.com", "bob@example.org", []byte("raw"))
	if err == nil {
		t.Fatal("delivery succeeded through a failing resolver")
	}
	if IsPermanent(err) {
		t.Errorf("err = %v, want transient on a resolver outage", err)
	}
}

func TestClassifySMTPReplies(t *testing.T) {
	permanent := classify(&smtp.SMTPError{Code: 550, Message: "no such user"})
	if !IsPermanent(permanent) {
		t.Errorf("550 classified as %v, want permanent", permanent)
	}

	transient := classify(&smtp.SMTPError{Code: 421, Message: "try again later"})
	if IsPermanent(transient) {
		t.Errorf("421 classified as %v, want transient", transient)
	}
}

func TestClassifyUnknownErrorsAreTransient(t *testing.T) {
	err := classify(errors.New("connection reset"))
	if IsPermanent(err) {
		t.Errorf("unclassified error marked permanent: %v", err)
	}
}

func TestIsPermanent(t *testing.T) {
	if IsPermanent(nil) {
		t.Error("nil error reported permanent")
	}
	if IsPermanent(errors.New("plain")) {
		t.Error("plain error reported permanent")
	}
	if !IsPermanent(&Error{Permanent: true, Err: errors.New("x")}) {
		t.Error("permanent relay error not reported permanent")
	}
	if IsPermanent(&Error{Err: errors.New("x")}) {
		t.Error("transient relay error reported permanent")
	}
}
