// Package relay delivers composed messages to the mail exchanger a
// recipient domain advertises. Failures are classified as permanent or
// transient so the delivery pipeline can decide between failing and
// retrying.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
)

// Error wraps a delivery failure together with its classification.
type Error struct {
	Permanent bool
	Err       error
}

func (e *Error) Error() string {
	if e.Permanent {
		return fmt.Sprintf("permanent delivery failure: %v", e.Err)
	}
	return fmt.Sprintf("transient delivery failure: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err is a delivery failure that must not be
// retried. Unclassified errors count as transient.
func IsPermanent(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Permanent
}

// Resolver looks up the mail exchangers of a domain. It is satisfied by
// *net.Resolver and stubbed in tests.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// Client relays messages over SMTP. All network operations are bounded by
// the configured timeout; exceeding it is a transient failure.
type Client struct {
	helloDomain string
	timeout     time.Duration
	resolver    Resolver
}

// NewClient creates a relay client that greets peers with helloDomain.
func NewClient(helloDomain string, timeout time.Duration) *Client {
	return &Client{
		helloDomain: helloDomain,
		timeout:     timeout,
		resolver:    net.DefaultResolver,
	}
}

// SetResolver overrides the DNS resolver, mainly for tests.
func (c *Client) SetResolver(r Resolver) {
	c.resolver = r
}

// maxHosts bounds how many exchangers are tried per delivery.
const maxHosts = 2

// Deliver resolves the recipient domain's mail exchanger and hands the
// message over SMTP. The sender address is used for MAIL FROM.
func (c *Client) Deliver(ctx context.Context, from, recipient string, message []byte) error {
	i := strings.LastIndex(recipient, "@")
	if i < 0 || i == len(recipient)-1 {
		return &Error{Permanent: true, Err: fmt.Errorf("recipient %q has no domain", recipient)}
	}
	domain := recipient[i+1:]

	mxs, err := c.resolver.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return &Error{Permanent: true, Err: fmt.Errorf("no mail exchanger for %s: %w", domain, err)}
		}
		return &Error{Err: fmt.Errorf("resolving %s: %w", domain, err)}
	}
	if len(mxs) == 0 {
		return &Error{Permanent: true, Err: fmt.Errorf("no mail exchanger for %s", domain)}
	}

	// LookupMX returns records sorted by preference.
	var lastErr error
	for n, mx := range mxs {
		if n == maxHosts {
			break
		}
		host := strings.TrimSuffix(mx.Host, ".")
		err := c.deliverTo(ctx, host, from, recipient, message)
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (c *Client) deliverTo(ctx context.Context, host, from, recipient string, message []byte) error {
	addr := net.JoinHostPort(host, "25")
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return classify(fmt.Errorf("dialing %s: %w", addr, err))
	}

	cl := smtp.NewClient(conn)
	cl.CommandTimeout = c.timeout
	cl.SubmissionTimeout = c.timeout
	defer cl.Close()

	if err := cl.Hello(c.helloDomain); err != nil {
		return classify(err)
	}
	if err := cl.Mail(from, nil); err != nil {
		return classify(err)
	}
	if err := cl.Rcpt(recipient, nil); err != nil {
		return classify(err)
	}
	w, err := cl.Data()
	if err != nil {
		return classify(err)
	}
	if _, err := w.Write(message); err != nil {
		return classify(err)
	}
	if err := w.Close(); err != nil {
		return classify(err)
	}
	return cl.Quit()
}

// classify maps an SMTP or network error to a relay Error. 5xx replies are
// permanent rejections; 4xx replies, timeouts and everything else follow
// the retry path.
func classify(err error) error {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		return &Error{Permanent: !smtpErr.Temporary(), Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Err: err}
	}
	return &Error{Err: err}
}
