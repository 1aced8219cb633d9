// Package compose builds and parses RFC 5322 messages for the gateway
// core. Composed messages always carry a text/plain rendering so that
// plain-text-only receivers stay interoperable.
package compose

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

// MessageOptions describes an outgoing message. Bodies are treated as
// UTF-8 and are never modified, only wrapped.
type MessageOptions struct {
	From     string
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
	Date     time.Time
}

// Message composes a full MIME message. The bodies are wrapped in a single
// multipart/alternative structure; when only an HTML body is supplied, a
// plain-text fallback is synthesized from it.
func Message(opts MessageOptions) ([]byte, error) {
	text := opts.TextBody
	if text == "" && opts.HTMLBody != "" {
		text = HTMLToText(opts.HTMLBody)
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	var h mail.Header
	h.SetDate(date)
	h.SetSubject(opts.Subject)
	h.SetMessageID(fmt.Sprintf("%s@%s", uuid.New().String(), addressDomain(opts.From)))
	if opts.From != "" {
		h.SetAddressList("From", []*mail.Address{{Address: opts.From}})
	}
	if len(opts.To) > 0 {
		toList := make([]*mail.Address, 0, len(opts.To))
		for _, addr := range opts.To {
			toList = append(toList, &mail.Address{Address: addr})
		}
		h.SetAddressList("To", toList)
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("creating alternative part: %w", err)
	}

	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	pw, err := iw.CreatePart(th)
	if err != nil {
		return nil, fmt.Errorf("creating text part: %w", err)
	}
	if _, err := io.WriteString(pw, text); err != nil {
		return nil, fmt.Errorf("writing text part: %w", err)
	}
	pw.Close()

	if opts.HTMLBody != "" {
		var hh mail.InlineHeader
		hh.SetContentType("text/html", map[string]string{"charset": "utf-8"})
		hw, err := iw.CreatePart(hh)
		if err != nil {
			return nil, fmt.Errorf("creating html part: %w", err)
		}
		if _, err := io.WriteString(hw, opts.HTMLBody); err != nil {
			return nil, fmt.Errorf("writing html part: %w", err)
		}
		hw.Close()
	}

	iw.Close()
	mw.Close()

	return buf.Bytes(), nil
}

func addressDomain(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
