package compose

import (
	"bytes"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"
)

// Parsed holds the pieces of a raw message the gateway core cares about.
type Parsed struct {
	Subject        string
	From           string
	To             string
	TextBody       string
	HTMLBody       string
	HasAttachments bool
	Headers        map[string]string
}

// Parse reads a raw RFC 5322 message and extracts envelope headers, the
// text/plain and text/html bodies, and attachment presence.
func Parse(raw []byte) (*Parsed, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer mr.Close()

	p := &Parsed{Headers: map[string]string{}}

	fields := mr.Header.Fields()
	for fields.Next() {
		text, err := fields.Text()
		if err != nil {
			text = fields.Value()
		}
		p.Headers[fields.Key()] = text
	}

	p.Subject, _ = mr.Header.Subject()
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		p.From = from[0].Address
	}
	if to, err := mr.Header.AddressList("To"); err == nil {
		addrs := make([]string, 0, len(to))
		for _, a := range to {
			addrs = append(addrs, a.Address)
		}
		p.To = strings.Join(addrs, ", ")
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			switch {
			case strings.HasPrefix(contentType, "text/plain"):
				p.TextBody = string(body)
			case strings.HasPrefix(contentType, "text/html"):
				p.HTMLBody = string(body)
			}
		case *mail.AttachmentHeader:
			p.HasAttachments = true
		}
	}

	return p, nil
}
