package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ItemIDPrefix is the fixed textual prefix of every item canonical id.
// The rest of the id is the decimal storage key.
const ItemIDPrefix = "IT_"

// Item is a stored email. Items are created on inbound SMTP receipt or on
// CreateItem (send/save) and are never renamed; the canonical id is derived
// from the storage key and stays stable for the item's lifetime.
type Item struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SenderID    *uint     `json:"sender_id,omitempty" gorm:"index"`
	RecipientID *uint     `json:"recipient_id,omitempty" gorm:"index"`
	FromAddr    string    `json:"from_addr"`
	ToAddr      string    `json:"to_addr"`
	Subject     string    `json:"subject"`
	TextBody    string    `json:"text_body"`
	HTMLBody    string    `json:"html_body"`
	RawMime     []byte    `json:"-"`
	IsRead      bool      `json:"is_read" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// CanonicalID returns the protocol-neutral reference for the item.
func (i *Item) CanonicalID() string {
	return fmt.Sprintf("%s%d", ItemIDPrefix, i.ID)
}

// ParseItemReference extracts the storage key from an item canonical id.
// A bare decimal key is accepted as the equivalent short form.
func ParseItemReference(ref string) (uint, bool) {
	s := strings.TrimPrefix(ref, ItemIDPrefix)
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
