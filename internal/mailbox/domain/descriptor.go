package domain

import "time"

// FolderDescriptor is the protocol-neutral view of a distinguished folder.
// Wire adapters serialize it into their own envelopes.
type FolderDescriptor struct {
	CanonicalID      string `json:"canonical_id"`
	ParentID         string `json:"parent_id"`
	Class            string `json:"class"`
	DisplayName      string `json:"display_name"`
	ItemCount        int64  `json:"item_count"`
	ChildFolderCount int    `json:"child_folder_count"`
}

// ItemDescriptor is the protocol-neutral view of a stored email.
type ItemDescriptor struct {
	CanonicalID    string            `json:"canonical_id"`
	ParentFolderID string            `json:"parent_folder_id"`
	Subject        string            `json:"subject"`
	From           string            `json:"from"`
	To             string            `json:"to"`
	ReceivedAt     time.Time         `json:"received_at"`
	IsRead         bool              `json:"is_read"`
	HasAttachments bool              `json:"has_attachments"`
	Size           int               `json:"size"`
	PlainBody      string            `json:"plain_body,omitempty"`
	HTMLBody       string            `json:"html_body,omitempty"`
	MimeContent    []byte            `json:"mime_content,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
}
