package domain

import "strings"

// FolderKind names one of the fixed distinguished mailbox locations. There
// are no user-defined folders in this system: a folder is computed identity
// plus a scope predicate, never a storage row.
type FolderKind string

const (
	FolderRoot         FolderKind = "msgfolderroot"
	FolderInbox        FolderKind = "inbox"
	FolderSentItems    FolderKind = "sentitems"
	FolderDrafts       FolderKind = "drafts"
	FolderDeletedItems FolderKind = "deleteditems"
	FolderOutbox       FolderKind = "outbox"
	FolderJunk         FolderKind = "junkemail"
	FolderArchive      FolderKind = "archive"
	FolderContacts     FolderKind = "contacts"
	FolderCalendar     FolderKind = "calendar"
)

// FolderIDPrefix is the fixed textual prefix of every folder canonical id.
const FolderIDPrefix = "DF_"

// Folder container classes.
const (
	ClassNote        = "IPF.Note"
	ClassContact     = "IPF.Contact"
	ClassAppointment = "IPF.Appointment"
)

// FolderKinds lists every distinguished folder, root first. The slice order
// is the order child folders are reported in; some clients parse
// positionally, so it must stay stable.
var FolderKinds = []FolderKind{
	FolderRoot,
	FolderInbox,
	FolderSentItems,
	FolderDrafts,
	FolderDeletedItems,
	FolderOutbox,
	FolderJunk,
	FolderArchive,
	FolderContacts,
	FolderCalendar,
}

var folderDisplayNames = map[FolderKind]string{
	FolderRoot:         "Top of Information Store",
	FolderInbox:        "Inbox",
	FolderSentItems:    "Sent Items",
	FolderDrafts:       "Drafts",
	FolderDeletedItems: "Deleted Items",
	FolderOutbox:       "Outbox",
	FolderJunk:         "Junk Email",
	FolderArchive:      "Archive",
	FolderContacts:     "Contacts",
	FolderCalendar:     "Calendar",
}

// CanonicalID returns the stable opaque folder reference, derived from the
// kind and not from any storage row.
func (k FolderKind) CanonicalID() string {
	return FolderIDPrefix + string(k)
}

// DisplayName returns the human-readable folder name.
func (k FolderKind) DisplayName() string {
	return folderDisplayNames[k]
}

// Class returns the folder container class.
func (k FolderKind) Class() string {
	switch k {
	case FolderContacts:
		return ClassContact
	case FolderCalendar:
		return ClassAppointment
	default:
		return ClassNote
	}
}

// ParentID returns the canonical id of the folder's parent. Every folder
// hangs off the root; the root itself has no parent.
func (k FolderKind) ParentID() string {
	if k == FolderRoot {
		return ""
	}
	return FolderRoot.CanonicalID()
}

// ParseFolderReference resolves either reference form, the distinguished
// name ("inbox") or the opaque id ("DF_inbox"), to a folder kind. Both
// forms are equivalent and case-insensitive.
func ParseFolderReference(ref string) (FolderKind, bool) {
	name := strings.ToLower(strings.TrimPrefix(ref, FolderIDPrefix))
	k := FolderKind(name)
	if _, ok := folderDisplayNames[k]; !ok {
		return "", false
	}
	return k, true
}
