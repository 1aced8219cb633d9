package usecase

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"mailgate-backend/internal/mailbox/domain"
)

// ScopeKind separates the two cursor families that share one token format.
type ScopeKind string

const (
	ScopeHierarchy ScopeKind = "hier"
	ScopeItems     ScopeKind = "items"
)

// Scope names a user+folder+sync-kind triple. Scopes are values, never
// stored: a cursor is a pure function of the token and current data.
type Scope struct {
	Kind   ScopeKind
	UserID uint
	Folder domain.FolderKind
}

func (s Scope) id() string {
	return fmt.Sprintf("%s:%d:%s", s.Kind, s.UserID, s.Folder)
}

// Cursor is the decoded form of a sync token: a scope plus a generation
// counter starting at 1.
type Cursor struct {
	Scope      Scope
	Generation int
}

// Token encodes the cursor into the opaque form handed to clients. The
// encoding carries all cursor state; nothing is kept server-side, so
// tokens stay valid across restarts and across server instances.
func (c Cursor) Token() string {
	return base64.RawURLEncoding.EncodeToString(
		[]byte(fmt.Sprintf("%s:%d", c.Scope.id(), c.Generation)))
}

// ParseToken decodes a client-presented token. It returns false for
// anything that cannot be attributed to a well-formed cursor.
func ParseToken(token string) (Cursor, bool) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, false
	}

	parts := strings.Split(string(decoded), ":")
	if len(parts) != 4 {
		return Cursor{}, false
	}

	kind := ScopeKind(parts[0])
	if kind != ScopeHierarchy && kind != ScopeItems {
		return Cursor{}, false
	}

	userID, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || userID == 0 {
		return Cursor{}, false
	}

	folder, ok := domain.ParseFolderReference(parts[2])
	if !ok {
		return Cursor{}, false
	}

	gen, err := strconv.Atoi(parts[3])
	if err != nil || gen < 1 {
		return Cursor{}, false
	}

	return Cursor{
		Scope:      Scope{Kind: kind, UserID: uint(userID), Folder: folder},
		Generation: gen,
	}, true
}
