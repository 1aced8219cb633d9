package usecase

import (
	"errors"
	"fmt"

	"mailgate-backend/internal/mailbox/domain"
	mailboxUsecase "mailgate-backend/internal/mailbox/usecase"
)

// ItemWindow is the fixed snapshot bound for item sync. Client-supplied
// paging parameters are accepted by the adapters but never enforced
// beyond this bound.
const ItemWindow = 10

// SyncStatusOK is the status reported on every successful sync response.
const SyncStatusOK = "Success"

// CursorPolicy decides what happens when a client presents a token the
// engine cannot attribute to a known scope.
type CursorPolicy string

const (
	// CursorPolicyRebase treats an unrecognized token like a first sync.
	CursorPolicyRebase CursorPolicy = "rebase"
	// CursorPolicyReject rejects unrecognized tokens with an error.
	CursorPolicyReject CursorPolicy = "reject"
)

// ErrUnrecognizedCursor is returned under CursorPolicyReject when a
// presented token cannot be attributed to the requested scope.
var ErrUnrecognizedCursor = errors.New("unrecognized sync cursor")

// HierarchySyncResult is the neutral hierarchy change set. The field order
// (status, cursor token, completeness flag, change lists) is part of the
// wire contract because some clients parse positionally.
type HierarchySyncResult struct {
	Status     string                    `json:"status"`
	SyncToken  string                    `json:"sync_token"`
	IsComplete bool                      `json:"is_complete"`
	Creates    []domain.FolderDescriptor `json:"creates"`
	Deletes    []string                  `json:"deletes"`
}

// ItemSyncResult is the neutral item change set, same field ordering
// contract as HierarchySyncResult. Deletes stays empty: the engine does
// not propagate deletions.
type ItemSyncResult struct {
	Status     string                  `json:"status"`
	SyncToken  string                  `json:"sync_token"`
	IsComplete bool                    `json:"is_complete"`
	Creates    []domain.ItemDescriptor `json:"creates"`
	Deletes    []string                `json:"deletes"`
}

// Engine answers "what changed since token X" for folder hierarchies and
// folder contents. It keeps no state of its own: every call is a pure
// function of the presented token and current storage contents, so
// concurrent syncs never contend.
//
// The engine deliberately implements snapshot-then-silence: a first sync
// returns a bounded snapshot and a generation-1 token, and re-presenting
// that token yields an empty delta no matter what was stored in between.
// Clients pick up later mutations through their poll/heartbeat cycle, not
// through incremental deltas.
type Engine interface {
	// BeginHierarchySync syncs the distinguished folder hierarchy
	BeginHierarchySync(user *domain.User, presentedToken string) (*HierarchySyncResult, error)

	// BeginItemSync syncs the contents of one folder
	BeginItemSync(user *domain.User, folderRef string, presentedToken string) (*ItemSyncResult, error)
}

type engine struct {
	registry mailboxUsecase.Registry
	policy   CursorPolicy
}

// NewEngine creates a sync engine over the identity registry.
func NewEngine(registry mailboxUsecase.Registry, policy CursorPolicy) Engine {
	if policy != CursorPolicyReject {
		policy = CursorPolicyRebase
	}
	return &engine{registry: registry, policy: policy}
}

// matchCursor classifies a presented token against the requested scope.
// Steady means the token matches the scope at the last-issued generation;
// anything else either re-bases or errors depending on the cursor policy.
func (e *engine) matchCursor(scope Scope, presentedToken string) (steady bool, err error) {
	if presentedToken == "" {
		return false, nil
	}
	cursor, ok := ParseToken(presentedToken)
	if ok && cursor.Scope == scope && cursor.Generation == 1 {
		return true, nil
	}
	if e.policy == CursorPolicyReject {
		return false, fmt.Errorf("token %q: %w", presentedToken, ErrUnrecognizedCursor)
	}
	return false, nil
}

func (e *engine) BeginHierarchySync(user *domain.User, presentedToken string) (*HierarchySyncResult, error) {
	scope := Scope{Kind: ScopeHierarchy, UserID: user.ID, Folder: domain.FolderRoot}

	steady, err := e.matchCursor(scope, presentedToken)
	if err != nil {
		return nil, err
	}
	if steady {
		return &HierarchySyncResult{
			Status:     SyncStatusOK,
			SyncToken:  presentedToken,
			IsComplete: true,
			Creates:    []domain.FolderDescriptor{},
			Deletes:    []string{},
		}, nil
	}

	folders, err := e.registry.ListChildFolders(user)
	if err != nil {
		return nil, err
	}
	return &HierarchySyncResult{
		Status:     SyncStatusOK,
		SyncToken:  Cursor{Scope: scope, Generation: 1}.Token(),
		IsComplete: true,
		Creates:    folders,
		Deletes:    []string{},
	}, nil
}

func (e *engine) BeginItemSync(user *domain.User, folderRef string, presentedToken string) (*ItemSyncResult, error) {
	kind, ok := domain.ParseFolderReference(folderRef)
	if !ok {
		return nil, fmt.Errorf("syncing folder %q: %w", folderRef, domain.ErrNotFound)
	}
	scope := Scope{Kind: ScopeItems, UserID: user.ID, Folder: kind}

	steady, err := e.matchCursor(scope, presentedToken)
	if err != nil {
		return nil, err
	}
	if steady {
		return &ItemSyncResult{
			Status:     SyncStatusOK,
			SyncToken:  presentedToken,
			IsComplete: true,
			Creates:    []domain.ItemDescriptor{},
			Deletes:    []string{},
		}, nil
	}

	total, err := e.registry.CountFolderItems(user, kind)
	if err != nil {
		return nil, err
	}
	items, err := e.registry.ListFolderItems(user, kind, ItemWindow)
	if err != nil {
		return nil, err
	}

	return &ItemSyncResult{
		Status:     SyncStatusOK,
		SyncToken:  Cursor{Scope: scope, Generation: 1}.Token(),
		IsComplete: total <= ItemWindow,
		Creates:    items,
		Deletes:    []string{},
	}, nil
}
