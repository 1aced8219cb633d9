package delivery

import (
	"errors"
	"net/http"

	"mailgate-backend/internal/mailbox/domain"
	"mailgate-backend/internal/mailbox/usecase"
	syncUsecase "mailgate-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

type MailboxHandler struct {
	registry usecase.Registry
	items    usecase.ItemUsecase
}

func NewMailboxHandler(registry usecase.Registry, items usecase.ItemUsecase) *MailboxHandler {
	return &MailboxHandler{registry: registry, items: items}
}

func requestUser(c *gin.Context) *domain.User {
	return c.MustGet("user").(*domain.User)
}

func (h *MailboxHandler) GetFolders(c *gin.Context) {
	user := requestUser(c)
	folders, err := h.registry.ListChildFolders(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

func (h *MailboxHandler) GetFolderByRef(c *gin.Context) {
	user := requestUser(c)
	folder, err := h.registry.ResolveFolder(user, c.Param("ref"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, folder)
}

// GetFolderItems lists the most recent items in a folder. An unknown
// folder reference yields an empty list, not an error, matching the
// lenient behavior list operations expect.
func (h *MailboxHandler) GetFolderItems(c *gin.Context) {
	user := requestUser(c)

	kind, ok := domain.ParseFolderReference(c.Param("ref"))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"items": []domain.ItemDescriptor{}})
		return
	}

	items, err := h.registry.ListFolderItems(user, kind, syncUsecase.ItemWindow)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *MailboxHandler) GetItemByRef(c *gin.Context) {
	user := requestUser(c)
	item, err := h.registry.ResolveItem(user, c.Param("ref"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

type createItemRequest struct {
	To          []string `json:"to"`
	Subject     string   `json:"subject"`
	TextBody    string   `json:"text_body"`
	HTMLBody    string   `json:"html_body"`
	MimeContent []byte   `json:"mime_content"`
	Send        bool     `json:"send"`
}

func (h *MailboxHandler) CreateItem(c *gin.Context) {
	user := requestUser(c)

	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, deliveryIDs, err := h.items.CreateItem(c.Request.Context(), user, usecase.CreateItemRequest{
		To:          req.To,
		Subject:     req.Subject,
		TextBody:    req.TextBody,
		HTMLBody:    req.HTMLBody,
		MimeContent: req.MimeContent,
		Send:        req.Send,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMalformedMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item, "delivery_ids": deliveryIDs})
}

func (h *MailboxHandler) MarkAsRead(c *gin.Context) {
	h.setRead(c, true)
}

func (h *MailboxHandler) MarkAsUnread(c *gin.Context) {
	h.setRead(c, false)
}

func (h *MailboxHandler) setRead(c *gin.Context, read bool) {
	user := requestUser(c)
	if err := h.items.SetItemRead(user, c.Param("ref"), read); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item updated"})
}
