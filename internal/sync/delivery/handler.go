package delivery

import (
	"errors"
	"io"
	"net/http"

	mailboxDomain "mailgate-backend/internal/mailbox/domain"
	"mailgate-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	engine usecase.Engine
}

func NewSyncHandler(engine usecase.Engine) *SyncHandler {
	return &SyncHandler{engine: engine}
}

type hierarchySyncRequest struct {
	SyncToken string `json:"sync_token"`
}

type itemSyncRequest struct {
	Folder    string `json:"folder" binding:"required"`
	SyncToken string `json:"sync_token"`
	// Accepted for protocol compatibility; the engine enforces its own
	// window bound.
	WindowSize int `json:"window_size"`
}

func (h *SyncHandler) HierarchySync(c *gin.Context) {
	user := c.MustGet("user").(*mailboxDomain.User)

	// An empty body is a first sync with no token.
	var req hierarchySyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.BeginHierarchySync(user, req.SyncToken)
	if err != nil {
		if errors.Is(err, usecase.ErrUnrecognizedCursor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized sync cursor"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SyncHandler) ItemSync(c *gin.Context) {
	user := c.MustGet("user").(*mailboxDomain.User)

	var req itemSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.BeginItemSync(user, req.Folder, req.SyncToken)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnrecognizedCursor):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized sync cursor"})
		case errors.Is(err, mailboxDomain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
