package delivery

import (
	"net/http"

	mailboxDomain "mailgate-backend/internal/mailbox/domain"
	"mailgate-backend/internal/outbound/usecase"
	"mailgate-backend/pkg/compose"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	pipeline usecase.Pipeline
}

func NewDeliveryHandler(pipeline usecase.Pipeline) *DeliveryHandler {
	return &DeliveryHandler{pipeline: pipeline}
}

type enqueueRequest struct {
	Recipients  []string `json:"recipients" binding:"required,min=1"`
	MimeContent []byte   `json:"mime_content" binding:"required"`
}

// Enqueue is the direct enqueue surface: an already-composed message plus
// recipients. The message is validated up front; nothing is queued for
// malformed input.
func (h *DeliveryHandler) Enqueue(c *gin.Context) {
	user := c.MustGet("user").(*mailboxDomain.User)

	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := compose.Parse(req.MimeContent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed message content"})
		return
	}

	ids, err := h.pipeline.EnqueueAndSend(c.Request.Context(), user.ID, user.Email, req.Recipients, req.MimeContent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	receipts := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		receipt, err := h.pipeline.Receipt(id)
		if err != nil || receipt == nil {
			continue
		}
		receipts = append(receipts, gin.H{"delivery_id": receipt.DeliveryID, "status": receipt.Status})
	}
	c.JSON(http.StatusAccepted, gin.H{"deliveries": receipts})
}

func (h *DeliveryHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.pipeline.Receipt(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if receipt == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "delivery not found"})
		return
	}
	c.JSON(http.StatusOK, receipt)
}
