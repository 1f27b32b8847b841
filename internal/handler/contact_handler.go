package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-relay/internal/model"
	"portfolio-relay/internal/service/contact"
	"portfolio-relay/pkg/logger"
)

// Response messages of POST /api/contact
const (
	MsgEmailSent       = "Email sent successfully!"
	MsgEmailError      = "Error sending email"
	MsgBodyTooLarge    = "Request body too large"
	MsgTooManyRequests = "Too many requests"
)

// Relay is the contact relay as seen by the HTTP layer
type Relay interface {
	Submit(ctx context.Context, sub model.ContactSubmission) error
}

type ContactHandler struct {
	relay  Relay
	logger *zap.Logger
}

func NewContactHandler(relay Relay, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		relay:  relay,
		logger: logger,
	}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": MsgBodyTooLarge})
			return
		}
		logger.WithTrace(ctx, h.logger).Warn("Failed to decode contact request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": MsgEmailError, "error": err.Error()})
		return
	}

	err := h.relay.Submit(ctx, req)

	var verr *contact.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": MsgEmailSent})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": MsgEmailError, "error": err.Error()})
	}
}

// Recovery turns a panic on the contact route into the same 500 a transport failure produces
func (h *ContactHandler) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithTrace(c.Request.Context(), h.logger).Error("Panic while handling contact request",
			zap.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": MsgEmailError,
			"error":   "internal error",
		})
	})
}
