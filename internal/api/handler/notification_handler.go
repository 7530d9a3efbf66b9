package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guildworks/marketboard/internal/api/dto"
	"github.com/guildworks/marketboard/internal/api/service"
)

// NotificationHandler handles the notification inbox endpoints
type NotificationHandler struct {
	logger *slog.Logger
	market *service.Market
}

func NewNotificationHandler(deps *Dependencies) *NotificationHandler {
	return &NotificationHandler{
		logger: deps.Logger,
		market: deps.Market,
	}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var req dto.ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "invalid query parameters")
		return
	}
	page, pageSize := req.Window()

	notifications, err := h.market.ListNotifications(c.Request.Context(), actorID(c), req.Unread, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": dto.NewNotificationDTOs(notifications),
		"page":          page,
		"page_size":     pageSize,
	})
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.market.UnreadCount(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead handles POST /api/v1/notifications/:notification_id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID := c.Param("notification_id")
	if err := h.market.MarkNotificationRead(c.Request.Context(), actorID(c), notificationID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification_id": notificationID, "is_read": true})
}

// SendCustomMessage handles POST /api/v1/notifications/messages
// Restricted to staff accounts by the router.
func (h *NotificationHandler) SendCustomMessage(c *gin.Context) {
	var req dto.CustomMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	n, err := h.market.SendCustomMessage(c.Request.Context(), req.UserID, req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("custom message sent",
		slog.String("notification_id", n.NotificationID),
		slog.String("recipient", req.UserID),
	)
	c.JSON(http.StatusCreated, dto.NewNotificationDTO(n))
}
