package handlers

import (
	"net/http"

	"infoshare/internal/middleware"
	"infoshare/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notes *services.NotificationService
}

func NewNotificationHandler(svc *services.Services) *NotificationHandler {
	return &NotificationHandler{notes: svc.Notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.notes.List(c.Request.Context(), middleware.CurrentUser(c), 50)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	Render(c, http.StatusOK, "notification/list.html", gin.H{
		"Title":         "Notifications",
		"Notifications": notifications,
		"Active":        "notifications",
	})
}

func (h *NotificationHandler) Read(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}
	if err := h.notes.MarkRead(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}
	if err := h.notes.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func (h *NotificationHandler) ReadAll(c *gin.Context) {
	n, err := h.notes.MarkAllRead(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": n})
}
