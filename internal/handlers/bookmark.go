package handlers

import (
	"net/http"

	"infoshare/internal/middleware"
	"infoshare/internal/services"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct {
	engagement *services.EngagementService
}

func NewBookmarkHandler(svc *services.Services) *BookmarkHandler {
	return &BookmarkHandler{engagement: svc.Engagement}
}

// Toggle saves or unsaves a post.
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}

	res, err := h.engagement.ToggleBookmark(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		jsonError(c, err)
		return
	}

	message := "Bookmarked"
	if res.Result == services.ResultRemoved {
		message = "Bookmark removed"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "result": res.Result, "count": res.Count})
}
