package handlers

import (
	"net/http"
	"strings"
	"time"

	"infoshare/internal/middleware"
	"infoshare/internal/services"
	"infoshare/internal/utils"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderation *services.ModerationService
}

func NewModerationHandler(svc *services.Services) *ModerationHandler {
	return &ModerationHandler{moderation: svc.Moderation}
}

// Queue shows pending posts and open reports to staff.
func (h *ModerationHandler) Queue(c *gin.Context) {
	ctx := c.Request.Context()
	staff := middleware.CurrentUser(c)

	pending, err := h.moderation.PendingPosts(ctx, staff)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	postReports, userReports, err := h.moderation.OpenReports(ctx, staff)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	Render(c, http.StatusOK, "moderation/queue.html", gin.H{
		"Title":       "Moderation",
		"Pending":     pending,
		"PostReports": postReports,
		"UserReports": userReports,
	})
}

// SetPostStatus approves, rejects or bans a post.
func (h *ModerationHandler) SetPostStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}
	raw := strings.TrimSpace(c.PostForm("status"))
	if raw == "" {
		jsonError(c, &services.ValidationError{Fields: map[string]string{"status": "status is required"}})
		return
	}
	status := utils.StringToInt(raw)
	if err := h.moderation.SetPostStatus(c.Request.Context(), middleware.CurrentUser(c), id, status); err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post status updated", "status": status})
}

// BanUser bans for the number of days in the form, 7 by default.
func (h *ModerationHandler) BanUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}
	days := utils.StringToInt(c.DefaultPostForm("days", "7"))
	until := time.Now().AddDate(0, 0, days)

	if err := h.moderation.BanUser(c.Request.Context(), middleware.CurrentUser(c), id, until); err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User banned", "until": until})
}

func (h *ModerationHandler) ResolveReport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}
	if err := h.moderation.ResolveReport(c.Request.Context(), middleware.CurrentUser(c), c.Param("kind"), id); err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report resolved"})
}

// ReportPost is open to any signed in user.
func (h *ModerationHandler) ReportPost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}
	_, err := h.moderation.ReportPost(c.Request.Context(), middleware.CurrentUser(c), id, services.ReportInput{Reason: c.PostForm("reason")})
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thanks, the post was reported"})
}

func (h *ModerationHandler) ReportUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}
	_, err := h.moderation.ReportUser(c.Request.Context(), middleware.CurrentUser(c), id, services.ReportInput{Reason: c.PostForm("reason")})
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thanks, the user was reported"})
}
