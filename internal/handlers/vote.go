package handlers

import (
	"net/http"

	"infoshare/internal/middleware"
	"infoshare/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	engagement *services.EngagementService
}

func NewVoteHandler(svc *services.Services) *VoteHandler {
	return &VoteHandler{engagement: svc.Engagement}
}

func reactMessage(kind string, res *services.ReactResult) string {
	switch res.Result {
	case services.ResultAdded:
		if kind == services.ReactUpvote {
			return "Upvoted"
		}
		return "Downvoted"
	case services.ResultRemoved:
		if kind == services.ReactUpvote {
			return "Upvote removed"
		}
		return "Downvote removed"
	}
	return "Changed to " + kind
}

// React handles POST /post/:id/react/:kind.
func (h *VoteHandler) React(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}
	kind := c.Param("kind")

	res, err := h.engagement.React(c.Request.Context(), middleware.CurrentUser(c), id, kind)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":              reactMessage(kind, res),
		"result":               res.Result,
		"feedback_value":       res.FeedbackValue,
		"total_feedback_value": res.TotalScore,
	})
}
