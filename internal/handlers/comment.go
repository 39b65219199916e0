package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"infoshare/internal/middleware"
	"infoshare/internal/services"
	"infoshare/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(svc *services.Services) *CommentHandler {
	return &CommentHandler{comments: svc.Comments}
}

// parentFromForm maps the form's parent_id to a parent pointer. Empty and the
// legacy -1 both mean a top-level comment.
func parentFromForm(raw string) (*uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-1" {
		return nil, true
	}
	id, ok := utils.ParseID(raw)
	if !ok {
		return nil, false
	}
	return &id, true
}

// Create handles POST /comment/ and redirects back to the post.
func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := utils.ParseID(c.PostForm("post_id"))
	if !ok {
		RenderError(c, http.StatusBadRequest, services.ErrIntegrity.Error())
		return
	}
	parentID, ok := parentFromForm(c.PostForm("parent_id"))
	if !ok {
		RenderError(c, http.StatusBadRequest, services.ErrIntegrity.Error())
		return
	}

	_, err := h.comments.CreateComment(c.Request.Context(), middleware.CurrentUser(c), services.CommentInput{
		PostID:   postID,
		Content:  c.PostForm("comment_content"),
		ParentID: parentID,
	})
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d#comments", postID))
}

// Edit rewrites a comment's text and answers JSON.
func (h *CommentHandler) Edit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}
	comment, err := h.comments.EditComment(c.Request.Context(), middleware.CurrentUser(c), id, c.PostForm("comment_content"))
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment updated", "content": comment.Content})
}
