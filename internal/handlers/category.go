package handlers

import (
	"net/http"

	"infoshare/internal/services"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	posts *services.PostService
}

func NewCategoryHandler(svc *services.Services) *CategoryHandler {
	return &CategoryHandler{posts: svc.Posts}
}

// List shows every category.
func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.posts.Categories(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	Render(c, http.StatusOK, "category/list.html", gin.H{
		"Categories": cats,
		"Title":      "Categories",
		"Active":     "categories",
	})
}

func (h *CategoryHandler) Posts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		RenderError(c, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}
	cat, posts, pager, err := h.posts.ListByCategory(c.Request.Context(), id, c.Query("page"), homePageSize)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	Render(c, http.StatusOK, "category/posts.html", gin.H{
		"Title":    cat.Name,
		"Category": cat,
		"Posts":    posts,
		"Pager":    pager,
	})
}
