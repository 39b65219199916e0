package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"infoshare/internal/logger"
	"infoshare/internal/middleware"
	"infoshare/internal/models"
	"infoshare/internal/services"
	"infoshare/internal/utils"

	"github.com/gin-gonic/gin"
)

const homePageSize = 10

type StoryHandler struct {
	posts    *services.PostService
	search   *services.SearchService
	trending *services.TrendingService
}

func NewStoryHandler(svc *services.Services) *StoryHandler {
	return &StoryHandler{
		posts:    svc.Posts,
		search:   svc.Search,
		trending: svc.Trending,
	}
}

// widgets loads the sidebar lists; failures only cost the widget.
func (h *StoryHandler) widgets(c *gin.Context) ([]services.TrendingPost, []services.FamousAuthor) {
	ctx := c.Request.Context()
	trending, err := h.trending.TrendingPosts(ctx, services.WidgetLimit)
	if err != nil {
		logger.Warn("trending posts unavailable", logger.ErrorField(err))
	}
	famous, err := h.trending.FamousAuthors(ctx, services.WidgetLimit)
	if err != nil {
		logger.Warn("famous authors unavailable", logger.ErrorField(err))
	}
	return trending, famous
}

// Home lists the newest posts with the trending widgets.
func (h *StoryHandler) Home(c *gin.Context) {
	posts, pager, err := h.posts.ListRecent(c.Request.Context(), c.Query("page"), homePageSize)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	trending, famous := h.widgets(c)

	Render(c, http.StatusOK, "index.html", gin.H{
		"Title":    "Home",
		"Posts":    posts,
		"Pager":    pager,
		"Trending": trending,
		"Famous":   famous,
		"Active":   "home",
	})
}

// postInputFromForm reads the create/edit form. Validation happens in the service.
func postInputFromForm(c *gin.Context) services.PostInput {
	cats := append(c.PostFormArray("categories"), c.PostFormArray("categories[]")...)
	in := services.PostInput{
		Title:      c.PostForm("title"),
		Content:    c.PostForm("content"),
		Categories: utils.ParseIDs(cats),
		Hashtags:   c.PostForm("hashtags"),
		Mode:       utils.StringToInt(c.PostForm("mode")),
	}
	if raw := strings.TrimSpace(c.PostForm("status")); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			status = -1
		}
		in.Status = &status
	}
	return in
}

func (h *StoryHandler) renderForm(c *gin.Context, code int, data gin.H) {
	cats, err := h.posts.Categories(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	data["Categories"] = cats
	Render(c, code, "post/form.html", data)
}

// formFailure re-renders the form for validation errors, otherwise an error page.
func (h *StoryHandler) formFailure(c *gin.Context, err error, data gin.H) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		data["Errors"] = ve.Fields
		data["Error"] = ve.Error()
		h.renderForm(c, http.StatusBadRequest, data)
		return
	}
	renderServiceError(c, err)
}

func (h *StoryHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, http.StatusOK, gin.H{"Title": "Create post", "Action": "/create-post"})
}

func (h *StoryHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	in := postInputFromForm(c)

	post, err := h.posts.CreatePost(c.Request.Context(), user, in)
	if err != nil {
		h.formFailure(c, err, gin.H{"Title": "Create post", "Action": "/create-post", "Input": in})
		return
	}
	c.Redirect(http.StatusFound, postURL(post))
}

func (h *StoryHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		RenderError(c, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}

	detail, err := h.posts.GetPostDetail(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	Render(c, http.StatusOK, "post/detail.html", gin.H{
		"Title":       detail.Post.Title,
		"Detail":      detail,
		"UnlockPrice": services.UnlockPrice,
	})
}

func (h *StoryHandler) ShowEdit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		RenderError(c, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}
	post, err := h.posts.GetOwnPost(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	catIDs := make([]uint, len(post.Categories))
	for i, cat := range post.Categories {
		catIDs[i] = cat.ID
	}
	tags := make([]string, len(post.HashTags))
	for i, tag := range post.HashTags {
		tags[i] = tag.Name
	}
	in := services.PostInput{
		Title:      post.Title,
		Content:    post.Content,
		Categories: catIDs,
		Hashtags:   strings.Join(tags, ", "),
		Mode:       post.Mode,
		Status:     &post.Status,
	}
	h.renderForm(c, http.StatusOK, gin.H{
		"Title":  "Edit post",
		"Action": fmt.Sprintf("/post/%d/edit", post.ID),
		"Input":  in,
		"Post":   post,
	})
}

func (h *StoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		RenderError(c, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}
	in := postInputFromForm(c)
	post, err := h.posts.EditPost(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		h.formFailure(c, err, gin.H{"Title": "Edit post", "Action": fmt.Sprintf("/post/%d/edit", id), "Input": in})
		return
	}
	c.Redirect(http.StatusFound, postURL(post))
}

func (h *StoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		RenderError(c, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}
	if err := h.posts.DeletePost(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Search serves both post and author search.
func (h *StoryHandler) Search(c *gin.Context) {
	searchType := c.Query("choices_single_default")
	if searchType == "" {
		searchType = c.Query("choices_single_defaul")
	}
	cats := append(c.QueryArray("list_category[]"), c.QueryArray("list_category")...)

	q := services.SearchQuery{
		Keyword:     c.Query("search_keyword"),
		Type:        searchType,
		CategoryIDs: utils.ParseIDs(cats),
		FromDate:    c.Query("from_date"),
		ToDate:      c.Query("to_date"),
		Point:       c.Query("point"),
		Page:        c.Query("page"),
	}
	page, err := h.search.Search(c.Request.Context(), q)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	categories, err := h.posts.Categories(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}

	Render(c, http.StatusOK, "search.html", gin.H{
		"Title":      "Search",
		"Result":     page,
		"Query":      q,
		"Categories": categories,
		"Active":     "search",
	})
}

func (h *StoryHandler) TrendingPosts(c *gin.Context) {
	posts, err := h.trending.TrendingPosts(c.Request.Context(), services.WidgetLimit)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	Render(c, http.StatusOK, "trending.html", gin.H{"Title": "Trending posts", "Trending": posts})
}

func (h *StoryHandler) FamousAuthors(c *gin.Context) {
	authors, err := h.trending.FamousAuthors(c.Request.Context(), services.WidgetLimit)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	Render(c, http.StatusOK, "famous.html", gin.H{"Title": "Famous authors", "Famous": authors})
}

// postURL is the detail page of p.
func postURL(p *models.Post) string {
	return fmt.Sprintf("/post/%d", p.ID)
}
