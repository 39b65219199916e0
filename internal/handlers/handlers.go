package handlers

import (
	"net/http"

	"infoshare/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers groups every HTTP handler of the site.
type Handlers struct {
	Story        *StoryHandler
	Comment      *CommentHandler
	Vote         *VoteHandler
	Bookmark     *BookmarkHandler
	Pay          *PayHandler
	Notification *NotificationHandler
	User         *UserHandler
	Auth         *AuthHandler
	Moderation   *ModerationHandler
	Category     *CategoryHandler

	db *gorm.DB
}

func New(svc *services.Services, gdb *gorm.DB) *Handlers {
	return &Handlers{
		Story:        NewStoryHandler(svc),
		Comment:      NewCommentHandler(svc),
		Vote:         NewVoteHandler(svc),
		Bookmark:     NewBookmarkHandler(svc),
		Pay:          NewPayHandler(svc),
		Notification: NewNotificationHandler(svc),
		User:         NewUserHandler(svc),
		Auth:         NewAuthHandler(svc),
		Moderation:   NewModerationHandler(svc),
		Category:     NewCategoryHandler(svc),
		db:           gdb,
	}
}

// Healthz reports whether the database answers.
func (h *Handlers) Healthz(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
