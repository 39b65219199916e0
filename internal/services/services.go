package services

import (
	"errors"
	"net/http"
	"time"

	"infoshare/internal/logger"
	"infoshare/internal/models"
	"infoshare/internal/utils"

	"gorm.io/gorm"
)

// Services bundles every domain service over one database handle.
type Services struct {
	Posts         *PostService
	Comments      *CommentService
	Engagement    *EngagementService
	Search        *SearchService
	Paywall       *PaywallService
	Notifications *NotificationService
	Trending      *TrendingService
	Moderation    *ModerationService
	Accounts      *AccountService
}

// New wires the services. cache may be nil, which disables widget caching.
func New(gdb *gorm.DB, cache *utils.GlobalCache, cacheTTL time.Duration) *Services {
	notes := NewNotificationService(gdb)
	return &Services{
		Posts:         NewPostService(gdb),
		Comments:      NewCommentService(gdb, notes),
		Engagement:    NewEngagementService(gdb, notes),
		Search:        NewSearchService(gdb),
		Paywall:       NewPaywallService(gdb),
		Notifications: notes,
		Trending:      NewTrendingService(gdb, cache, cacheTTL),
		Moderation:    NewModerationService(gdb),
		Accounts:      NewAccountService(gdb),
	}
}

// requireActive rejects anonymous and currently banned users.
func requireActive(user *models.User) error {
	if user == nil || user.ID == 0 {
		return ErrUnauthenticated
	}
	if user.IsBanned(time.Now()) {
		return ErrBanned
	}
	return nil
}

func canModerate(viewer *models.User, post *models.Post) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsStaff || viewer.ID == post.UserID
}

// loadPostFor returns the post if viewer may see it: normal posts are public,
// any other status is only visible to the owner and staff.
func loadPostFor(tx *gorm.DB, viewer *models.User, postID uint) (*models.Post, error) {
	var post models.Post
	if err := tx.First(&post, postID).Error; err != nil {
		return nil, notFound(err)
	}
	if post.Status != models.StatusNormal && !canModerate(viewer, &post) {
		return nil, ErrNotFound
	}
	return &post, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// classify lets business errors through and hides everything else behind fallback.
func classify(err error, fallback error, msg string) error {
	if err == nil {
		return nil
	}
	if StatusOf(err) != http.StatusInternalServerError {
		return err
	}
	logger.Error(msg, logger.ErrorField(err))
	return fallback
}
