package services

import (
	"context"
	"errors"

	"infoshare/internal/logger"
	"infoshare/internal/models"

	"gorm.io/gorm"
)

const (
	ReactUpvote   = "upvote"
	ReactDownvote = "downvote"
)

// Outcomes of a toggle.
const (
	ResultAdded   = "added"
	ResultRemoved = "removed"
	ResultChanged = "changed"
)

type ReactResult struct {
	Result        string `json:"result"`
	FeedbackValue int    `json:"feedback_value"`
	TotalScore    int    `json:"total_feedback_value"`
}

type ToggleResult struct {
	Result string `json:"result"`
	Count  int64  `json:"count"`
}

type FollowResult struct {
	Type           string `json:"type"`
	FollowersCount int64  `json:"followers_count"`
}

// EngagementService handles reactions, bookmarks and follows.
type EngagementService struct {
	db    *gorm.DB
	notes *NotificationService
}

func NewEngagementService(gdb *gorm.DB, notes *NotificationService) *EngagementService {
	return &EngagementService{db: gdb, notes: notes}
}

func feedbackFor(kind string) (int, bool) {
	switch kind {
	case ReactUpvote:
		return models.FeedbackUpvote, true
	case ReactDownvote:
		return models.FeedbackDownvote, true
	}
	return 0, false
}

// React toggles the user's reaction on a post: a new kind is added, the same
// kind is removed, the opposite kind overwrites. Like notifications follow the
// upvote state.
func (s *EngagementService) React(ctx context.Context, user *models.User, postID uint, kind string) (*ReactResult, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrUnauthenticated
	}
	value, ok := feedbackFor(kind)
	if !ok {
		return nil, newValidationError("kind", "reaction must be upvote or downvote")
	}

	res := &ReactResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := loadPostFor(tx, nil, postID)
		if err != nil {
			return err
		}
		var existing models.PostReaction
		err = tx.Where("user_id = ? AND post_id = ?", user.ID, post.ID).Order("id").First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.PostReaction{
				UserID:        user.ID,
				PostID:        post.ID,
				FeedbackValue: value,
			}).Error; err != nil {
				return err
			}
			res.Result = ResultAdded
			res.FeedbackValue = value
			if value == models.FeedbackUpvote {
				if err := s.notes.NotifyLike(tx, user.ID, post); err != nil {
					return err
				}
			}
		case err != nil:
			return err
		case existing.FeedbackValue == value:
			if err := tx.Where("user_id = ? AND post_id = ?", user.ID, post.ID).
				Delete(&models.PostReaction{}).Error; err != nil {
				return err
			}
			res.Result = ResultRemoved
			if value == models.FeedbackUpvote {
				if err := s.notes.RemoveLike(tx, user.ID, post); err != nil {
					return err
				}
			}
		default:
			if err := tx.Model(&models.PostReaction{}).
				Where("user_id = ? AND post_id = ?", user.ID, post.ID).
				Update("feedback_value", value).Error; err != nil {
				return err
			}
			res.Result = ResultChanged
			res.FeedbackValue = value
			if existing.FeedbackValue == models.FeedbackUpvote {
				if err := s.notes.RemoveLike(tx, user.ID, post); err != nil {
					return err
				}
			}
		}

		res.TotalScore, err = postScore(tx, post.ID)
		return err
	})
	if err != nil {
		return nil, classify(err, ErrUnexpected, "react failed")
	}

	logger.Debug("reaction toggled",
		logger.Uint("post_id", postID),
		logger.Uint("user_id", user.ID),
		logger.String("result", res.Result),
	)
	return res, nil
}

// ToggleBookmark saves or unsaves a post.
func (s *EngagementService) ToggleBookmark(ctx context.Context, user *models.User, postID uint) (*ToggleResult, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrUnauthenticated
	}
	res := &ToggleResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := loadPostFor(tx, user, postID)
		if err != nil {
			return err
		}
		del := tx.Where("user_id = ? AND post_id = ?", user.ID, post.ID).Delete(&models.Bookmark{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected > 0 {
			res.Result = ResultRemoved
		} else {
			if err := tx.Create(&models.Bookmark{UserID: user.ID, PostID: post.ID}).Error; err != nil {
				return err
			}
			res.Result = ResultAdded
		}
		return tx.Model(&models.Bookmark{}).Where("post_id = ?", post.ID).Count(&res.Count).Error
	})
	if err != nil {
		return nil, classify(err, ErrUnexpected, "bookmark failed")
	}
	return res, nil
}

// ToggleFollow follows or unfollows target.
func (s *EngagementService) ToggleFollow(ctx context.Context, user *models.User, targetID uint) (*FollowResult, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrUnauthenticated
	}
	if user.ID == targetID {
		return nil, ErrFollowSelf
	}
	res := &FollowResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.First(&target, targetID).Error; err != nil {
			return notFound(err)
		}
		del := tx.Where("follower_id = ? AND followed_id = ?", user.ID, target.ID).Delete(&models.Follow{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected > 0 {
			res.Type = "unfollowed"
		} else {
			if err := tx.Create(&models.Follow{FollowerID: user.ID, FollowedID: target.ID}).Error; err != nil {
				return err
			}
			res.Type = "followed"
		}
		var err error
		res.FollowersCount, err = followerCount(tx, target.ID)
		return err
	})
	if err != nil {
		return nil, classify(err, ErrUnexpected, "follow failed")
	}
	return res, nil
}
