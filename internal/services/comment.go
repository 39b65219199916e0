package services

import (
	"context"
	"errors"
	"strings"

	"infoshare/internal/logger"
	"infoshare/internal/models"

	"gorm.io/gorm"
)

type CommentInput struct {
	PostID   uint   `binding:"required"`
	Content  string `binding:"required,max=10000"`
	ParentID *uint
}

type CommentService struct {
	db    *gorm.DB
	notes *NotificationService
}

func NewCommentService(gdb *gorm.DB, notes *NotificationService) *CommentService {
	return &CommentService{db: gdb, notes: notes}
}

// CreateComment adds a comment or reply. Replies to replies are stored under
// the top-level comment of the thread, while the notification goes to the
// author of the comment actually answered.
func (s *CommentService) CreateComment(ctx context.Context, user *models.User, in CommentInput) (*models.Comment, error) {
	if err := requireActive(user); err != nil {
		return nil, err
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  in.PostID,
		UserID:  user.ID,
		Content: in.Content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := loadPostFor(tx, user, in.PostID)
		if err != nil {
			return err
		}

		var replyTo *models.Comment
		if in.ParentID != nil {
			var parent models.Comment
			if err := tx.First(&parent, *in.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return newValidationError("parent", "the comment you reply to does not exist")
				}
				return err
			}
			if parent.PostID != post.ID {
				return newValidationError("parent", "the comment you reply to belongs to another post")
			}
			rootID := parent.ID
			if parent.ParentID != nil {
				rootID = *parent.ParentID
			}
			comment.ParentID = &rootID
			replyTo = &parent
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if replyTo == nil {
			return s.notes.NotifyComment(tx, user.ID, post)
		}
		return s.notes.NotifyReply(tx, user.ID, replyTo.UserID, post.ID)
	})
	if err != nil {
		return nil, classify(err, ErrUnexpected, "create comment failed")
	}

	logger.Debug("comment created", logger.Uint("comment_id", comment.ID), logger.Uint("post_id", comment.PostID))
	return comment, nil
}

// EditComment lets the author rewrite a comment.
func (s *CommentService) EditComment(ctx context.Context, user *models.User, commentID uint, content string) (*models.Comment, error) {
	if err := requireActive(user); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, newValidationError("content", "content is required")
	}
	if len(content) > 10000 {
		return nil, newValidationError("content", "content must be at most 10000 characters")
	}

	var comment models.Comment
	tx := s.db.WithContext(ctx)
	if err := tx.First(&comment, commentID).Error; err != nil {
		return nil, notFound(err)
	}
	if comment.UserID != user.ID {
		return nil, ErrPermission
	}
	if err := tx.Model(&comment).Updates(map[string]interface{}{
		"content":   content,
		"is_edited": true,
	}).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// listComments returns a post's comments, most recently updated first.
func listComments(tx *gorm.DB, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := tx.Preload("User").
		Where("post_id = ?", postID).
		Order("updated_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}
