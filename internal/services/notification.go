package services

import (
	"context"

	"infoshare/internal/models"

	"gorm.io/gorm"
)

// NotificationService writes notifications inside the caller's transaction
// and serves the inbox.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(gdb *gorm.DB) *NotificationService {
	return &NotificationService{db: gdb}
}

// NotifyComment tells the post owner about a new top-level comment.
func (s *NotificationService) NotifyComment(tx *gorm.DB, actorID uint, post *models.Post) error {
	return s.create(tx, actorID, post.UserID, models.NotifyComment, post.ID)
}

// NotifyReply tells the author of the replied-to comment.
func (s *NotificationService) NotifyReply(tx *gorm.DB, actorID, receiverID, postID uint) error {
	return s.create(tx, actorID, receiverID, models.NotifyReply, postID)
}

// NotifyLike records a like once per (actor, owner, post).
func (s *NotificationService) NotifyLike(tx *gorm.DB, actorID uint, post *models.Post) error {
	if actorID == post.UserID {
		return nil
	}
	var n models.Notification
	return tx.Where("action_user_id = ? AND receive_user_id = ? AND type_notify = ? AND content = ?",
		actorID, post.UserID, models.NotifyLike, post.ID).
		Attrs(models.Notification{
			ActionUserID:  actorID,
			ReceiveUserID: post.UserID,
			TypeNotify:    models.NotifyLike,
			Content:       post.ID,
		}).
		FirstOrCreate(&n).Error
}

// RemoveLike deletes exactly the like notification of actor on post.
func (s *NotificationService) RemoveLike(tx *gorm.DB, actorID uint, post *models.Post) error {
	return tx.Where("action_user_id = ? AND receive_user_id = ? AND type_notify = ? AND content = ?",
		actorID, post.UserID, models.NotifyLike, post.ID).
		Delete(&models.Notification{}).Error
}

func (s *NotificationService) create(tx *gorm.DB, actorID, receiverID uint, typ models.NotificationType, postID uint) error {
	if actorID == receiverID {
		return nil
	}
	return tx.Create(&models.Notification{
		ActionUserID:  actorID,
		ReceiveUserID: receiverID,
		TypeNotify:    typ,
		Content:       postID,
	}).Error
}

// List returns the newest notifications of user.
func (s *NotificationService) List(ctx context.Context, user *models.User, limit int) ([]models.Notification, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 {
		limit = 50
	}
	var list []models.Notification
	err := s.db.WithContext(ctx).
		Preload("ActionUser").
		Where("receive_user_id = ?", user.ID).
		Order("time DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receive_user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkAllRead is idempotent; it returns how many rows changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, user *models.User) (int64, error) {
	if user == nil || user.ID == 0 {
		return 0, ErrUnauthenticated
	}
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receive_user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *NotificationService) MarkRead(ctx context.Context, user *models.User, id uint) error {
	if user == nil || user.ID == 0 {
		return ErrUnauthenticated
	}
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND receive_user_id = ?", id, user.ID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, user *models.User, id uint) error {
	if user == nil || user.ID == 0 {
		return ErrUnauthenticated
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND receive_user_id = ?", id, user.ID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
