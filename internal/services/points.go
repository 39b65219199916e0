package services

import (
	"context"

	"infoshare/internal/models"

	"gorm.io/gorm"
)

// Ledger actions
const (
	ActionUnlockPost = "unlock private post"
	ActionPostSold   = "private post unlocked by reader"
)

// addPoints writes a ledger entry and moves the balance inside tx.
func addPoints(tx *gorm.DB, userID uint, amount int, action string, postID *uint) error {
	log := models.PointLog{
		UserID: userID,
		PostID: postID,
		Amount: amount,
		Action: action,
	}
	if err := tx.Create(&log).Error; err != nil {
		return err
	}

	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", amount)).
		Error
}

// debitPoints takes amount only if the balance covers it.
func debitPoints(tx *gorm.DB, userID uint, amount int, action string, postID *uint) error {
	res := tx.Model(&models.User{}).
		Where("id = ? AND points >= ?", userID, amount).
		UpdateColumn("points", gorm.Expr("points - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientPts
	}

	return tx.Create(&models.PointLog{
		UserID: userID,
		PostID: postID,
		Amount: -amount,
		Action: action,
	}).Error
}

// PointLogs lists a user's ledger, newest first.
func (s *PaywallService) PointLogs(ctx context.Context, user *models.User, limit int) ([]models.PointLog, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 {
		limit = 100
	}
	var logs []models.PointLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
