package services

import (
	"context"
	"errors"
	"time"

	"infoshare/internal/logger"
	"infoshare/internal/models"

	"gorm.io/gorm"
)

const (
	UnlockPrice      = 10
	UnlockOwnerShare = 5
)

type Receipt struct {
	PostID       uint      `json:"post_id"`
	Price        int       `json:"price"`
	OwnerShare   int       `json:"owner_share"`
	BalanceAfter int       `json:"balance_after"`
	Time         time.Time `json:"time"`
}

type PaywallService struct {
	db *gorm.DB
}

func NewPaywallService(gdb *gorm.DB) *PaywallService {
	return &PaywallService{db: gdb}
}

// PayForPost unlocks a private post: the buyer pays the price, the owner gets
// their share, and the purchase and both ledger entries are written together.
func (s *PaywallService) PayForPost(ctx context.Context, user *models.User, postID uint) (*Receipt, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrUnauthenticated
	}

	var receipt *Receipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := loadPostFor(tx, user, postID)
		if err != nil {
			return err
		}
		if !post.IsPrivate() {
			return ErrNotPaywalled
		}
		if post.UserID == user.ID {
			return ErrOwnPost
		}

		paid, err := hasPaid(tx, user.ID, post.ID)
		if err != nil {
			return err
		}
		if paid {
			return &ConflictError{Err: ErrAlreadyPurchased}
		}

		if err := debitPoints(tx, user.ID, UnlockPrice, ActionUnlockPost, &post.ID); err != nil {
			return err
		}
		if err := addPoints(tx, post.UserID, UnlockOwnerShare, ActionPostSold, &post.ID); err != nil {
			return err
		}
		purchase := models.PostPaid{UserID: user.ID, PostID: post.ID}
		if err := tx.Create(&purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Err: ErrAlreadyPurchased}
			}
			return err
		}

		var buyer models.User
		if err := tx.Select("points").First(&buyer, user.ID).Error; err != nil {
			return err
		}
		receipt = &Receipt{
			PostID:       post.ID,
			Price:        UnlockPrice,
			OwnerShare:   UnlockOwnerShare,
			BalanceAfter: buyer.Points,
			Time:         purchase.Time,
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, ErrUnexpected, "pay for post failed")
	}

	logger.Info("post unlocked",
		logger.Uint("post_id", postID),
		logger.Uint("buyer_id", user.ID),
		logger.Int("balance_after", receipt.BalanceAfter),
	)
	return receipt, nil
}

// HasPaid reports whether user unlocked post.
func (s *PaywallService) HasPaid(ctx context.Context, userID, postID uint) (bool, error) {
	return hasPaid(s.db.WithContext(ctx), userID, postID)
}

func hasPaid(tx *gorm.DB, userID, postID uint) (bool, error) {
	return exists(tx, &models.PostPaid{}, "user_id = ? AND post_id = ?", userID, postID)
}
