package services

import (
	"context"
	"strings"
	"time"

	"infoshare/internal/logger"
	"infoshare/internal/models"

	"gorm.io/gorm"
)

// Report kinds for ResolveReport.
const (
	ReportKindPost = "post"
	ReportKindUser = "user"
)

type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(gdb *gorm.DB) *ModerationService {
	return &ModerationService{db: gdb}
}

func requireStaff(user *models.User) error {
	if user == nil || user.ID == 0 {
		return ErrUnauthenticated
	}
	if !user.IsStaff {
		return ErrPermission
	}
	return nil
}

// SetPostStatus moves a post through review: approve, reject or ban.
func (s *ModerationService) SetPostStatus(ctx context.Context, staff *models.User, postID uint, status int) error {
	if err := requireStaff(staff); err != nil {
		return err
	}
	if status < models.StatusDraft || status > models.StatusRejected {
		return newValidationError("status", "status must be between 0 and 5")
	}
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	logger.Info("post status changed",
		logger.Uint("post_id", postID),
		logger.Uint("staff_id", staff.ID),
		logger.String("status", models.StatusName(status)),
	)
	return nil
}

type ReportInput struct {
	Reason string `form:"reason" json:"reason" binding:"required,max=1024"`
}

func (s *ModerationService) ReportPost(ctx context.Context, user *models.User, postID uint, in ReportInput) (*models.ReportPost, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrUnauthenticated
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	tx := s.db.WithContext(ctx)
	if _, err := loadPostFor(tx, user, postID); err != nil {
		return nil, err
	}
	report := &models.ReportPost{ReporterID: user.ID, PostID: postID, Reason: in.Reason}
	if err := tx.Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ModerationService) ReportUser(ctx context.Context, user *models.User, targetID uint, in ReportInput) (*models.ReportUser, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrUnauthenticated
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	tx := s.db.WithContext(ctx)
	var target models.User
	if err := tx.First(&target, targetID).Error; err != nil {
		return nil, notFound(err)
	}
	report := &models.ReportUser{ReporterID: user.ID, ReportedUserID: target.ID, Reason: in.Reason}
	if err := tx.Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// ResolveReport closes a post or user report.
func (s *ModerationService) ResolveReport(ctx context.Context, staff *models.User, kind string, id uint) error {
	if err := requireStaff(staff); err != nil {
		return err
	}
	var model interface{}
	switch kind {
	case ReportKindPost:
		model = &models.ReportPost{}
	case ReportKindUser:
		model = &models.ReportUser{}
	default:
		return newValidationError("kind", "report kind must be post or user")
	}
	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("is_resolved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// OpenReports lists unresolved reports, oldest first.
func (s *ModerationService) OpenReports(ctx context.Context, staff *models.User) ([]models.ReportPost, []models.ReportUser, error) {
	if err := requireStaff(staff); err != nil {
		return nil, nil, err
	}
	tx := s.db.WithContext(ctx)
	var posts []models.ReportPost
	if err := tx.Preload("Reporter").Preload("Post").Where("is_resolved = ?", false).Order("id").Find(&posts).Error; err != nil {
		return nil, nil, err
	}
	var users []models.ReportUser
	if err := tx.Preload("Reporter").Preload("ReportedUser").Where("is_resolved = ?", false).Order("id").Find(&users).Error; err != nil {
		return nil, nil, err
	}
	return posts, users, nil
}

// PendingPosts lists posts waiting for review.
func (s *ModerationService) PendingPosts(ctx context.Context, staff *models.User) ([]models.Post, error) {
	if err := requireStaff(staff); err != nil {
		return nil, err
	}
	var posts []models.Post
	err := s.db.WithContext(ctx).Preload("User").
		Where("status = ?", models.StatusPending).
		Order("created_at, id").
		Find(&posts).Error
	return posts, err
}

// BanUser blocks posting and commenting until the given time and counts the violation.
func (s *ModerationService) BanUser(ctx context.Context, staff *models.User, userID uint, until time.Time) error {
	if err := requireStaff(staff); err != nil {
		return err
	}
	if staff.ID == userID {
		return newValidationError("user", "you cannot ban yourself")
	}
	if !until.After(time.Now()) {
		return newValidationError("until", "ban must end in the future")
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"time_banned":    until,
			"count_violated": gorm.Expr("count_violated + ?", 1),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	logger.Warn("user banned", logger.Uint("user_id", userID), logger.Uint("staff_id", staff.ID))
	return nil
}
