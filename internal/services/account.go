package services

import (
	"context"
	"errors"
	"strings"

	"infoshare/internal/logger"
	"infoshare/internal/models"
	"infoshare/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username  string `form:"username" json:"username" binding:"required,min=3,max=150"`
	Password  string `form:"password" json:"password" binding:"required,min=6,max=72"`
	Email     string `form:"email" json:"email" binding:"omitempty,email,max=254"`
	FirstName string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" json:"last_name" binding:"max=150"`
}

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(gdb *gorm.DB) *AccountService {
	return &AccountService{db: gdb}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx)
	var count int64
	if err := tx.Unscoped().Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := tx.Create(user).Error; err != nil {
		return nil, err
	}
	logger.Info("user registered", logger.Uint("user_id", user.ID))
	return user, nil
}

// Authenticate checks a username and password pair.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return &user, nil
}

func (s *AccountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Profile is the public page of an author.
type Profile struct {
	User           models.User `json:"user"`
	Rank           string      `json:"rank"`
	Color          string      `json:"color"`
	FollowersCount int64       `json:"followers_count"`
	FollowingCount int64       `json:"following_count"`
	IsFollowing    bool        `json:"is_following"`
	Posts          []PostCard  `json:"posts"`
}

func (s *AccountService) Profile(ctx context.Context, viewer *models.User, id uint) (*Profile, error) {
	tx := s.db.WithContext(ctx)
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}

	p := &Profile{User: user}
	p.Rank, p.Color = utils.AchievementRank(user.Achievement)

	var err error
	if p.FollowersCount, err = followerCount(tx, user.ID); err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&p.FollowingCount).Error; err != nil {
		return nil, err
	}
	if viewer != nil && viewer.ID != 0 && viewer.ID != user.ID {
		if p.IsFollowing, err = exists(tx, &models.Follow{}, "follower_id = ? AND followed_id = ?", viewer.ID, user.ID); err != nil {
			return nil, err
		}
	}

	var posts []models.Post
	if err := tx.Preload("User").Preload("Categories").
		Where("user_id = ? AND status = ?", user.ID, models.StatusNormal).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	if p.Posts, err = buildCards(tx, posts); err != nil {
		return nil, err
	}
	return p, nil
}

// ProfileInput is the editable part of a user's own profile.
type ProfileInput struct {
	FirstName  string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName   string `form:"last_name" json:"last_name" binding:"max=150"`
	AvatarLink string `form:"avatar_link" json:"avatar_link" binding:"omitempty,url,max=1024"`
	Phone      string `form:"phone" json:"phone" binding:"omitempty,number,len=10"`
}

func (s *AccountService) UpdateProfile(ctx context.Context, user *models.User, in ProfileInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.AvatarLink = strings.TrimSpace(in.AvatarLink)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateStruct(&in); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"first_name":  in.FirstName,
		"last_name":   in.LastName,
		"avatar_link": in.AvatarLink,
		"phone":       in.Phone,
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return classify(err, ErrUnexpected, "update profile failed")
	}
	user.FirstName, user.LastName = in.FirstName, in.LastName
	user.AvatarLink, user.Phone = in.AvatarLink, in.Phone
	return nil
}

type PasswordInput struct {
	Old string `form:"old_password" binding:"required"`
	New string `form:"new_password" binding:"required,min=6,max=72"`
}

// ChangePassword replaces the password once the current one is confirmed.
func (s *AccountService) ChangePassword(ctx context.Context, user *models.User, in PasswordInput) error {
	if err := validateStruct(&in); err != nil {
		return err
	}

	tx := s.db.WithContext(ctx)
	var current models.User
	if err := tx.Select("id", "password").First(&current, user.ID).Error; err != nil {
		return notFound(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(current.Password), []byte(in.Old)) != nil {
		return newValidationError("old password", "old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.New), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("password", string(hash)).Error; err != nil {
		return classify(err, ErrUnexpected, "change password failed")
	}
	user.Password = string(hash)
	logger.Info("password changed", logger.Uint("user_id", user.ID))
	return nil
}

// VotedUp lists the normal posts a user has upvoted, most recent vote first.
func (s *AccountService) VotedUp(ctx context.Context, id uint) (*models.User, []PostCard, error) {
	tx := s.db.WithContext(ctx)
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		return nil, nil, notFound(err)
	}

	var posts []models.Post
	if err := tx.Preload("User").Preload("Categories").
		Joins("JOIN post_reactions ON post_reactions.post_id = posts.id").
		Where("post_reactions.user_id = ? AND post_reactions.feedback_value = ? AND posts.status = ?",
			user.ID, models.FeedbackUpvote, models.StatusNormal).
		Order("post_reactions.time DESC, posts.id DESC").
		Find(&posts).Error; err != nil {
		return nil, nil, err
	}
	cards, err := buildCards(tx, posts)
	if err != nil {
		return nil, nil, err
	}
	return &user, cards, nil
}
