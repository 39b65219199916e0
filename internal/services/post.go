package services

import (
	"context"
	"errors"
	"html/template"
	"strings"

	"infoshare/internal/logger"
	"infoshare/internal/models"
	"infoshare/internal/utils"

	"gorm.io/gorm"
)

const previewRunes = 200

// PostInput is shared by the create and edit forms.
type PostInput struct {
	Title      string `form:"title" json:"title" binding:"required,max=255"`
	Content    string `form:"content" json:"content" binding:"required"`
	Categories []uint `form:"categories" json:"categories" binding:"required,min=1"`
	Hashtags   string `form:"hashtags" json:"hashtags" binding:"max=2048"`
	Mode       int    `form:"mode" json:"mode" binding:"oneof=0 1"`
	Status     *int   `form:"status" json:"status" binding:"omitempty,min=0,max=5"`
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
}

// resolveStatus: private posts always go to review, otherwise the
// requested status or normal.
func (in *PostInput) resolveStatus() int {
	if in.Mode == models.ModePrivate {
		return models.StatusPending
	}
	if in.Status != nil {
		return *in.Status
	}
	return models.StatusNormal
}

// ParseHashtags splits a comma-joined tag list, trimming blanks and duplicates.
func ParseHashtags(raw string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "#"))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

type PostService struct {
	db *gorm.DB
}

func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

func (s *PostService) CreatePost(ctx context.Context, user *models.User, in PostInput) (*models.Post, error) {
	if err := requireActive(user); err != nil {
		return nil, err
	}
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:  user.ID,
		Title:   in.Title,
		Content: in.Content,
		Mode:    in.Mode,
		Status:  in.resolveStatus(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats, err := findCategories(tx, in.Categories)
		if err != nil {
			return err
		}
		tags, err := resolveHashTags(tx, in.Hashtags)
		if err != nil {
			return err
		}
		post.Categories = cats
		post.HashTags = tags
		return tx.Omit("Categories.*", "HashTags.*").Create(post).Error
	})
	if err != nil {
		return nil, classify(err, ErrIntegrity, "create post failed")
	}

	logger.Info("post created",
		logger.Uint("post_id", post.ID),
		logger.Uint("user_id", user.ID),
		logger.String("status", models.StatusName(post.Status)),
	)
	return post, nil
}

// EditPost rewrites the fields and tag sets of a post owned by user.
func (s *PostService) EditPost(ctx context.Context, user *models.User, postID uint, in PostInput) (*models.Post, error) {
	if err := requireActive(user); err != nil {
		return nil, err
	}
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	var post models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			return notFound(err)
		}
		if post.UserID != user.ID {
			return ErrPermission
		}

		status := in.resolveStatus()
		if post.Status == models.StatusBanned {
			status = models.StatusBanned
		}

		cats, err := findCategories(tx, in.Categories)
		if err != nil {
			return err
		}
		tags, err := resolveHashTags(tx, in.Hashtags)
		if err != nil {
			return err
		}

		if err := tx.Model(&post).Updates(map[string]interface{}{
			"title":   in.Title,
			"content": in.Content,
			"mode":    in.Mode,
			"status":  status,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&post).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&post).Association("HashTags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&post).Association("Categories").Append(cats); err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&post).Association("HashTags").Append(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var ve *ValidationError
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPermission) || errors.As(err, &ve) {
			return nil, err
		}
		logger.Error("edit post rolled back", logger.Uint("post_id", postID), logger.ErrorField(err))
		return nil, ErrIntegrity
	}
	return &post, nil
}

// DeletePost marks the post deleted; the row stays.
func (s *PostService) DeletePost(ctx context.Context, user *models.User, postID uint) error {
	if user == nil || user.ID == 0 {
		return ErrUnauthenticated
	}
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		return notFound(err)
	}
	if post.UserID != user.ID {
		return ErrPermission
	}
	return s.db.WithContext(ctx).Model(&post).Update("status", models.StatusDeleted).Error
}

// PostDetail is everything the detail page shows.
type PostDetail struct {
	Post           models.Post   `json:"post"`
	ContentHTML    template.HTML `json:"content_html"`
	Locked         bool          `json:"locked"`
	FeedbackValue  int           `json:"total_feedback_value"`
	MyReaction     int           `json:"my_reaction"`
	AuthorRank     string        `json:"author_rank"`
	AuthorColor    string        `json:"author_color"`
	FollowersCount int64         `json:"followers_count"`
	IsBookmarked   bool          `json:"is_bookmarked"`
	IsFollowing    bool          `json:"is_following"`
	IsOwner        bool          `json:"is_owner"`
	IsPaid         bool          `json:"is_paid"`
	Comments       CommentTree   `json:"comments"`
}

// GetPostDetail loads a visible post, counts the view and assembles the page.
func (s *PostService) GetPostDetail(ctx context.Context, viewer *models.User, postID uint) (*PostDetail, error) {
	tx := s.db.WithContext(ctx)

	post, err := loadPostFor(tx, viewer, postID)
	if err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		return nil, err
	}

	if err := tx.Preload("User").Preload("Categories").Preload("HashTags").First(post, post.ID).Error; err != nil {
		return nil, notFound(err)
	}

	d := &PostDetail{Post: *post}
	d.IsOwner = viewer != nil && viewer.ID == post.UserID
	d.AuthorRank, d.AuthorColor = utils.AchievementRank(post.User.Achievement)

	if d.FeedbackValue, err = postScore(tx, post.ID); err != nil {
		return nil, err
	}
	if d.FollowersCount, err = followerCount(tx, post.UserID); err != nil {
		return nil, err
	}

	if viewer != nil && viewer.ID != 0 {
		if d.IsBookmarked, err = exists(tx, &models.Bookmark{}, "user_id = ? AND post_id = ?", viewer.ID, post.ID); err != nil {
			return nil, err
		}
		if d.IsFollowing, err = exists(tx, &models.Follow{}, "follower_id = ? AND followed_id = ?", viewer.ID, post.UserID); err != nil {
			return nil, err
		}
		if d.IsPaid, err = hasPaid(tx, viewer.ID, post.ID); err != nil {
			return nil, err
		}
		var mine models.PostReaction
		err = tx.Where("user_id = ? AND post_id = ?", viewer.ID, post.ID).Order("id").Limit(1).Find(&mine).Error
		if err != nil {
			return nil, err
		}
		d.MyReaction = mine.FeedbackValue
	}

	if post.IsPrivate() && !canModerate(viewer, post) && !d.IsPaid {
		d.Locked = true
		d.ContentHTML = template.HTML(template.HTMLEscapeString(utils.Preview(post.Content, previewRunes)))
		d.Post.Content = ""
	} else {
		d.ContentHTML = utils.RenderMarkdown(post.Content)
	}

	comments, err := listComments(tx, post.ID)
	if err != nil {
		return nil, err
	}
	d.Comments = BuildCommentTree(comments)
	return d, nil
}

// ListRecent pages through normal posts, newest first.
func (s *PostService) ListRecent(ctx context.Context, rawPage string, perPage int) ([]PostCard, utils.Pager, error) {
	tx := s.db.WithContext(ctx)

	var total int64
	if err := tx.Model(&models.Post{}).Where("status = ?", models.StatusNormal).Count(&total).Error; err != nil {
		return nil, utils.Pager{}, err
	}
	pager := utils.NewPager(rawPage, total, perPage)

	var posts []models.Post
	err := tx.Preload("User").Preload("Categories").
		Where("status = ?", models.StatusNormal).
		Order("created_at DESC, id DESC").
		Offset(pager.Offset()).Limit(pager.PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, pager, err
	}
	cards, err := buildCards(tx, posts)
	return cards, pager, err
}

// GetOwnPost loads a post for its edit form.
func (s *PostService) GetOwnPost(ctx context.Context, user *models.User, postID uint) (*models.Post, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrUnauthenticated
	}
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Categories").Preload("HashTags").First(&post, postID).Error; err != nil {
		return nil, notFound(err)
	}
	if post.UserID != user.ID {
		return nil, ErrPermission
	}
	return &post, nil
}

// Categories lists the live categories for forms and search filters.
func (s *PostService) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := s.db.WithContext(ctx).Order("id").Find(&cats).Error
	return cats, err
}

func findCategories(tx *gorm.DB, ids []uint) ([]models.Category, error) {
	want := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if id != 0 && !seen[id] {
			seen[id] = true
			want = append(want, id)
		}
	}
	if len(want) == 0 {
		return nil, newValidationError("categories", "choose at least 1 categories")
	}

	var cats []models.Category
	if err := tx.Where("id IN ?", want).Order("id").Find(&cats).Error; err != nil {
		return nil, err
	}
	if len(cats) != len(want) {
		return nil, newValidationError("categories", "select a valid category")
	}
	return cats, nil
}

func resolveHashTags(tx *gorm.DB, raw string) ([]models.HashTag, error) {
	names := ParseHashtags(raw)
	tags := make([]models.HashTag, 0, len(names))
	for _, name := range names {
		if len([]rune(name)) > 255 {
			return nil, newValidationError("hashtags", "hashtags must be at most 255 characters")
		}
		var tag models.HashTag
		if err := tx.Where(models.HashTag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var n int64
	err := tx.Model(model).Where(query, args...).Count(&n).Error
	return n > 0, err
}

// ListByCategory pages through the normal posts of one category.
func (s *PostService) ListByCategory(ctx context.Context, categoryID uint, rawPage string, perPage int) (*models.Category, []PostCard, utils.Pager, error) {
	tx := s.db.WithContext(ctx)

	var cat models.Category
	if err := tx.First(&cat, categoryID).Error; err != nil {
		return nil, nil, utils.Pager{}, notFound(err)
	}

	scope := func() *gorm.DB {
		return tx.Model(&models.Post{}).
			Where("status = ?", models.StatusNormal).
			Where("id IN (SELECT post_id FROM post_categories WHERE category_id = ?)", cat.ID)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, nil, utils.Pager{}, err
	}
	pager := utils.NewPager(rawPage, total, perPage)

	var posts []models.Post
	err := scope().Preload("User").Preload("Categories").
		Order("created_at DESC, id DESC").
		Offset(pager.Offset()).Limit(pager.PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, nil, pager, err
	}
	cards, err := buildCards(tx, posts)
	return &cat, cards, pager, err
}
