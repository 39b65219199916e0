package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"infoshare/internal/models"
	"infoshare/internal/utils"

	"gorm.io/gorm"
)

const (
	TrendingWindow = 7 * 24 * time.Hour
	FamousWindow   = 30 * 24 * time.Hour
	WidgetLimit    = 5
)

// TrendingPost is a post with its hot score.
type TrendingPost struct {
	PostCard
	Hot float64 `json:"hot"`
}

// FamousAuthor is an author ranked by feedback received in the window.
type FamousAuthor struct {
	models.User
	Score          int64  `json:"score"`
	FollowersCount int64  `json:"followers_count"`
	Rank           string `json:"rank"`
	Color          string `json:"color"`
}

// TrendingService computes the home page widgets.
type TrendingService struct {
	db    *gorm.DB
	cache *utils.GlobalCache
	ttl   time.Duration
	now   func() time.Time
}

func NewTrendingService(gdb *gorm.DB, cache *utils.GlobalCache, ttl time.Duration) *TrendingService {
	return &TrendingService{db: gdb, cache: cache, ttl: ttl, now: time.Now}
}

func (s *TrendingService) cached(key string) (interface{}, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	v := s.cache.Get(key)
	return v, v != nil
}

func (s *TrendingService) store(key string, v interface{}) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	s.cache.Set(key, v, s.ttl)
}

// TrendingPosts ranks normal posts created inside the window by hot score.
func (s *TrendingService) TrendingPosts(ctx context.Context, limit int) ([]TrendingPost, error) {
	if limit <= 0 {
		limit = WidgetLimit
	}
	key := fmt.Sprintf("trending:posts:%d", limit)
	if v, ok := s.cached(key); ok {
		return v.([]TrendingPost), nil
	}

	tx := s.db.WithContext(ctx)
	now := s.now()

	var posts []models.Post
	err := tx.Preload("User").
		Where("status = ? AND created_at >= ?", models.StatusNormal, now.Add(-TrendingWindow)).
		Order("id").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	cards, err := buildCards(tx, posts)
	if err != nil {
		return nil, err
	}
	votes, err := votesByPost(tx, postIDs(posts))
	if err != nil {
		return nil, err
	}

	out := make([]TrendingPost, len(cards))
	for i, c := range cards {
		v := votes[c.ID]
		out[i] = TrendingPost{
			PostCard: c,
			Hot:      utils.HotScore(now, c.CreatedAt, int(v.Ups), int(v.Downs), int(c.BookmarkCount), int(c.CommentCount)),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Hot > out[j].Hot
	})
	if len(out) > limit {
		out = out[:limit]
	}

	s.store(key, out)
	return out, nil
}

type authorScoreRow struct {
	UserID uint
	Score  int64
}

// FamousAuthors ranks authors by the feedback their normal posts received
// inside the window. Ties go to more followers, then the lower id.
func (s *TrendingService) FamousAuthors(ctx context.Context, limit int) ([]FamousAuthor, error) {
	if limit <= 0 {
		limit = WidgetLimit
	}
	key := fmt.Sprintf("trending:authors:%d", limit)
	if v, ok := s.cached(key); ok {
		return v.([]FamousAuthor), nil
	}

	tx := s.db.WithContext(ctx)
	since := s.now().Add(-FamousWindow)

	var rows []authorScoreRow
	err := tx.Model(&models.PostReaction{}).
		Select("posts.user_id AS user_id, COALESCE(SUM(post_reactions.feedback_value), 0) AS score").
		Joins("JOIN posts ON posts.id = post_reactions.post_id").
		Where("posts.status = ? AND posts.is_deleted = ? AND post_reactions.time >= ?", models.StatusNormal, 0, since).
		Group("posts.user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	scores := make(map[uint]int64, len(rows))
	for _, r := range rows {
		if r.Score <= 0 {
			continue
		}
		ids = append(ids, r.UserID)
		scores[r.UserID] = r.Score
	}
	if len(ids) == 0 {
		s.store(key, []FamousAuthor{})
		return []FamousAuthor{}, nil
	}

	var users []models.User
	if err := tx.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	followers, err := countByUser(tx, &models.Follow{}, "followed_id", ids, "")
	if err != nil {
		return nil, err
	}

	out := make([]FamousAuthor, len(users))
	for i, u := range users {
		rank, color := utils.AchievementRank(u.Achievement)
		out[i] = FamousAuthor{
			User:           u,
			Score:          scores[u.ID],
			FollowersCount: followers[u.ID],
			Rank:           rank,
			Color:          color,
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.FollowersCount != b.FollowersCount {
			return a.FollowersCount > b.FollowersCount
		}
		return a.ID < b.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}

	s.store(key, out)
	return out, nil
}
