package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"infoshare/internal/models"
	"infoshare/internal/utils"

	"gorm.io/gorm"
)

const (
	SearchTypePost   = "Post"
	SearchTypeAuthor = "Author"

	SearchPageSize = 9
	dateLayout     = "01/02/2006"
)

// Score buckets accepted by the point filter.
const (
	BucketUnder100 = "<100"
	Bucket100      = "100-499"
	Bucket500      = "500-999"
	BucketOver1000 = ">1000"
)

type SearchQuery struct {
	Keyword     string
	Type        string
	CategoryIDs []uint
	FromDate    string
	ToDate      string
	Point       string
	Page        string
}

// AuthorCard is an author search hit.
type AuthorCard struct {
	models.User
	PostCount     int64  `json:"post_count"`
	FollowerCount int64  `json:"follower_count"`
	Rank          string `json:"rank"`
	Color         string `json:"color"`
}

type SearchPage struct {
	Keyword string       `json:"search_keyword"`
	Type    string       `json:"type"`
	Posts   []PostCard   `json:"posts"`
	Authors []AuthorCard `json:"authors"`
	Pager   utils.Pager  `json:"pager"`
}

type SearchService struct {
	db *gorm.DB
}

func NewSearchService(gdb *gorm.DB) *SearchService {
	return &SearchService{db: gdb}
}

// Search runs a post or author query. A missing keyword or unknown type yields
// an empty first page rather than an error.
func (s *SearchService) Search(ctx context.Context, q SearchQuery) (*SearchPage, error) {
	q.Keyword = strings.TrimSpace(q.Keyword)
	page := &SearchPage{Keyword: q.Keyword, Type: q.Type}

	switch {
	case q.Keyword == "":
		page.Pager = utils.NewPager(q.Page, 0, SearchPageSize)
		return page, nil
	case q.Type == SearchTypePost:
		return page, s.searchPosts(ctx, q, page)
	case q.Type == SearchTypeAuthor:
		return page, s.searchAuthors(ctx, q, page)
	}
	page.Pager = utils.NewPager(q.Page, 0, SearchPageSize)
	return page, nil
}

func (s *SearchService) searchPosts(ctx context.Context, q SearchQuery, page *SearchPage) error {
	tx := s.db.WithContext(ctx)
	pattern := likePattern(q.Keyword)

	query := tx.Model(&models.Post{}).
		Where("status = ?", models.StatusNormal).
		Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`, pattern, pattern)

	if from, ok := parseDate(q.FromDate); ok {
		query = query.Where("created_at >= ?", from)
	}
	if to, ok := parseDate(q.ToDate); ok {
		query = query.Where("created_at < ?", to.AddDate(0, 0, 1))
	}
	for _, id := range q.CategoryIDs {
		query = query.Where("id IN (SELECT post_id FROM post_categories WHERE category_id = ?)", id)
	}

	var posts []models.Post
	if err := query.Preload("User").Preload("Categories").Order("id").Find(&posts).Error; err != nil {
		return err
	}
	cards, err := buildCards(tx, posts)
	if err != nil {
		return err
	}

	filtered := cards[:0]
	for _, c := range cards {
		if inBucket(c.Score, q.Point) {
			filtered = append(filtered, c)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	page.Pager = utils.NewPager(q.Page, int64(len(filtered)), SearchPageSize)
	start, end := page.Pager.Bounds(len(filtered))
	page.Posts = filtered[start:end]
	return nil
}

func (s *SearchService) searchAuthors(ctx context.Context, q SearchQuery, page *SearchPage) error {
	tx := s.db.WithContext(ctx)
	pattern := likePattern(q.Keyword)
	match := func() *gorm.DB {
		return tx.Model(&models.User{}).
			Where(`(LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := match().Count(&total).Error; err != nil {
		return err
	}
	page.Pager = utils.NewPager(q.Page, total, SearchPageSize)

	var users []models.User
	err := match().
		Order("achievement DESC, id ASC").
		Offset(page.Pager.Offset()).Limit(page.Pager.PerPage).
		Find(&users).Error
	if err != nil {
		return err
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	posts, err := countByUser(tx, &models.Post{}, "user_id", ids, "status = ?", models.StatusNormal)
	if err != nil {
		return err
	}
	followers, err := countByUser(tx, &models.Follow{}, "followed_id", ids, "")
	if err != nil {
		return err
	}

	page.Authors = make([]AuthorCard, len(users))
	for i, u := range users {
		rank, color := utils.AchievementRank(u.Achievement)
		page.Authors[i] = AuthorCard{
			User:          u,
			PostCount:     posts[u.ID],
			FollowerCount: followers[u.ID],
			Rank:          rank,
			Color:         color,
		}
	}
	return nil
}

type userCountRow struct {
	UserID uint
	Total  int64
}

func countByUser(tx *gorm.DB, model interface{}, column string, ids []uint, cond string, args ...interface{}) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := tx.Model(model).
		Select(column+" AS user_id, COUNT(*) AS total").
		Where(column+" IN ?", ids)
	if cond != "" {
		query = query.Where(cond, args...)
	}
	var rows []userCountRow
	if err := query.Group(column).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.UserID] = r.Total
	}
	return out, nil
}

// inBucket applies the point filter; unknown or empty buckets match everything.
func inBucket(score int, bucket string) bool {
	switch bucket {
	case BucketUnder100:
		return score < 100
	case Bucket100:
		return score >= 100 && score < 500
	case Bucket500:
		return score >= 500 && score < 1000
	case BucketOver1000:
		return score >= 1000
	}
	return true
}

// parseDate reads mm/dd/yyyy; anything else is ignored by the caller.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func likePattern(keyword string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(keyword))
	return "%" + escaped + "%"
}
