package services

import (
	"infoshare/internal/models"
	"infoshare/internal/utils"

	"gorm.io/gorm"
)

// PostCard is a post enriched with the aggregates list pages show.
type PostCard struct {
	models.Post
	Score         int    `json:"score"`
	BookmarkCount int64  `json:"bookmark_count"`
	CommentCount  int64  `json:"comment_count"`
	AuthorRank    string `json:"author_rank"`
	AuthorColor   string `json:"author_color"`
}

type sumRow struct {
	PostID uint
	Total  int64
}

type voteRow struct {
	PostID uint
	Ups    int64
	Downs  int64
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

// scoreByPost sums feedback per post in one grouped query.
func scoreByPost(tx *gorm.DB, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []sumRow
	err := tx.Model(&models.PostReaction{}).
		Select("post_id, COALESCE(SUM(feedback_value), 0) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.PostID] = r.Total
	}
	return out, nil
}

func votesByPost(tx *gorm.DB, ids []uint) (map[uint]voteRow, error) {
	out := make(map[uint]voteRow, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []voteRow
	err := tx.Model(&models.PostReaction{}).
		Select("post_id, "+
			"SUM(CASE WHEN feedback_value > 0 THEN 1 ELSE 0 END) AS ups, "+
			"SUM(CASE WHEN feedback_value < 0 THEN 1 ELSE 0 END) AS downs").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.PostID] = r
	}
	return out, nil
}

// countByPost counts rows of model per post_id.
func countByPost(tx *gorm.DB, model interface{}, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []sumRow
	err := tx.Model(model).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.PostID] = r.Total
	}
	return out, nil
}

func postScore(tx *gorm.DB, postID uint) (int, error) {
	var total int64
	err := tx.Model(&models.PostReaction{}).
		Where("post_id = ?", postID).
		Select("COALESCE(SUM(feedback_value), 0)").
		Scan(&total).Error
	return int(total), err
}

func followerCount(tx *gorm.DB, userID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&n).Error
	return n, err
}

// buildCards attaches score, bookmark and comment counts to posts.
func buildCards(tx *gorm.DB, posts []models.Post) ([]PostCard, error) {
	ids := postIDs(posts)
	scores, err := scoreByPost(tx, ids)
	if err != nil {
		return nil, err
	}
	bookmarks, err := countByPost(tx, &models.Bookmark{}, ids)
	if err != nil {
		return nil, err
	}
	comments, err := countByPost(tx, &models.Comment{}, ids)
	if err != nil {
		return nil, err
	}

	cards := make([]PostCard, len(posts))
	for i, p := range posts {
		rank, color := utils.AchievementRank(p.User.Achievement)
		if p.IsPrivate() {
			// listings never carry a paywalled body
			p.Content = ""
		}
		cards[i] = PostCard{
			Post:          p,
			Score:         int(scores[p.ID]),
			BookmarkCount: bookmarks[p.ID],
			CommentCount:  comments[p.ID],
			AuthorRank:    rank,
			AuthorColor:   color,
		}
	}
	return cards, nil
}
