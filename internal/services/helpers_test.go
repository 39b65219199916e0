package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"infoshare/internal/db"
	"infoshare/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ctx = context.Background()

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.SeedCategories(gdb))
	return gdb
}

func mkUser(t *testing.T, gdb *gorm.DB, username string, points int) *models.User {
	t.Helper()
	u := &models.User{
		Username:  username,
		Password:  "x",
		FirstName: username,
		Points:    points,
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

type postOpt func(*models.Post)

func private() postOpt { return func(p *models.Post) { p.Mode = models.ModePrivate } }

func withStatus(s int) postOpt { return func(p *models.Post) { p.Status = s } }

func createdAt(t time.Time) postOpt { return func(p *models.Post) { p.CreatedAt = t } }

func titled(title string) postOpt { return func(p *models.Post) { p.Title = title } }

func inCategories(ids ...uint) postOpt {
	return func(p *models.Post) {
		for _, id := range ids {
			p.Categories = append(p.Categories, models.Category{ID: id})
		}
	}
}

// mkPost inserts a post directly, bypassing the workflow rules.
func mkPost(t *testing.T, gdb *gorm.DB, owner *models.User, opts ...postOpt) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:  owner.ID,
		Title:   fmt.Sprintf("post by %s", owner.Username),
		Content: "some content",
		Status:  models.StatusNormal,
	}
	for _, o := range opts {
		o(p)
	}
	require.NoError(t, gdb.Omit("Categories.*").Create(p).Error)
	return p
}

func react(t *testing.T, gdb *gorm.DB, user *models.User, post *models.Post, value int) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.PostReaction{UserID: user.ID, PostID: post.ID, FeedbackValue: value}).Error)
}

func countRows(t *testing.T, gdb *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := gdb.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func reload(t *testing.T, gdb *gorm.DB, u *models.User) *models.User {
	t.Helper()
	var fresh models.User
	require.NoError(t, gdb.First(&fresh, u.ID).Error)
	return &fresh
}

func intPtr(i int) *int { return &i }

func uintPtr(i uint) *uint { return &i }
