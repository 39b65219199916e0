package services

import (
	"strings"
	"testing"
	"time"

	"infoshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostDefaultsToNormal(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)

	post, err := svc.CreatePost(ctx, alice, PostInput{
		Title:      "  Hello  ",
		Content:    "world",
		Categories: []uint{1, 2},
		Hashtags:   "go, gorm ,go,, #web",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, models.StatusNormal, post.Status)

	var stored models.Post
	require.NoError(t, gdb.Preload("Categories").Preload("HashTags").First(&stored, post.ID).Error)
	assert.Len(t, stored.Categories, 2)

	var names []string
	for _, h := range stored.HashTags {
		names = append(names, h.Name)
	}
	assert.ElementsMatch(t, []string{"go", "gorm", "web"}, names)
}

func TestCreatePostReusesHashtags(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)

	in := PostInput{Title: "a", Content: "b", Categories: []uint{1}, Hashtags: "go"}
	_, err := svc.CreatePost(ctx, alice, in)
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, alice, in)
	require.NoError(t, err)

	assert.EqualValues(t, 1, countRows(t, gdb, &models.HashTag{}, "name = ?", "go"))
}

func TestCreatePrivatePostGoesToReview(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)

	post, err := svc.CreatePost(ctx, alice, PostInput{
		Title:      "secret",
		Content:    "paid words",
		Categories: []uint{1},
		Mode:       models.ModePrivate,
		Status:     intPtr(models.StatusNormal),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, post.Status)
}

func TestCreatePostKeepsExplicitDraft(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)

	post, err := svc.CreatePost(ctx, alice, PostInput{
		Title: "wip", Content: "later", Categories: []uint{1}, Status: intPtr(models.StatusDraft),
	})
	require.NoError(t, err)

	var stored models.Post
	require.NoError(t, gdb.First(&stored, post.ID).Error)
	assert.Equal(t, models.StatusDraft, stored.Status)
}

func TestCreatePostValidation(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)

	cases := map[string]struct {
		in    PostInput
		field string
	}{
		"blank title":      {PostInput{Title: "   ", Content: "x", Categories: []uint{1}}, "title"},
		"empty content":    {PostInput{Title: "t", Content: "", Categories: []uint{1}}, "content"},
		"no category":      {PostInput{Title: "t", Content: "x"}, "categories"},
		"unknown category": {PostInput{Title: "t", Content: "x", Categories: []uint{99}}, "categories"},
		"bad mode":         {PostInput{Title: "t", Content: "x", Categories: []uint{1}, Mode: 2}, "mode"},
		"bad status":       {PostInput{Title: "t", Content: "x", Categories: []uint{1}, Status: intPtr(6)}, "status"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, alice, tc.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}
	assert.Zero(t, countRows(t, gdb, &models.Post{}, ""))
}

func TestCreatePostRejectsBannedUser(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	until := time.Now().Add(time.Hour)
	alice.TimeBanned = &until

	_, err := svc.CreatePost(ctx, alice, PostInput{Title: "t", Content: "x", Categories: []uint{1}})
	assert.ErrorIs(t, err, ErrBanned)

	_, err = svc.CreatePost(ctx, nil, PostInput{Title: "t", Content: "x", Categories: []uint{1}})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestEditPostReplacesTags(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)

	post, err := svc.CreatePost(ctx, alice, PostInput{Title: "t", Content: "x", Categories: []uint{1, 2}, Hashtags: "old"})
	require.NoError(t, err)

	_, err = svc.EditPost(ctx, alice, post.ID, PostInput{Title: "t2", Content: "y", Categories: []uint{3}, Hashtags: "new"})
	require.NoError(t, err)

	var stored models.Post
	require.NoError(t, gdb.Preload("Categories").Preload("HashTags").First(&stored, post.ID).Error)
	assert.Equal(t, "t2", stored.Title)
	require.Len(t, stored.Categories, 1)
	assert.EqualValues(t, 3, stored.Categories[0].ID)
	require.Len(t, stored.HashTags, 1)
	assert.Equal(t, "new", stored.HashTags[0].Name)
}

func TestEditPostFailureKeepsOriginal(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)

	post, err := svc.CreatePost(ctx, alice, PostInput{Title: "t", Content: "x", Categories: []uint{1}, Hashtags: "keep"})
	require.NoError(t, err)

	_, err = svc.EditPost(ctx, alice, post.ID, PostInput{Title: "changed", Content: "y", Categories: []uint{1, 42}})
	require.Error(t, err)

	var stored models.Post
	require.NoError(t, gdb.Preload("Categories").Preload("HashTags").First(&stored, post.ID).Error)
	assert.Equal(t, "t", stored.Title)
	assert.Len(t, stored.Categories, 1)
	assert.Len(t, stored.HashTags, 1)
}

func TestEditPostOwnerOnly(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	bob := mkUser(t, gdb, "bob", 0)
	post := mkPost(t, gdb, alice, inCategories(1))

	_, err := svc.EditPost(ctx, bob, post.ID, PostInput{Title: "t", Content: "x", Categories: []uint{1}})
	assert.ErrorIs(t, err, ErrPermission)

	_, err = svc.EditPost(ctx, alice, 9999, PostInput{Title: "t", Content: "x", Categories: []uint{1}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditToPrivateReturnsToReview(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	post := mkPost(t, gdb, alice, inCategories(1))

	edited, err := svc.EditPost(ctx, alice, post.ID, PostInput{Title: "t", Content: "x", Categories: []uint{1}, Mode: models.ModePrivate})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, edited.Status)
}

func TestEditBannedPostStaysBanned(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	post := mkPost(t, gdb, alice, inCategories(1), withStatus(models.StatusBanned))

	edited, err := svc.EditPost(ctx, alice, post.ID, PostInput{Title: "t", Content: "x", Categories: []uint{1}, Status: intPtr(models.StatusNormal)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusBanned, edited.Status)
}

func TestDeletePostKeepsRow(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	bob := mkUser(t, gdb, "bob", 0)
	post := mkPost(t, gdb, alice)

	assert.ErrorIs(t, svc.DeletePost(ctx, bob, post.ID), ErrPermission)
	require.NoError(t, svc.DeletePost(ctx, alice, post.ID))

	var stored models.Post
	require.NoError(t, gdb.First(&stored, post.ID).Error)
	assert.Equal(t, models.StatusDeleted, stored.Status)
}

func TestPostVisibility(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	bob := mkUser(t, gdb, "bob", 0)
	staff := mkUser(t, gdb, "staff", 0)
	staff.IsStaff = true

	for _, status := range []int{models.StatusDraft, models.StatusDeleted, models.StatusBanned, models.StatusPending, models.StatusRejected} {
		post := mkPost(t, gdb, alice, withStatus(status))

		_, err := svc.GetPostDetail(ctx, bob, post.ID)
		assert.ErrorIs(t, err, ErrNotFound, models.StatusName(status))
		_, err = svc.GetPostDetail(ctx, nil, post.ID)
		assert.ErrorIs(t, err, ErrNotFound, models.StatusName(status))

		_, err = svc.GetPostDetail(ctx, alice, post.ID)
		assert.NoError(t, err)
		_, err = svc.GetPostDetail(ctx, staff, post.ID)
		assert.NoError(t, err)
	}

	normal := mkPost(t, gdb, alice)
	_, err := svc.GetPostDetail(ctx, nil, normal.ID)
	assert.NoError(t, err)
}

func TestPostDetailCountsViewsAndAggregates(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	bob := mkUser(t, gdb, "bob", 0)
	carol := mkUser(t, gdb, "carol", 0)
	post := mkPost(t, gdb, alice, inCategories(1))

	react(t, gdb, bob, post, models.FeedbackUpvote)
	react(t, gdb, carol, post, models.FeedbackDownvote)
	require.NoError(t, gdb.Create(&models.Bookmark{UserID: bob.ID, PostID: post.ID}).Error)
	require.NoError(t, gdb.Create(&models.Follow{FollowerID: bob.ID, FollowedID: alice.ID}).Error)

	_, err := svc.GetPostDetail(ctx, nil, post.ID)
	require.NoError(t, err)
	d, err := svc.GetPostDetail(ctx, bob, post.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Post.ViewCount)
	assert.Equal(t, 0, d.FeedbackValue)
	assert.Equal(t, models.FeedbackUpvote, d.MyReaction)
	assert.EqualValues(t, 1, d.FollowersCount)
	assert.True(t, d.IsBookmarked)
	assert.True(t, d.IsFollowing)
	assert.False(t, d.IsOwner)
	assert.Equal(t, "Unranked", d.AuthorRank)
	assert.Len(t, d.Post.Categories, 1)
}

func TestPrivatePostShowsPreviewUntilPaid(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	bob := mkUser(t, gdb, "bob", 0)
	body := "<p>" + strings.Repeat("word ", 100) + "</p>"
	post := mkPost(t, gdb, alice, private(), func(p *models.Post) { p.Content = body })

	d, err := svc.GetPostDetail(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.True(t, d.Locked)
	assert.NotContains(t, string(d.ContentHTML), "<p>")
	assert.LessOrEqual(t, len([]rune(string(d.ContentHTML))), previewRunes+1)

	d, err = svc.GetPostDetail(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.False(t, d.Locked)

	require.NoError(t, gdb.Create(&models.PostPaid{UserID: bob.ID, PostID: post.ID}).Error)
	d, err = svc.GetPostDetail(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.False(t, d.Locked)
	assert.True(t, d.IsPaid)
	assert.Contains(t, string(d.ContentHTML), "<p>")
}

func TestListRecentSkipsHiddenPosts(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	now := time.Now()
	older := mkPost(t, gdb, alice, createdAt(now.Add(-time.Hour)))
	newer := mkPost(t, gdb, alice, createdAt(now))
	mkPost(t, gdb, alice, withStatus(models.StatusDraft))

	cards, pager, err := svc.ListRecent(ctx, "abc", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, pager.Page)
	require.Len(t, cards, 2)
	assert.Equal(t, newer.ID, cards[0].ID)
	assert.Equal(t, older.ID, cards[1].ID)
}

func TestParseHashtags(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, ParseHashtags(" a, ,b c,a,#a"))
	assert.Empty(t, ParseHashtags(""))
}

func TestListByCategory(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	in := mkPost(t, gdb, alice, inCategories(2))
	mkPost(t, gdb, alice, inCategories(3))
	mkPost(t, gdb, alice, inCategories(2), withStatus(models.StatusDeleted))

	cat, cards, pager, err := svc.ListByCategory(ctx, 2, "", 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cat.ID)
	assert.EqualValues(t, 1, pager.Total)
	require.Len(t, cards, 1)
	assert.Equal(t, in.ID, cards[0].ID)

	_, _, _, err = svc.ListByCategory(ctx, 77, "", 10)
	assert.ErrorIs(t, err, ErrNotFound)
}
