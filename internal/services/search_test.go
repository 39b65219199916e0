package services

import (
	"fmt"
	"testing"
	"time"

	"infoshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// scored gives post a total feedback of n by creating n voters.
func scored(t *testing.T, gdb *gorm.DB, post *models.Post, n int) {
	t.Helper()
	value := models.FeedbackUpvote
	if n < 0 {
		value, n = models.FeedbackDownvote, -n
	}
	for i := 0; i < n; i++ {
		voter := mkUser(t, gdb, fmt.Sprintf("voter-%d-%d", post.ID, i), 0)
		react(t, gdb, voter, post, value)
	}
}

func postIDsOf(cards []PostCard) []uint {
	ids := make([]uint, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func TestSearchPostsKeywordAndOrder(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSearchService(gdb)
	alice := mkUser(t, gdb, "alice", 0)

	low := mkPost(t, gdb, alice, titled("Learning GO"))
	high := mkPost(t, gdb, alice, titled("unrelated"), func(p *models.Post) { p.Content = "all about golang" })
	tie := mkPost(t, gdb, alice, titled("go again"))
	mkPost(t, gdb, alice, titled("rust"))
	mkPost(t, gdb, alice, titled("hidden go"), withStatus(models.StatusPending))
	scored(t, gdb, high, 2)
	scored(t, gdb, low, -1)
	scored(t, gdb, tie, -1)

	page, err := svc.Search(ctx, SearchQuery{Keyword: "Go", Type: SearchTypePost})
	require.NoError(t, err)
	assert.Equal(t, []uint{high.ID, low.ID, tie.ID}, postIDsOf(page.Posts))
	assert.Equal(t, 2, page.Posts[0].Score)
}

func TestSearchPostsEscapesWildcards(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSearchService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	hit := mkPost(t, gdb, alice, titled("100% sure"))
	mkPost(t, gdb, alice, titled("100 percent"))

	page, err := svc.Search(ctx, SearchQuery{Keyword: "100%", Type: SearchTypePost})
	require.NoError(t, err)
	assert.Equal(t, []uint{hit.ID}, postIDsOf(page.Posts))
}

func TestSearchPostsRequiresAllCategories(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSearchService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	both := mkPost(t, gdb, alice, titled("topic both"), inCategories(1, 2))
	mkPost(t, gdb, alice, titled("topic one"), inCategories(1))
	mkPost(t, gdb, alice, titled("topic two"), inCategories(2))

	page, err := svc.Search(ctx, SearchQuery{Keyword: "topic", Type: SearchTypePost, CategoryIDs: []uint{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []uint{both.ID}, postIDsOf(page.Posts))
}

func TestSearchPostsDateRange(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSearchService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 12, 0, 0, 0, time.Local) }
	mkPost(t, gdb, alice, titled("news early"), createdAt(day(1)))
	first := mkPost(t, gdb, alice, titled("news start"), createdAt(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local)))
	last := mkPost(t, gdb, alice, titled("news end"), createdAt(time.Date(2024, time.March, 7, 23, 59, 0, 0, time.Local)))
	mkPost(t, gdb, alice, titled("news late"), createdAt(day(8)))

	page, err := svc.Search(ctx, SearchQuery{Keyword: "news", Type: SearchTypePost, FromDate: "03/05/2024", ToDate: "03/07/2024"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{first.ID, last.ID}, postIDsOf(page.Posts))

	page, err = svc.Search(ctx, SearchQuery{Keyword: "news", Type: SearchTypePost, FromDate: "2024-03-05", ToDate: "garbage"})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 4)
}

func TestInBucket(t *testing.T) {
	cases := []struct {
		score  int
		bucket string
		want   bool
	}{
		{99, BucketUnder100, true},
		{100, BucketUnder100, false},
		{100, Bucket100, true},
		{499, Bucket100, true},
		{500, Bucket100, false},
		{500, Bucket500, true},
		{999, Bucket500, true},
		{1000, Bucket500, false},
		{1000, BucketOver1000, true},
		{-5, BucketUnder100, true},
		{-5, "", true},
		{42, "bogus", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inBucket(tc.score, tc.bucket), "%d in %q", tc.score, tc.bucket)
	}
}

func TestSearchPostsBucketFilter(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSearchService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	quiet := mkPost(t, gdb, alice, titled("quiet thing"))
	loud := mkPost(t, gdb, alice, titled("loud thing"))
	rows := make([]models.PostReaction, 150)
	for i := range rows {
		rows[i] = models.PostReaction{UserID: alice.ID, PostID: loud.ID, FeedbackValue: models.FeedbackUpvote}
	}
	require.NoError(t, gdb.CreateInBatches(rows, 50).Error)

	page, err := svc.Search(ctx, SearchQuery{Keyword: "thing", Type: SearchTypePost, Point: Bucket100})
	require.NoError(t, err)
	assert.Equal(t, []uint{loud.ID}, postIDsOf(page.Posts))
	assert.Equal(t, 150, page.Posts[0].Score)

	page, err = svc.Search(ctx, SearchQuery{Keyword: "thing", Type: SearchTypePost, Point: BucketUnder100})
	require.NoError(t, err)
	assert.Equal(t, []uint{quiet.ID}, postIDsOf(page.Posts))

	page, err = svc.Search(ctx, SearchQuery{Keyword: "thing", Type: SearchTypePost})
	require.NoError(t, err)
	assert.Equal(t, []uint{loud.ID, quiet.ID}, postIDsOf(page.Posts))
}

func TestSearchPagination(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSearchService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	for i := 0; i < 20; i++ {
		mkPost(t, gdb, alice, titled(fmt.Sprintf("page item %d", i)))
	}

	cases := map[string]struct {
		page  int
		count int
	}{
		"":    {1, 9},
		"abc": {1, 9},
		"0":   {1, 9},
		"-3":  {1, 9},
		"2":   {2, 9},
		"3":   {3, 2},
		"50":  {3, 2},
	}
	for raw, want := range cases {
		page, err := svc.Search(ctx, SearchQuery{Keyword: "item", Type: SearchTypePost, Page: raw})
		require.NoError(t, err)
		assert.Equal(t, want.page, page.Pager.Page, "page %q", raw)
		assert.Len(t, page.Posts, want.count, "page %q", raw)
		assert.Equal(t, 3, page.Pager.TotalPages)
	}
}

func TestSearchWithoutKeywordIsEmpty(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSearchService(gdb)
	alice := mkUser(t, gdb, "alice", 0)
	mkPost(t, gdb, alice)

	page, err := svc.Search(ctx, SearchQuery{Keyword: "  ", Type: SearchTypePost})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.Pager.Page)

	page, err = svc.Search(ctx, SearchQuery{Keyword: "post", Type: "Comment"})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Empty(t, page.Authors)
}

func TestSearchAuthors(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSearchService(gdb)
	smith := mkUser(t, gdb, "smith", 0)
	require.NoError(t, gdb.Model(smith).Updates(map[string]interface{}{"last_name": "Smith", "achievement": 1}).Error)
	anna := mkUser(t, gdb, "anna", 0)
	require.NoError(t, gdb.Model(anna).Updates(map[string]interface{}{"first_name": "Smithers", "achievement": 4}).Error)
	tied := mkUser(t, gdb, "tied", 0)
	require.NoError(t, gdb.Model(tied).Updates(map[string]interface{}{"last_name": "blacksmith", "achievement": 1}).Error)
	mkUser(t, gdb, "jones", 0)

	mkPost(t, gdb, smith)
	mkPost(t, gdb, smith)
	mkPost(t, gdb, smith, withStatus(models.StatusDraft))
	require.NoError(t, gdb.Create(&models.Follow{FollowerID: anna.ID, FollowedID: smith.ID}).Error)

	page, err := svc.Search(ctx, SearchQuery{Keyword: "SMITH", Type: SearchTypeAuthor})
	require.NoError(t, err)
	require.Len(t, page.Authors, 3)
	assert.Equal(t, anna.ID, page.Authors[0].ID)
	assert.Equal(t, "Platinum", page.Authors[0].Rank)
	assert.Equal(t, smith.ID, page.Authors[1].ID)
	assert.Equal(t, tied.ID, page.Authors[2].ID)
	assert.EqualValues(t, 2, page.Authors[1].PostCount)
	assert.EqualValues(t, 1, page.Authors[1].FollowerCount)
}
