package services

import (
	"testing"

	"infoshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func likeNotifications(t *testing.T, svc *EngagementService, actor *models.User, post *models.Post) int64 {
	t.Helper()
	return countRows(t, svc.db, &models.Notification{},
		"action_user_id = ? AND receive_user_id = ? AND type_notify = ? AND content = ?",
		actor.ID, post.UserID, models.NotifyLike, post.ID)
}

func TestReactSequence(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewEngagementService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	fan := mkUser(t, gdb, "fan", 0)
	post := mkPost(t, gdb, owner)

	res, err := svc.React(ctx, fan, post.ID, ReactUpvote)
	require.NoError(t, err)
	assert.Equal(t, ResultAdded, res.Result)
	assert.Equal(t, 1, res.TotalScore)
	assert.EqualValues(t, 1, likeNotifications(t, svc, fan, post))

	res, err = svc.React(ctx, fan, post.ID, ReactDownvote)
	require.NoError(t, err)
	assert.Equal(t, ResultChanged, res.Result)
	assert.Equal(t, -1, res.TotalScore)
	assert.Zero(t, likeNotifications(t, svc, fan, post))

	res, err = svc.React(ctx, fan, post.ID, ReactDownvote)
	require.NoError(t, err)
	assert.Equal(t, ResultRemoved, res.Result)
	assert.Equal(t, 0, res.TotalScore)

	assert.Zero(t, countRows(t, gdb, &models.PostReaction{}, "post_id = ?", post.ID))
	assert.Zero(t, countRows(t, gdb, &models.Notification{}, ""))
}

func TestReactDoubleToggleRestoresScore(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewEngagementService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	fan := mkUser(t, gdb, "fan", 0)
	other := mkUser(t, gdb, "other", 0)
	post := mkPost(t, gdb, owner)
	react(t, gdb, other, post, models.FeedbackUpvote)

	for _, kind := range []string{ReactUpvote, ReactDownvote} {
		first, err := svc.React(ctx, fan, post.ID, kind)
		require.NoError(t, err)
		assert.EqualValues(t, 1, countRows(t, gdb, &models.PostReaction{}, "user_id = ? AND post_id = ?", fan.ID, post.ID))

		second, err := svc.React(ctx, fan, post.ID, kind)
		require.NoError(t, err)
		assert.NotEqual(t, first.TotalScore, second.TotalScore)
		assert.Equal(t, 1, second.TotalScore, kind)
	}
}

func TestRemovingLikeKeepsOtherNotifications(t *testing.T) {
	gdb := newTestDB(t)
	notes := NewNotificationService(gdb)
	svc := NewEngagementService(gdb, notes)
	owner := mkUser(t, gdb, "owner", 0)
	fan := mkUser(t, gdb, "fan", 0)
	other := mkUser(t, gdb, "other", 0)
	post := mkPost(t, gdb, owner)
	second := mkPost(t, gdb, owner)

	_, err := svc.React(ctx, fan, post.ID, ReactUpvote)
	require.NoError(t, err)
	_, err = svc.React(ctx, other, post.ID, ReactUpvote)
	require.NoError(t, err)
	_, err = svc.React(ctx, fan, second.ID, ReactUpvote)
	require.NoError(t, err)
	require.NoError(t, notes.NotifyComment(gdb, fan.ID, post))

	_, err = svc.React(ctx, fan, post.ID, ReactUpvote)
	require.NoError(t, err)

	assert.Zero(t, likeNotifications(t, svc, fan, post))
	assert.EqualValues(t, 1, likeNotifications(t, svc, other, post))
	assert.EqualValues(t, 1, likeNotifications(t, svc, fan, second))
	assert.EqualValues(t, 1, countRows(t, gdb, &models.Notification{}, "type_notify = ?", models.NotifyComment))
}

func TestSelfUpvoteDoesNotNotify(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewEngagementService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	post := mkPost(t, gdb, owner)

	res, err := svc.React(ctx, owner, post.ID, ReactUpvote)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalScore)
	assert.Zero(t, countRows(t, gdb, &models.Notification{}, ""))
}

func TestReactRejectsBadInput(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewEngagementService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	fan := mkUser(t, gdb, "fan", 0)
	post := mkPost(t, gdb, owner)
	draft := mkPost(t, gdb, owner, withStatus(models.StatusDraft))

	_, err := svc.React(ctx, nil, post.ID, ReactUpvote)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.React(ctx, fan, post.ID, "sideways")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.React(ctx, fan, draft.ID, ReactUpvote)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.React(ctx, fan, 4242, ReactUpvote)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Zero(t, countRows(t, gdb, &models.PostReaction{}, ""))
}

// Two rows for one pair can only come from racing requests. The next toggle
// clears them all.
func TestReactCollapsesRacedDuplicates(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewEngagementService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	fan := mkUser(t, gdb, "fan", 0)
	post := mkPost(t, gdb, owner)
	react(t, gdb, fan, post, models.FeedbackUpvote)
	react(t, gdb, fan, post, models.FeedbackUpvote)

	res, err := svc.React(ctx, fan, post.ID, ReactUpvote)
	require.NoError(t, err)
	assert.Equal(t, ResultRemoved, res.Result)
	assert.Equal(t, 0, res.TotalScore)
}

func TestToggleBookmark(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewEngagementService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	fan := mkUser(t, gdb, "fan", 0)
	post := mkPost(t, gdb, owner)

	res, err := svc.ToggleBookmark(ctx, fan, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ResultAdded, res.Result)
	assert.EqualValues(t, 1, res.Count)

	res, err = svc.ToggleBookmark(ctx, fan, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ResultRemoved, res.Result)
	assert.EqualValues(t, 0, res.Count)

	_, err = svc.ToggleBookmark(ctx, fan, 777)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleFollow(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewEngagementService(gdb, NewNotificationService(gdb))
	alice := mkUser(t, gdb, "alice", 0)
	bob := mkUser(t, gdb, "bob", 0)

	res, err := svc.ToggleFollow(ctx, alice, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "followed", res.Type)
	assert.EqualValues(t, 1, res.FollowersCount)

	res, err = svc.ToggleFollow(ctx, alice, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "unfollowed", res.Type)
	assert.EqualValues(t, 0, res.FollowersCount)

	_, err = svc.ToggleFollow(ctx, alice, alice.ID)
	assert.ErrorIs(t, err, ErrFollowSelf)

	_, err = svc.ToggleFollow(ctx, alice, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
