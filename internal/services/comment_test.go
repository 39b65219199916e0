package services

import (
	"testing"
	"time"

	"infoshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopLevelCommentNotifiesOwnerOnce(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	reader := mkUser(t, gdb, "reader", 0)
	post := mkPost(t, gdb, owner)

	c, err := svc.CreateComment(ctx, reader, CommentInput{PostID: post.ID, Content: "  nice  "})
	require.NoError(t, err)
	assert.Nil(t, c.ParentID)
	assert.Equal(t, "nice", c.Content)

	var notes []models.Notification
	require.NoError(t, gdb.Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotifyComment, notes[0].TypeNotify)
	assert.Equal(t, owner.ID, notes[0].ReceiveUserID)
	assert.Equal(t, reader.ID, notes[0].ActionUserID)
	assert.Equal(t, post.ID, notes[0].Content)
}

func TestOwnCommentDoesNotNotify(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	post := mkPost(t, gdb, owner)

	_, err := svc.CreateComment(ctx, owner, CommentInput{PostID: post.ID, Content: "bump"})
	require.NoError(t, err)
	assert.Zero(t, countRows(t, gdb, &models.Notification{}, ""))
}

func TestReplyToReplyCollapsesToThreadRoot(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	ann := mkUser(t, gdb, "ann", 0)
	ben := mkUser(t, gdb, "ben", 0)
	cat := mkUser(t, gdb, "cat", 0)
	post := mkPost(t, gdb, owner)

	root, err := svc.CreateComment(ctx, ann, CommentInput{PostID: post.ID, Content: "root"})
	require.NoError(t, err)
	reply, err := svc.CreateComment(ctx, ben, CommentInput{PostID: post.ID, Content: "reply", ParentID: &root.ID})
	require.NoError(t, err)
	deep, err := svc.CreateComment(ctx, cat, CommentInput{PostID: post.ID, Content: "deeper", ParentID: &reply.ID})
	require.NoError(t, err)

	require.NotNil(t, deep.ParentID)
	assert.Equal(t, root.ID, *deep.ParentID)

	assert.EqualValues(t, 1, countRows(t, gdb, &models.Notification{},
		"type_notify = ? AND receive_user_id = ? AND action_user_id = ?", models.NotifyReply, ben.ID, cat.ID))
	assert.EqualValues(t, 1, countRows(t, gdb, &models.Notification{},
		"type_notify = ? AND receive_user_id = ? AND action_user_id = ?", models.NotifyReply, ann.ID, ben.ID))
}

func TestReplyParentMustBelongToPost(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	reader := mkUser(t, gdb, "reader", 0)
	first := mkPost(t, gdb, owner)
	second := mkPost(t, gdb, owner)

	c, err := svc.CreateComment(ctx, reader, CommentInput{PostID: first.ID, Content: "hi"})
	require.NoError(t, err)

	var ve *ValidationError
	_, err = svc.CreateComment(ctx, reader, CommentInput{PostID: second.ID, Content: "x", ParentID: &c.ID})
	assert.ErrorAs(t, err, &ve)
	_, err = svc.CreateComment(ctx, reader, CommentInput{PostID: first.ID, Content: "x", ParentID: uintPtr(404)})
	assert.ErrorAs(t, err, &ve)
	_, err = svc.CreateComment(ctx, reader, CommentInput{PostID: first.ID, Content: "   "})
	assert.ErrorAs(t, err, &ve)

	assert.EqualValues(t, 1, countRows(t, gdb, &models.Comment{}, ""))
}

func TestCommentOnHiddenPost(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	reader := mkUser(t, gdb, "reader", 0)
	post := mkPost(t, gdb, owner, withStatus(models.StatusPending))

	_, err := svc.CreateComment(ctx, reader, CommentInput{PostID: post.ID, Content: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateComment(ctx, owner, CommentInput{PostID: post.ID, Content: "note to self"})
	assert.NoError(t, err)
}

func TestEditComment(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb, NewNotificationService(gdb))
	owner := mkUser(t, gdb, "owner", 0)
	reader := mkUser(t, gdb, "reader", 0)
	post := mkPost(t, gdb, owner)
	c, err := svc.CreateComment(ctx, reader, CommentInput{PostID: post.ID, Content: "tpyo"})
	require.NoError(t, err)

	_, err = svc.EditComment(ctx, owner, c.ID, "hijack")
	assert.ErrorIs(t, err, ErrPermission)

	edited, err := svc.EditComment(ctx, reader, c.ID, "typo")
	require.NoError(t, err)
	assert.Equal(t, "typo", edited.Content)
	assert.True(t, edited.IsEdited)
}

func comment(id uint, parent *uint) models.Comment {
	return models.Comment{ID: id, ParentID: parent, UpdatedAt: time.Unix(int64(id), 0)}
}

func TestBuildCommentTree(t *testing.T) {
	input := []models.Comment{
		comment(6, uintPtr(1)),
		comment(5, nil),
		comment(4, uintPtr(5)),
		comment(3, uintPtr(1)),
		comment(2, uintPtr(99)),
		comment(1, nil),
	}

	tree := BuildCommentTree(input)
	require.Len(t, tree.Threads, 2)
	assert.EqualValues(t, 5, tree.Threads[0].Comment.ID)
	assert.EqualValues(t, 1, tree.Threads[1].Comment.ID)

	require.Len(t, tree.Threads[0].Replies, 1)
	assert.EqualValues(t, 4, tree.Threads[0].Replies[0].ID)

	require.Len(t, tree.Threads[1].Replies, 2)
	assert.EqualValues(t, 6, tree.Threads[1].Replies[0].ID)
	assert.EqualValues(t, 3, tree.Threads[1].Replies[1].ID)

	require.Len(t, tree.Orphans, 1)
	assert.EqualValues(t, 2, tree.Orphans[0].ID)
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	tree := BuildCommentTree(nil)
	assert.Empty(t, tree.Threads)
	assert.Empty(t, tree.Orphans)
}

// Rows written before replies were collapsed can point at another reply.
func TestNestedReplyRowIsOrphaned(t *testing.T) {
	input := []models.Comment{
		comment(3, uintPtr(2)),
		comment(2, uintPtr(1)),
		comment(1, nil),
	}
	tree := BuildCommentTree(input)
	require.Len(t, tree.Threads, 1)
	assert.Len(t, tree.Threads[0].Replies, 1)
	assert.Len(t, tree.Orphans, 1)
}
