package services

import "infoshare/internal/models"

// CommentThread is a top-level comment and its direct replies.
type CommentThread struct {
	Comment models.Comment   `json:"comment"`
	Replies []models.Comment `json:"replies"`
}

// CommentTree is the two-level view of a post's comments. Orphans are replies
// whose parent is not a top-level comment of the input; they are not rendered.
type CommentTree struct {
	Threads []CommentThread  `json:"threads"`
	Orphans []models.Comment `json:"-"`
}

// BuildCommentTree groups replies under their top-level parents. Both levels
// keep the order of the input.
func BuildCommentTree(comments []models.Comment) CommentTree {
	tree := CommentTree{Threads: []CommentThread{}}
	index := make(map[uint]int)

	for _, c := range comments {
		if c.IsTopLevel() {
			index[c.ID] = len(tree.Threads)
			tree.Threads = append(tree.Threads, CommentThread{Comment: c, Replies: []models.Comment{}})
		}
	}
	for _, c := range comments {
		if c.IsTopLevel() {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			tree.Threads[i].Replies = append(tree.Threads[i].Replies, c)
			continue
		}
		tree.Orphans = append(tree.Orphans, c)
	}
	return tree
}
