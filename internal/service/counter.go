package service

import (
	"context"

	"folio/internal/observability"
	"folio/internal/repository"
)

// CommentCounter keeps posts.comments equal to the number of comment rows.
type CommentCounter struct{}

// NewCommentCounter creates a CommentCounter.
func NewCommentCounter() *CommentCounter {
	return &CommentCounter{}
}

// Refresh recounts the comments of postID and stores the result. Calling it
// any number of times yields the same value.
func (CommentCounter) Refresh(ctx context.Context, repos *repository.Repositories, postID uint) (int64, error) {
	count, err := repos.Comments.CountByPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	if err := repos.Posts.SetCommentCount(ctx, postID, count); err != nil {
		return 0, err
	}
	observability.CounterRefreshes.Inc()
	return count, nil
}
