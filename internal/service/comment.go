package service

import (
	"context"

	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"
	"folio/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// CommentInput is a new comment, optionally replying to ParentID.
type CommentInput struct {
	Content  string `json:"content" validate:"required,max=2000"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// CommentService adds and removes comments and keeps the post's comment
// counter in step within the same transaction.
type CommentService struct {
	store   repository.Transactor
	counter *CommentCounter
	log     *observability.ServiceLogger
}

// NewCommentService creates a CommentService.
func NewCommentService(store repository.Transactor, counter *CommentCounter) *CommentService {
	if counter == nil {
		counter = NewCommentCounter()
	}
	return &CommentService{store: store, counter: counter, log: observability.NewServiceLogger("comments")}
}

func (s *CommentService) AddComment(ctx context.Context, actor auth.Identity, postID uint, in CommentInput) (comment *models.Comment, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CommentService", "AddComment", attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var count int64
	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		post, err := repos.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if !visibleTo(post, actor) {
			return models.NewNotFoundError("Post", postID)
		}
		if in.ParentID != nil {
			parent, err := repos.Comments.GetByID(ctx, *in.ParentID)
			if err != nil {
				if models.IsCode(err, models.CodeNotFound) {
					return models.NewValidationError("parent comment does not exist")
				}
				return err
			}
			if parent.PostID != postID {
				return models.NewValidationError("parent comment belongs to another post")
			}
		}

		c := &models.Comment{
			PostID:   postID,
			UserID:   actor.SubjectID,
			ParentID: in.ParentID,
			Content:  in.Content,
		}
		if err := repos.Comments.Create(ctx, c); err != nil {
			return err
		}
		if count, err = s.counter.Refresh(ctx, repos, postID); err != nil {
			return err
		}
		comment, err = repos.Comments.GetByID(ctx, c.ID)
		return err
	})
	if err != nil {
		s.log.LogFailure(ctx, "AddComment", err, map[string]any{"post_id": postID})
		return nil, err
	}

	s.log.LogCall(ctx, "AddComment", map[string]any{"post_id": postID, "comment_id": comment.ID, "comments": count})
	return comment, nil
}

// RemoveComment deletes a comment. Its replies move up to the removed
// comment's parent so the thread stays connected.
func (s *CommentService) RemoveComment(ctx context.Context, actor auth.Identity, postID, commentID uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CommentService", "RemoveComment",
		attribute.Int64("post.id", int64(postID)),
		attribute.Int64("comment.id", int64(commentID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err := requireAuthenticated(actor); err != nil {
		return err
	}

	var count int64
	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		comment, err := repos.Comments.GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment.PostID != postID {
			return models.NewNotFoundError("Comment", commentID)
		}
		if err := requireOwner(actor, comment.UserID, "comment"); err != nil {
			return err
		}
		if err := repos.Comments.Reparent(ctx, comment.ID, comment.ParentID); err != nil {
			return err
		}
		if err := repos.Comments.Delete(ctx, comment.ID); err != nil {
			return err
		}
		count, err = s.counter.Refresh(ctx, repos, postID)
		return err
	})
	if err != nil {
		s.log.LogFailure(ctx, "RemoveComment", err, map[string]any{"post_id": postID, "comment_id": commentID})
		return err
	}

	s.log.LogCall(ctx, "RemoveComment", map[string]any{"post_id": postID, "comment_id": commentID, "comments": count})
	return nil
}

// ListComments returns the comments of a visible post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, viewer auth.Identity, postID uint) ([]models.Comment, error) {
	repos := s.store.Repos()
	post, err := repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(post, viewer) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	comments, err := repos.Comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}
