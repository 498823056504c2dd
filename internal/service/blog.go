package service

import (
	"context"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"
	"folio/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// Listing bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// PostInput is the editable content of a post.
type PostInput struct {
	Title         string            `json:"title" validate:"required,max=200"`
	Excerpt       string            `json:"excerpt" validate:"max=500"`
	Content       string            `json:"content" validate:"required"`
	Cover         string            `json:"cover" validate:"max=2048"`
	Status        models.PostStatus `json:"status" validate:"omitempty,oneof=published hidden draft"`
	Tags          []string          `json:"tags" validate:"max=20,dive,label"`
	ContentImages []string          `json:"content_images" validate:"max=50,dive,max=2048"`
}

// ListPostsInput selects one page of posts.
type ListPostsInput struct {
	Status models.PostStatus
	Tag    string
	Page   int
	Size   int
}

// BlogService orchestrates post writes. Every write is one transaction over
// the post row, its tag associations and its content images.
type BlogService struct {
	store  repository.Transactor
	labels *LabelSynchronizer
	log    *observability.ServiceLogger
}

// NewBlogService creates a BlogService.
func NewBlogService(store repository.Transactor, labels *LabelSynchronizer) *BlogService {
	if labels == nil {
		labels = NewLabelSynchronizer()
	}
	return &BlogService{store: store, labels: labels, log: observability.NewServiceLogger("blog")}
}

func (s *BlogService) CreatePost(ctx context.Context, actor auth.Identity, in PostInput) (post *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "BlogService", "CreatePost")
	defer func() { observability.EndSpan(span, err) }()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = models.PostPublished
	}

	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		p := &models.Post{
			UserID:  actor.SubjectID,
			Title:   in.Title,
			Excerpt: in.Excerpt,
			Content: in.Content,
			Cover:   in.Cover,
			Status:  in.Status,
		}
		if err := repos.Posts.Create(ctx, p); err != nil {
			return err
		}
		if _, err := s.labels.Reconcile(ctx, repos.Tags, p.ID, in.Tags); err != nil {
			return err
		}
		if err := repos.Posts.ReplaceImages(ctx, p.ID, in.ContentImages); err != nil {
			return err
		}
		post, err = loadPost(ctx, repos, p.ID)
		return err
	})
	if err != nil {
		s.log.LogFailure(ctx, "CreatePost", err, map[string]any{"user_id": actor.SubjectID})
		return nil, err
	}

	cache.InvalidateLabelUsage(ctx, repository.TagLabels.LabelTable)
	span.SetAttributes(attribute.Int64("post.id", int64(post.ID)))
	s.log.LogCall(ctx, "CreatePost", map[string]any{"post_id": post.ID, "tags": len(post.Tags)})
	return post, nil
}

func (s *BlogService) UpdatePost(ctx context.Context, actor auth.Identity, id uint, in PostInput) (post *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "BlogService", "UpdatePost", attribute.Int64("post.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		existing, err := repos.Posts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, existing.UserID, "post"); err != nil {
			return err
		}

		existing.Title = in.Title
		existing.Excerpt = in.Excerpt
		existing.Content = in.Content
		existing.Cover = in.Cover
		if in.Status != "" {
			existing.Status = in.Status
		}
		if err := repos.Posts.Update(ctx, existing); err != nil {
			return err
		}
		if _, err := s.labels.Reconcile(ctx, repos.Tags, id, in.Tags); err != nil {
			return err
		}
		if err := repos.Posts.ReplaceImages(ctx, id, in.ContentImages); err != nil {
			return err
		}
		post, err = loadPost(ctx, repos, id)
		return err
	})
	if err != nil {
		s.log.LogFailure(ctx, "UpdatePost", err, map[string]any{"post_id": id})
		return nil, err
	}

	cache.InvalidateLabelUsage(ctx, repository.TagLabels.LabelTable)
	s.log.LogCall(ctx, "UpdatePost", map[string]any{"post_id": id, "tags": len(post.Tags)})
	return post, nil
}

// DeletePost removes a post together with its comments, content images and
// tag associations. Tags themselves are kept.
func (s *BlogService) DeletePost(ctx context.Context, actor auth.Identity, id uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "BlogService", "DeletePost", attribute.Int64("post.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireAuthenticated(actor); err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		existing, err := repos.Posts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, existing.UserID, "post"); err != nil {
			return err
		}
		if err := repos.Comments.DeleteByPost(ctx, id); err != nil {
			return err
		}
		if err := repos.Posts.DeleteImages(ctx, id); err != nil {
			return err
		}
		if err := repos.Tags.ClearAssociations(ctx, id); err != nil {
			return err
		}
		return repos.Posts.Delete(ctx, id)
	})
	if err != nil {
		s.log.LogFailure(ctx, "DeletePost", err, map[string]any{"post_id": id})
		return err
	}

	cache.InvalidateLabelUsage(ctx, repository.TagLabels.LabelTable)
	s.log.LogCall(ctx, "DeletePost", map[string]any{"post_id": id})
	return nil
}

// TogglePostStatus flips a post between published and hidden. Drafts become
// published.
func (s *BlogService) TogglePostStatus(ctx context.Context, actor auth.Identity, id uint) (post *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "BlogService", "TogglePostStatus", attribute.Int64("post.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		existing, err := repos.Posts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, existing.UserID, "post"); err != nil {
			return err
		}
		if err := repos.Posts.SetStatus(ctx, id, existing.Status.Toggled()); err != nil {
			return err
		}
		post, err = loadPost(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateLabelUsage(ctx, repository.TagLabels.LabelTable)
	s.log.LogCall(ctx, "TogglePostStatus", map[string]any{"post_id": id, "status": post.Status})
	return post, nil
}

// GetPost returns a hydrated post. When countView is set the view counter is
// incremented before the post is returned.
func (s *BlogService) GetPost(ctx context.Context, viewer auth.Identity, id uint, countView bool) (*models.Post, error) {
	repos := s.store.Repos()
	post, err := repos.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(post, viewer) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if countView {
		if err := repos.Posts.IncrementViews(ctx, id); err != nil {
			return nil, err
		}
		post.Views++
	}
	if err := hydratePosts(ctx, repos, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) ListPosts(ctx context.Context, viewer auth.Identity, in ListPostsInput) (*models.PostPage, error) {
	status := in.Status
	if status == "" {
		status = models.PostPublished
	}
	if !status.Valid() {
		return nil, models.NewValidationError("status must be one of: published hidden draft")
	}
	if status != models.PostPublished {
		if err := requireAdmin(viewer); err != nil {
			return nil, err
		}
	}

	page, size := in.Page, in.Size
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	repos := s.store.Repos()
	posts, total, err := repos.Posts.List(ctx, repository.PostFilter{
		Status: status,
		Tag:    in.Tag,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return nil, err
	}

	refs := make([]*models.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	if err := hydratePosts(ctx, repos, refs); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return &models.PostPage{List: posts, Total: total, Page: page, Size: size}, nil
}

func loadPost(ctx context.Context, repos *repository.Repositories, id uint) (*models.Post, error) {
	post, err := repos.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := hydratePosts(ctx, repos, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// hydratePosts fills tags and content images with one query each.
func hydratePosts(ctx context.Context, repos *repository.Repositories, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	tags, err := repos.Tags.NamesForMany(ctx, ids)
	if err != nil {
		return err
	}
	images, err := repos.Posts.ImagesForMany(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range posts {
		p.Tags = tags[p.ID]
		if p.Tags == nil {
			p.Tags = []string{}
		}
		p.ContentImages = images[p.ID]
		if p.ContentImages == nil {
			p.ContentImages = []string{}
		}
	}
	return nil
}
