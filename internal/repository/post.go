package repository

import (
	"context"
	"errors"

	"folio/internal/models"
	"folio/internal/observability"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing. Zero Page or Size means the first page
// of ten.
type PostFilter struct {
	Status models.PostStatus
	Tag    string
	Page   int
	Size   int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	IncrementViews(ctx context.Context, id uint) error
	SetCommentCount(ctx context.Context, id uint, count int64) error
	SetStatus(ctx context.Context, id uint, status models.PostStatus) error

	ReplaceImages(ctx context.Context, postID uint, urls []string) error
	DeleteImages(ctx context.Context, postID uint) error
	ImagesFor(ctx context.Context, postID uint) ([]string, error)
	ImagesForMany(ctx context.Context, postIDs []uint) (map[uint][]string, error)
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	if err := r.db.WithContext(ctx).Omit("User").Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return storageError("create post", err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": post.ID, "user_id": post.UserID, "status": post.Status})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, storageError("get post", err)
	}
	post.Author = models.AuthorOf(post.User)
	return &post, nil
}

// Update writes the editable fields. Views and the comment counter are
// maintained by their own operations and never overwritten here.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	res := r.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).
		Select("title", "excerpt", "content", "cover", "status", "updated_at").
		Updates(post)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return storageError("update post", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	r.log.LogUpdate(ctx, map[string]any{"id": post.ID, "status": post.Status})
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return storageError("delete post", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	defer observability.TrackQuery("select", "posts")()
	page, size := filter.Page, filter.Size
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}
	if filter.Tag != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id = posts.id AND t.name = ?)",
			filter.Tag,
		)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, storageError("count posts", err)
	}

	var posts []models.Post
	err := query.Preload("User").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&posts).Error
	if err != nil {
		return nil, 0, storageError("list posts", err)
	}
	for i := range posts {
		posts[i].Author = models.AuthorOf(posts[i].User)
	}
	return posts, total, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	defer observability.TrackQuery("update", "posts")()
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return storageError("increment post views", err)
	}
	return nil
}

// SetCommentCount stores an absolute count computed by the caller.
func (r *postRepository) SetCommentCount(ctx context.Context, id uint, count int64) error {
	defer observability.TrackQuery("update", "posts")()
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("comments", count)
	if res.Error != nil {
		return storageError("set comment count", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) SetStatus(ctx context.Context, id uint, status models.PostStatus) error {
	defer observability.TrackQuery("update", "posts")()
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return storageError("set post status", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.log.LogUpdate(ctx, map[string]any{"id": id, "status": status})
	return nil
}

// ReplaceImages stores urls as the post's content images in order.
func (r *postRepository) ReplaceImages(ctx context.Context, postID uint, urls []string) error {
	if err := r.DeleteImages(ctx, postID); err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	images := make([]models.PostImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, models.PostImage{PostID: postID, URL: url, SortOrder: i})
	}
	if err := r.db.WithContext(ctx).Create(&images).Error; err != nil {
		return storageError("insert post images", err)
	}
	return nil
}

func (r *postRepository) DeleteImages(ctx context.Context, postID uint) error {
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.PostImage{}).Error; err != nil {
		return storageError("delete post images", err)
	}
	return nil
}

func (r *postRepository) ImagesFor(ctx context.Context, postID uint) ([]string, error) {
	byPost, err := r.ImagesForMany(ctx, []uint{postID})
	if err != nil {
		return nil, err
	}
	if urls := byPost[postID]; urls != nil {
		return urls, nil
	}
	return []string{}, nil
}

func (r *postRepository) ImagesForMany(ctx context.Context, postIDs []uint) (map[uint][]string, error) {
	out := make(map[uint][]string, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var images []models.PostImage
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("post_id ASC, sort_order ASC, id ASC").
		Find(&images).Error
	if err != nil {
		return nil, storageError("load post images", err)
	}
	for _, img := range images {
		out[img.PostID] = append(out[img.PostID], img.URL)
	}
	return out, nil
}
