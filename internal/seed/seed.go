package seed

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/auth"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/service"

	"gorm.io/gorm"
)

// DemoPassword is the password of generated reader accounts.
const DemoPassword = "Demo-Reader-Pass1"

// Options configures a seeding run.
type Options struct {
	AdminUsername   string
	Posts           int
	Projects        int
	CommentsPerPost int
	Readers         int
	Seed            int64
	BcryptCost      int
}

// Report counts what a run created.
type Report struct {
	Posts    int
	Projects int
	Comments int
	Readers  int
}

// contentTables lists seeded tables children first.
var contentTables = []string{
	"comments", "post_images", "post_tags", "posts",
	"project_technologies", "projects", "tags", "technologies",
}

// Seeder writes demo content through the content services.
type Seeder struct {
	db       *gorm.DB
	store    *repository.Store
	blog     *service.BlogService
	comments *service.CommentService
	projects *service.ProjectService
	verifier *auth.CredentialVerifier
	factory  *Factory
	opts     Options
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	store := repository.NewStore(db)
	labels := service.NewLabelSynchronizer()
	if opts.Readers <= 0 {
		opts.Readers = 3
	}
	return &Seeder{
		db:       db,
		store:    store,
		blog:     service.NewBlogService(store, labels),
		comments: service.NewCommentService(store, service.NewCommentCounter()),
		projects: service.NewProjectService(store, labels),
		verifier: auth.NewCredentialVerifier(opts.BcryptCost),
		factory:  NewFactory(opts.Seed),
		opts:     opts,
	}
}

// Clean removes all posts, projects, labels and comments. Accounts are kept.
func (s *Seeder) Clean(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range contentTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clean %s: %w", table, err)
			}
		}
		return nil
	})
}

// Run generates the configured number of posts, projects and comments.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	admin, err := s.adminIdentity(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{}

	readers := make([]auth.Identity, 0, s.opts.Readers)
	for i := 1; i <= s.opts.Readers; i++ {
		reader, created, err := s.ensureReader(ctx, fmt.Sprintf("demo_reader_%d", i))
		if err != nil {
			return report, err
		}
		if created {
			report.Readers++
		}
		readers = append(readers, reader)
	}

	for i := 0; i < s.opts.Posts; i++ {
		post, err := s.blog.CreatePost(ctx, admin, s.factory.PostInput())
		if err != nil {
			return report, fmt.Errorf("create post: %w", err)
		}
		report.Posts++

		var previous *uint
		for n := s.factory.Intn(s.opts.CommentsPerPost + 1); n > 0; n-- {
			in := service.CommentInput{Content: s.factory.CommentText()}
			if previous != nil && s.factory.Intn(3) == 0 {
				in.ParentID = previous
			}
			author := readers[s.factory.Intn(len(readers))]
			if post.Status != models.PostPublished {
				author = admin
			}
			comment, err := s.comments.AddComment(ctx, author, post.ID, in)
			if err != nil {
				return report, fmt.Errorf("comment on post %d: %w", post.ID, err)
			}
			id := comment.ID
			previous = &id
			report.Comments++
		}
	}

	for i := 0; i < s.opts.Projects; i++ {
		if _, err := s.projects.CreateProject(ctx, admin, s.factory.ProjectInput(i+1)); err != nil {
			return report, fmt.Errorf("create project: %w", err)
		}
		report.Projects++
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("posts", report.Posts),
		slog.Int("projects", report.Projects),
		slog.Int("comments", report.Comments),
		slog.Int("readers", report.Readers),
	)
	return report, nil
}

func (s *Seeder) adminIdentity(ctx context.Context) (auth.Identity, error) {
	if s.opts.AdminUsername == "" {
		return auth.Anonymous, fmt.Errorf("admin username is required")
	}
	admin, err := s.store.Repos().Users.GetByUsername(ctx, s.opts.AdminUsername)
	if err != nil {
		return auth.Anonymous, fmt.Errorf("load admin %q: %w", s.opts.AdminUsername, err)
	}
	if !admin.IsAdmin() {
		return auth.Anonymous, fmt.Errorf("account %q is not an admin", s.opts.AdminUsername)
	}
	return identityOf(admin), nil
}

// ensureReader returns the reader account named username, creating it with
// DemoPassword when missing.
func (s *Seeder) ensureReader(ctx context.Context, username string) (auth.Identity, bool, error) {
	users := s.store.Repos().Users
	existing, err := users.GetByUsername(ctx, username)
	if err == nil {
		return identityOf(existing), false, nil
	}
	if !models.IsCode(err, models.CodeNotFound) {
		return auth.Anonymous, false, err
	}

	hash, err := s.verifier.Hash(DemoPassword)
	if err != nil {
		return auth.Anonymous, false, err
	}
	user := &models.User{
		Username: username,
		Password: hash,
		Nickname: s.factory.Nickname(),
		Role:     models.RoleUser,
		Status:   models.UserStatusActive,
	}
	if err := users.Create(ctx, user); err != nil {
		return auth.Anonymous, false, fmt.Errorf("create reader %q: %w", username, err)
	}
	return identityOf(user), true, nil
}

func identityOf(u *models.User) auth.Identity {
	return auth.Identity{SubjectID: u.ID, Role: u.Role, DisplayName: u.DisplayName()}
}
