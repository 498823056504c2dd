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

// ProjectInput is the editable content of a project.
type ProjectInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Image       string   `json:"image" validate:"max=2048"`
	Link        string   `json:"link" validate:"omitempty,url,max=2048"`
	SortOrder   int      `json:"sort_order"`
	TechStack   []string `json:"tech_stack" validate:"max=30,dive,label"`
}

// ProjectService orchestrates project writes and caches project reads.
type ProjectService struct {
	store  repository.Transactor
	labels *LabelSynchronizer
	log    *observability.ServiceLogger
}

// NewProjectService creates a ProjectService.
func NewProjectService(store repository.Transactor, labels *LabelSynchronizer) *ProjectService {
	if labels == nil {
		labels = NewLabelSynchronizer()
	}
	return &ProjectService{store: store, labels: labels, log: observability.NewServiceLogger("projects")}
}

func (s *ProjectService) CreateProject(ctx context.Context, actor auth.Identity, in ProjectInput) (project *models.Project, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ProjectService", "CreateProject")
	defer func() { observability.EndSpan(span, err) }()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		p := &models.Project{
			UserID:      actor.SubjectID,
			Title:       in.Title,
			Description: in.Description,
			Image:       in.Image,
			Link:        in.Link,
			SortOrder:   in.SortOrder,
		}
		if err := repos.Projects.Create(ctx, p); err != nil {
			return err
		}
		if _, err := s.labels.Reconcile(ctx, repos.Technologies, p.ID, in.TechStack); err != nil {
			return err
		}
		project, err = loadProject(ctx, repos, p.ID)
		return err
	})
	if err != nil {
		s.log.LogFailure(ctx, "CreateProject", err, nil)
		return nil, err
	}

	s.invalidate(ctx, project.ID)
	s.log.LogCall(ctx, "CreateProject", map[string]any{"project_id": project.ID, "tech_stack": len(project.TechStack)})
	return project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, actor auth.Identity, id uint, in ProjectInput) (project *models.Project, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ProjectService", "UpdateProject", attribute.Int64("project.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		existing, err := repos.Projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, existing.UserID, "project"); err != nil {
			return err
		}
		existing.Title = in.Title
		existing.Description = in.Description
		existing.Image = in.Image
		existing.Link = in.Link
		existing.SortOrder = in.SortOrder
		if err := repos.Projects.Update(ctx, existing); err != nil {
			return err
		}
		if _, err := s.labels.Reconcile(ctx, repos.Technologies, id, in.TechStack); err != nil {
			return err
		}
		project, err = loadProject(ctx, repos, id)
		return err
	})
	if err != nil {
		s.log.LogFailure(ctx, "UpdateProject", err, map[string]any{"project_id": id})
		return nil, err
	}

	s.invalidate(ctx, id)
	s.log.LogCall(ctx, "UpdateProject", map[string]any{"project_id": id})
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, actor auth.Identity, id uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ProjectService", "DeleteProject", attribute.Int64("project.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireAuthenticated(actor); err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		existing, err := repos.Projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, existing.UserID, "project"); err != nil {
			return err
		}
		if err := repos.Technologies.ClearAssociations(ctx, id); err != nil {
			return err
		}
		return repos.Projects.Delete(ctx, id)
	})
	if err != nil {
		s.log.LogFailure(ctx, "DeleteProject", err, map[string]any{"project_id": id})
		return err
	}

	s.invalidate(ctx, id)
	s.log.LogCall(ctx, "DeleteProject", map[string]any{"project_id": id})
	return nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := cache.Aside(ctx, cache.ProjectKey(id), &project, cache.ProjectTTL, func() error {
		p, err := loadProject(ctx, s.store.Repos(), id)
		if err != nil {
			return err
		}
		project = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := cache.Aside(ctx, cache.ProjectListKey, &projects, cache.ProjectListTTL, func() error {
		repos := s.store.Repos()
		list, err := repos.Projects.List(ctx)
		if err != nil {
			return err
		}
		ids := make([]uint, len(list))
		for i := range list {
			ids[i] = list[i].ID
		}
		stacks, err := repos.Technologies.NamesForMany(ctx, ids)
		if err != nil {
			return err
		}
		for i := range list {
			list[i].TechStack = stacks[list[i].ID]
			if list[i].TechStack == nil {
				list[i].TechStack = []string{}
			}
		}
		projects = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

func (s *ProjectService) invalidate(ctx context.Context, id uint) {
	cache.InvalidateProject(ctx, id)
	cache.InvalidateLabelUsage(ctx, repository.TechnologyLabels.LabelTable)
}

func loadProject(ctx context.Context, repos *repository.Repositories, id uint) (*models.Project, error) {
	project, err := repos.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.TechStack, err = repos.Technologies.NamesFor(ctx, id); err != nil {
		return nil, err
	}
	return project, nil
}
