package repository

import (
	"context"
	"errors"

	"folio/internal/models"
	"folio/internal/observability"

	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Project, error)
}

type projectRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db, log: observability.NewRepoLogger("projects")}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	defer observability.TrackQuery("create", "projects")()
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return storageError("create project", err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": project.ID, "title": project.Title})
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	defer observability.TrackQuery("select", "projects")()
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", id)
		}
		return nil, storageError("get project", err)
	}
	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	defer observability.TrackQuery("update", "projects")()
	res := r.db.WithContext(ctx).Model(&models.Project{ID: project.ID}).
		Select("title", "description", "image", "link", "sort_order", "updated_at").
		Updates(project)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return storageError("update project", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Project", project.ID)
	}
	r.log.LogUpdate(ctx, map[string]any{"id": project.ID})
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "projects")()
	res := r.db.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return storageError("delete project", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Project", id)
	}
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}

func (r *projectRepository) List(ctx context.Context) ([]models.Project, error) {
	defer observability.TrackQuery("select", "projects")()
	var projects []models.Project
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&projects).Error; err != nil {
		return nil, storageError("list projects", err)
	}
	return projects, nil
}
