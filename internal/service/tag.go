package service

import (
	"context"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/repository"
)

// TagService lists labels with the number of owners using them.
type TagService struct {
	store repository.Transactor
}

// NewTagService creates a TagService.
func NewTagService(store repository.Transactor) *TagService {
	return &TagService{store: store}
}

// ListTags returns every tag with its post count, newest first.
func (s *TagService) ListTags(ctx context.Context) ([]models.LabelUsage, error) {
	return s.listUsage(ctx, s.store.Repos().Tags)
}

// ListTechnologies returns every technology with its project count, newest first.
func (s *TagService) ListTechnologies(ctx context.Context) ([]models.LabelUsage, error) {
	return s.listUsage(ctx, s.store.Repos().Technologies)
}

func (s *TagService) listUsage(ctx context.Context, labels repository.LabelRepository) ([]models.LabelUsage, error) {
	var usage []models.LabelUsage
	key := cache.LabelUsageKey(labels.Kind().LabelTable)
	err := cache.Aside(ctx, key, &usage, cache.LabelUsageTTL, func() error {
		var err error
		usage, err = labels.ListWithUsage(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if usage == nil {
		usage = []models.LabelUsage{}
	}
	return usage, nil
}
