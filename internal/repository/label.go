package repository

import (
	"context"
	"fmt"
	"time"

	"folio/internal/models"
	"folio/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LabelKind describes one label table and the join table linking it to owners.
type LabelKind struct {
	Name        string
	LabelTable  string
	JoinTable   string
	OwnerColumn string
	LabelColumn string
}

// Label kinds.
var (
	TagLabels = LabelKind{
		Name:        "tag",
		LabelTable:  "tags",
		JoinTable:   "post_tags",
		OwnerColumn: "post_id",
		LabelColumn: "tag_id",
	}
	TechnologyLabels = LabelKind{
		Name:        "technology",
		LabelTable:  "technologies",
		JoinTable:   "project_technologies",
		OwnerColumn: "project_id",
		LabelColumn: "technology_id",
	}
)

// LabelRepository manages labels of one kind and their ordered associations.
type LabelRepository interface {
	Kind() LabelKind
	// FindByName returns the label with exactly name, or nil when absent.
	FindByName(ctx context.Context, name string) (*models.Label, error)
	// CreateIfAbsent inserts name unless it exists and returns the stored row.
	// created reports whether this call inserted it.
	CreateIfAbsent(ctx context.Context, name string) (label *models.Label, created bool, err error)
	ClearAssociations(ctx context.Context, ownerID uint) error
	// Associate links labelIDs to ownerID with position equal to slice index.
	Associate(ctx context.Context, ownerID uint, labelIDs []uint) error
	NamesFor(ctx context.Context, ownerID uint) ([]string, error)
	NamesForMany(ctx context.Context, ownerIDs []uint) (map[uint][]string, error)
	ListWithUsage(ctx context.Context) ([]models.LabelUsage, error)
}

type labelRepository struct {
	db   *gorm.DB
	kind LabelKind
	log  *observability.RepoLogger
}

// NewLabelRepository returns a LabelRepository for kind.
func NewLabelRepository(db *gorm.DB, kind LabelKind) LabelRepository {
	return &labelRepository{db: db, kind: kind, log: observability.NewRepoLogger(kind.LabelTable)}
}

func (r *labelRepository) Kind() LabelKind {
	return r.kind
}

func (r *labelRepository) FindByName(ctx context.Context, name string) (*models.Label, error) {
	var labels []models.Label
	err := r.db.WithContext(ctx).Table(r.kind.LabelTable).
		Select("id", "name", "created_at").
		Where("name = ?", name).
		Limit(1).
		Find(&labels).Error
	if err != nil {
		return nil, storageError("find "+r.kind.Name, err)
	}
	if len(labels) == 0 {
		return nil, nil
	}
	return &labels[0], nil
}

func (r *labelRepository) CreateIfAbsent(ctx context.Context, name string) (*models.Label, bool, error) {
	row := map[string]any{"name": name, "created_at": time.Now()}
	res := r.db.WithContext(ctx).Table(r.kind.LabelTable).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return nil, false, models.NewConflictError(fmt.Sprintf("%s %q was created concurrently", r.kind.Name, name), res.Error)
		}
		return nil, false, storageError("create "+r.kind.Name, res.Error)
	}
	created := res.RowsAffected > 0

	label, err := r.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if label == nil {
		// Another writer holds the name but its row is not visible to us yet.
		return nil, false, models.NewConflictError(fmt.Sprintf("%s %q is being created concurrently", r.kind.Name, name), nil)
	}
	if created {
		r.log.LogCreate(ctx, map[string]any{"id": label.ID, "name": name})
	}
	return label, created, nil
}

func (r *labelRepository) ClearAssociations(ctx context.Context, ownerID uint) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.kind.JoinTable, r.kind.OwnerColumn)
	if err := r.db.WithContext(ctx).Exec(query, ownerID).Error; err != nil {
		return storageError("clear "+r.kind.JoinTable, err)
	}
	return nil
}

func (r *labelRepository) Associate(ctx context.Context, ownerID uint, labelIDs []uint) error {
	if len(labelIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(labelIDs))
	for i, id := range labelIDs {
		rows = append(rows, map[string]any{
			r.kind.OwnerColumn: ownerID,
			r.kind.LabelColumn: id,
			"position":         i,
		})
	}
	if err := r.db.WithContext(ctx).Table(r.kind.JoinTable).Create(rows).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(fmt.Sprintf("duplicate %s association", r.kind.Name), err)
		}
		return storageError("associate "+r.kind.Name, err)
	}
	return nil
}

func (r *labelRepository) NamesFor(ctx context.Context, ownerID uint) ([]string, error) {
	byOwner, err := r.NamesForMany(ctx, []uint{ownerID})
	if err != nil {
		return nil, err
	}
	if names := byOwner[ownerID]; names != nil {
		return names, nil
	}
	return []string{}, nil
}

func (r *labelRepository) NamesForMany(ctx context.Context, ownerIDs []uint) (map[uint][]string, error) {
	out := make(map[uint][]string, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		OwnerID uint
		Name    string
	}
	err := r.db.WithContext(ctx).Table(r.kind.JoinTable+" AS a").
		Select(fmt.Sprintf("a.%s AS owner_id, l.name AS name", r.kind.OwnerColumn)).
		Joins(fmt.Sprintf("JOIN %s AS l ON l.id = a.%s", r.kind.LabelTable, r.kind.LabelColumn)).
		Where(fmt.Sprintf("a.%s IN ?", r.kind.OwnerColumn), ownerIDs).
		Order(fmt.Sprintf("a.%s ASC, a.position ASC", r.kind.OwnerColumn)).
		Scan(&rows).Error
	if err != nil {
		return nil, storageError("load "+r.kind.Name+" names", err)
	}
	for _, row := range rows {
		out[row.OwnerID] = append(out[row.OwnerID], row.Name)
	}
	return out, nil
}

func (r *labelRepository) ListWithUsage(ctx context.Context) ([]models.LabelUsage, error) {
	var out []models.LabelUsage
	err := r.db.WithContext(ctx).Table(r.kind.LabelTable+" AS l").
		Select(fmt.Sprintf("l.id AS id, l.name AS name, l.created_at AS created_at, COUNT(a.%s) AS usage", r.kind.OwnerColumn)).
		Joins(fmt.Sprintf("LEFT JOIN %s AS a ON a.%s = l.id", r.kind.JoinTable, r.kind.LabelColumn)).
		Group("l.id, l.name, l.created_at").
		Order("l.created_at DESC, l.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, storageError("list "+r.kind.LabelTable, err)
	}
	if out == nil {
		out = []models.LabelUsage{}
	}
	return out, nil
}
