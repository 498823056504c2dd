// Package service holds the business logic between HTTP handlers and repositories.
package service

import (
	"context"
	"strings"

	"folio/internal/observability"
	"folio/internal/repository"
)

// NormalizeLabels trims names, drops empty ones and keeps only the first
// occurrence of a repeated name. Order is otherwise preserved.
func NormalizeLabels(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// LabelSynchronizer replaces the label set attached to an owner.
type LabelSynchronizer struct {
	log *observability.ServiceLogger
}

// NewLabelSynchronizer creates a LabelSynchronizer.
func NewLabelSynchronizer() *LabelSynchronizer {
	return &LabelSynchronizer{log: observability.NewServiceLogger("labels")}
}

// Reconcile makes the labels of ownerID exactly names, in order. Missing
// labels are created; labels that drop out stay in the label table. It must
// run inside the caller's transaction so a failure leaves the previous set.
func (s *LabelSynchronizer) Reconcile(ctx context.Context, labels repository.LabelRepository, ownerID uint, names []string) ([]string, error) {
	kind := labels.Kind()
	normalized := NormalizeLabels(names)

	ids := make([]uint, 0, len(normalized))
	created := 0
	for _, name := range normalized {
		label, err := labels.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if label == nil {
			var inserted bool
			label, inserted, err = labels.CreateIfAbsent(ctx, name)
			if err != nil {
				return nil, err
			}
			if inserted {
				created++
				observability.LabelsCreated.WithLabelValues(kind.Name).Inc()
			}
		}
		ids = append(ids, label.ID)
	}

	if err := labels.ClearAssociations(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := labels.Associate(ctx, ownerID, ids); err != nil {
		return nil, err
	}
	observability.AssociationRewrites.WithLabelValues(kind.Name).Inc()

	s.log.LogCall(ctx, "Reconcile", map[string]any{
		"kind":     kind.Name,
		"owner_id": ownerID,
		"labels":   len(ids),
		"created":  created,
	})
	return normalized, nil
}
