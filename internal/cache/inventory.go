package cache

import (
	"context"
	"fmt"
	"time"
)

// Key formats.
const (
	LabelUsageKeyFormat = "labels:%s:usage"
	ProjectListKey      = "projects:list"
	ProjectKeyFormat    = "project:%d"
	AdminProfileKey     = "user:admin-profile"
)

// TTLs.
const (
	LabelUsageTTL   = 10 * time.Minute
	ProjectListTTL  = 10 * time.Minute
	ProjectTTL      = 10 * time.Minute
	AdminProfileTTL = 30 * time.Minute
)

// LabelUsageKey returns the key of the usage listing for a label table.
func LabelUsageKey(table string) string {
	return fmt.Sprintf(LabelUsageKeyFormat, table)
}

// ProjectKey returns the key of a single hydrated project.
func ProjectKey(id uint) string {
	return fmt.Sprintf(ProjectKeyFormat, id)
}

// Invalidate deletes keys, ignoring a missing client or store errors.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateLabelUsage drops the cached usage listing of a label table.
func InvalidateLabelUsage(ctx context.Context, table string) {
	Invalidate(ctx, LabelUsageKey(table))
}

// InvalidateProject drops a project and the project listing.
func InvalidateProject(ctx context.Context, id uint) {
	Invalidate(ctx, ProjectKey(id), ProjectListKey)
}
