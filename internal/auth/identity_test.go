package auth

import (
	"context"
	"testing"

	"folio/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_CanModify(t *testing.T) {
	owner := Identity{SubjectID: 5, Role: models.RoleUser}
	other := Identity{SubjectID: 6, Role: models.RoleUser}
	admin := Identity{SubjectID: 1, Role: models.RoleAdmin}

	assert.True(t, owner.CanModify(5))
	assert.False(t, other.CanModify(5))
	assert.True(t, admin.CanModify(5))
	assert.False(t, Anonymous.CanModify(0))
	assert.False(t, Anonymous.IsAdmin())
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Anonymous, FromContext(context.Background()))

	id := Identity{SubjectID: 3, Role: models.RoleUser, DisplayName: "reader"}
	ctx := WithIdentity(context.Background(), id)
	assert.Equal(t, id, FromContext(ctx))
}
