package auth

import (
	"context"

	"folio/internal/models"
)

// Identity is who a request acts as. The zero value is anonymous.
type Identity struct {
	SubjectID   uint        `json:"user_id"`
	Role        models.Role `json:"role"`
	DisplayName string      `json:"display_name"`
}

// Anonymous is the identity of a request without a valid token.
var Anonymous = Identity{Role: models.RoleGuest}

// Authenticated reports whether the identity came from a valid token.
func (i Identity) Authenticated() bool {
	return i.SubjectID != 0
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.Role == models.RoleAdmin
}

// CanModify reports whether the identity may change a resource owned by ownerID.
func (i Identity) CanModify(ownerID uint) bool {
	return i.IsAdmin() || (i.Authenticated() && i.SubjectID == ownerID)
}

type identityKey struct{}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity attached to ctx, or Anonymous.
func FromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Anonymous
	}
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id
	}
	return Anonymous
}
