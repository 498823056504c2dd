package service

import (
	"folio/internal/auth"
	"folio/internal/models"
)

func requireAuthenticated(actor auth.Identity) error {
	if !actor.Authenticated() {
		return models.NewUnauthorizedError("Authentication required")
	}
	return nil
}

func requireAdmin(actor auth.Identity) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return models.NewForbiddenError("Admin role required")
	}
	return nil
}

// requireOwner allows the owner of a resource and admins.
func requireOwner(actor auth.Identity, ownerID uint, resource string) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.CanModify(ownerID) {
		return models.NewForbiddenError("You are not allowed to modify this " + resource)
	}
	return nil
}

// visibleTo reports whether post may be shown to viewer. Hidden and draft
// posts are reserved for their owner and admins.
func visibleTo(post *models.Post, viewer auth.Identity) bool {
	return post.Status == models.PostPublished || viewer.CanModify(post.UserID)
}
