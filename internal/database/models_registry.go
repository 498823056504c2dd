package database

import "folio/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []any {
	return []any{
		&models.User{},
		&models.Post{},
		&models.PostImage{},
		&models.Tag{},
		&models.PostTag{},
		&models.Comment{},
		&models.Project{},
		&models.Technology{},
		&models.ProjectTechnology{},
	}
}
