package models

import "time"

// Project is a portfolio entry with an ordered tech stack.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `json:"image"`
	Link        string    `json:"link"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	TechStack []string `gorm:"-" json:"tech_stack"`
}

// ProjectTechnology links a project to a technology at a position.
type ProjectTechnology struct {
	ProjectID    uint `gorm:"primaryKey" json:"project_id"`
	TechnologyID uint `gorm:"primaryKey;index" json:"technology_id"`
	Position     int  `gorm:"not null;default:0" json:"position"`
}
