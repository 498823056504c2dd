package models

import "time"

// Tag is a label attached to posts.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Technology is a label attached to projects.
type Technology struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the plural stable across naming strategies.
func (Technology) TableName() string { return "technologies" }

// Label is the shared row shape of tags and technologies.
type Label struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// LabelUsage is a label with the number of owners referencing it.
type LabelUsage struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Usage     int64     `json:"usage"`
}
