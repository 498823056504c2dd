package models

import "time"

// PostStatus controls the public visibility of a post.
type PostStatus string

// Post statuses.
const (
	PostPublished PostStatus = "published"
	PostHidden    PostStatus = "hidden"
	PostDraft     PostStatus = "draft"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostPublished, PostHidden, PostDraft:
		return true
	}
	return false
}

// Toggled returns the status a post moves to when its visibility is flipped.
func (s PostStatus) Toggled() PostStatus {
	if s == PostPublished {
		return PostHidden
	}
	return PostPublished
}

// Post represents a blog post. Comments is a persisted counter kept equal to
// the number of comment rows referencing the post.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Excerpt   string     `gorm:"size:500" json:"excerpt"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Cover     string     `json:"cover"`
	Views     int64      `gorm:"not null;default:0" json:"views"`
	Comments  int64      `gorm:"not null;default:0" json:"comments"`
	Status    PostStatus `gorm:"size:16;not null;default:published;index" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Author        *Author  `gorm:"-" json:"author,omitempty"`
	Tags          []string `gorm:"-" json:"tags"`
	ContentImages []string `gorm:"-" json:"content_images"`
}

// PostImage is an ordered image reference embedded in a post body.
type PostImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PostID    uint   `gorm:"not null;index" json:"post_id"`
	URL       string `gorm:"not null" json:"url"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// PostTag links a post to a tag at a position.
type PostTag struct {
	PostID   uint `gorm:"primaryKey" json:"post_id"`
	TagID    uint `gorm:"primaryKey;index" json:"tag_id"`
	Position int  `gorm:"not null;default:0" json:"position"`
}

// PostPage is one page of a post listing.
type PostPage struct {
	List  []Post `json:"list"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}
