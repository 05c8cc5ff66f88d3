package model

import "time"

// Post is the parent resource for likes and comments. LikeCount and
// CommentCount are denormalized aggregates: they must always equal the number
// of live Like and Comment rows for the post, and every child mutation
// co-mutates them inside the same transaction.
type Post struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Content      string    `json:"content" gorm:"type:text"`
	AuthorID     uint      `json:"author_id" gorm:"not null;index"`
	LikeCount    int64     `json:"like_count" gorm:"not null;default:0"`
	CommentCount int64     `json:"comment_count" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
