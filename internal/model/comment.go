package model

import "time"

// Comment is a child record of a Post. Creating or deleting one adjusts the
// parent's CommentCount within the same transaction.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;index"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Post   Post `json:"-" gorm:"foreignKey:PostID"`
	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
