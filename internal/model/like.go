package model

import "time"

// Like records that a user currently likes a post.
// The (post_id, user_id) pair is unique: a user may hold at most one like on
// a given post at any time, so liking is a binary toggle rather than a counter.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_post_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_post_user"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Post Post `json:"-" gorm:"foreignKey:PostID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}
