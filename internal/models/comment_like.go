package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrCommentLikeRef rejects a like missing its comment or user
var ErrCommentLikeRef = errors.New("comment like needs a comment and a user")

// CommentLike is one member of a comment's like set; the unique pair keeps the set duplicate free
type CommentLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"comment_id" gorm:"not null;uniqueIndex:idx_comment_like_member;index"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_comment_like_member"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate is a gorm hook rejecting likes with a zero reference
func (l *CommentLike) BeforeCreate(tx *gorm.DB) error {
	if l.CommentID == 0 || l.UserID == 0 {
		return ErrCommentLikeRef
	}
	return nil
}
