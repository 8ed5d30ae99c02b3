package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrSelfFollow rejects an edge whose follower and target are the same user
var ErrSelfFollow = errors.New("users cannot follow themselves")

// Follow is a directed follower -> following edge. Both the followers and the
// following lists of a user are read from this one table.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"not null;uniqueIndex:idx_follow_edge;index"`
	FollowingID uint      `json:"following_id" gorm:"not null;uniqueIndex:idx_follow_edge;index"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate is a gorm hook rejecting self edges
func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.FollowerID == f.FollowingID {
		return ErrSelfFollow
	}
	return nil
}
