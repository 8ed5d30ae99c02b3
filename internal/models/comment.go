package models

import (
	"errors"
	"time"

	"github.com/anonto42/newsfeed/backend/internal/engagement"
	"gorm.io/gorm"
)

// ErrCommentParent is returned when a comment does not reference exactly one content item
var ErrCommentParent = errors.New("comment must reference exactly one parent")

// Comment is a comment on one content item, optionally replying to another comment
type Comment struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	AuthorID        uint           `json:"author_id" gorm:"index;not null"`
	Content         string         `json:"content" gorm:"type:text;not null"`
	PostID          *string        `json:"post_id,omitempty" gorm:"size:24;index"`
	NewsID          *string        `json:"news_id,omitempty" gorm:"size:24;index"`
	VideoID         *string        `json:"video_id,omitempty" gorm:"size:24;index"`
	CommunityPostID *string        `json:"community_post_id,omitempty" gorm:"size:24;index"`
	ParentCommentID *uint          `json:"parent_comment_id,omitempty" gorm:"index"`
	Likes           engagement.Set `json:"likes" gorm:"-"`
	CreatedAt       time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewComment builds a comment attached to exactly one content item
func NewComment(kind ContentKind, parentID string, authorID uint, content string) (*Comment, error) {
	c := &Comment{AuthorID: authorID, Content: content}
	if err := c.SetParent(kind, parentID); err != nil {
		return nil, err
	}
	return c, nil
}

// SetParent clears every parent reference and sets the one for kind
func (c *Comment) SetParent(kind ContentKind, parentID string) error {
	if !kind.Valid() || parentID == "" {
		return ErrCommentParent
	}
	c.PostID, c.NewsID, c.VideoID, c.CommunityPostID = nil, nil, nil, nil
	id := parentID
	switch kind {
	case KindPost:
		c.PostID = &id
	case KindNews:
		c.NewsID = &id
	case KindVideo:
		c.VideoID = &id
	case KindCommunityPost:
		c.CommunityPostID = &id
	}
	return nil
}

// Parent returns the kind and id of the referenced content item
func (c *Comment) Parent() (ContentKind, string, error) {
	if err := c.ValidateParent(); err != nil {
		return "", "", err
	}
	switch {
	case c.PostID != nil:
		return KindPost, *c.PostID, nil
	case c.NewsID != nil:
		return KindNews, *c.NewsID, nil
	case c.VideoID != nil:
		return KindVideo, *c.VideoID, nil
	default:
		return KindCommunityPost, *c.CommunityPostID, nil
	}
}

// ValidateParent enforces that exactly one parent reference is set
func (c *Comment) ValidateParent() error {
	set := 0
	for _, ref := range []*string{c.PostID, c.NewsID, c.VideoID, c.CommunityPostID} {
		if ref != nil {
			if *ref == "" {
				return ErrCommentParent
			}
			set++
		}
	}
	if set != 1 {
		return ErrCommentParent
	}
	return nil
}

// BeforeSave is a gorm hook rejecting comments with zero or several parents
func (c *Comment) BeforeSave(tx *gorm.DB) error {
	return c.ValidateParent()
}

// ParentColumn is the comments table column referencing kind
func ParentColumn(kind ContentKind) string {
	switch kind {
	case KindNews:
		return "news_id"
	case KindVideo:
		return "video_id"
	case KindCommunityPost:
		return "community_post_id"
	default:
		return "post_id"
	}
}

// CommentView is a comment with its author and like state for the requesting user
type CommentView struct {
	Comment
	Author     UserCompact `json:"author"`
	LikesCount int         `json:"likes_count"`
	IsLiked    bool        `json:"is_liked"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=2000"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
