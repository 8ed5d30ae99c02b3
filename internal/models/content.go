package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/newsfeed/backend/internal/engagement"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentKind tags the four content variants that share engagement and comment behaviour
type ContentKind string

const (
	KindPost          ContentKind = "post"
	KindNews          ContentKind = "news"
	KindVideo         ContentKind = "video"
	KindCommunityPost ContentKind = "community_post"
)

// ContentKinds lists every variant in display order
var ContentKinds = []ContentKind{KindPost, KindNews, KindVideo, KindCommunityPost}

// ParseContentKind accepts singular, plural and route spellings ("community-posts", "communityPost").
func ParseContentKind(s string) (ContentKind, error) {
	switch strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))) {
	case "post", "posts":
		return KindPost, nil
	case "news":
		return KindNews, nil
	case "video", "videos":
		return KindVideo, nil
	case "community_post", "community_posts", "communitypost", "communityposts":
		return KindCommunityPost, nil
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// Valid reports whether k is one of the known variants
func (k ContentKind) Valid() bool {
	for _, known := range ContentKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Collection is the MongoDB collection holding this variant
func (k ContentKind) Collection() string {
	switch k {
	case KindNews:
		return "news"
	case KindVideo:
		return "videos"
	case KindCommunityPost:
		return "community_posts"
	default:
		return "posts"
	}
}

// Label is the human readable name used in notification messages
func (k ContentKind) Label() string {
	if k == KindCommunityPost {
		return "community post"
	}
	return string(k)
}

// SupportsShares reports whether the variant carries a shares set. Only news does.
func (k ContentKind) SupportsShares() bool {
	return k == KindNews
}

// EngagementAction is one of the toggleable membership sets on a content item
type EngagementAction string

const (
	ActionLike  EngagementAction = "like"
	ActionSave  EngagementAction = "save"
	ActionShare EngagementAction = "share"
)

// ParseEngagementAction validates a raw action name
func ParseEngagementAction(s string) (EngagementAction, error) {
	switch a := EngagementAction(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionLike, ActionSave, ActionShare:
		return a, nil
	}
	return "", fmt.Errorf("unknown engagement action %q", s)
}

// Field is the document field backing the action's set
func (a EngagementAction) Field() string {
	switch a {
	case ActionSave:
		return "saved_by"
	case ActionShare:
		return "shares"
	default:
		return "likes"
	}
}

// ContentItem is a post, news article, video or community post stored in MongoDB
type ContentItem struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Kind       ContentKind        `json:"kind" bson:"kind"`
	AuthorID   uint               `json:"author_id" bson:"author_id"`
	Title      string             `json:"title" bson:"title"`
	Body       string             `json:"body" bson:"body"`
	ImageURLs  []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	MediaURL   string             `json:"media_url,omitempty" bson:"media_url,omitempty"`
	Category   string             `json:"category,omitempty" bson:"category,omitempty"`
	Community  string             `json:"community,omitempty" bson:"community,omitempty"`
	Tags       []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Location   string             `json:"location,omitempty" bson:"location,omitempty"`
	Published  bool               `json:"published" bson:"published"`
	Views      int64              `json:"views" bson:"views"`
	Likes      engagement.Set     `json:"likes" bson:"likes"`
	SavedBy    engagement.Set     `json:"saved_by" bson:"saved_by"`
	Shares     engagement.Set     `json:"shares,omitempty" bson:"shares,omitempty"`
	CommentIDs []uint             `json:"comment_ids" bson:"comment_ids"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// Engagement returns the set backing action
func (c *ContentItem) Engagement(action EngagementAction) engagement.Set {
	switch action {
	case ActionSave:
		return c.SavedBy
	case ActionShare:
		return c.Shares
	default:
		return c.Likes
	}
}

// SetEngagement replaces the set backing action
func (c *ContentItem) SetEngagement(action EngagementAction, s engagement.Set) {
	switch action {
	case ActionSave:
		c.SavedBy = s
	case ActionShare:
		c.Shares = s
	default:
		c.Likes = s
	}
}

// ContentView is a content item enriched for the requesting user
type ContentView struct {
	ContentItem
	Author        UserCompact `json:"author"`
	LikesCount    int         `json:"likes_count"`
	SavesCount    int         `json:"saves_count"`
	SharesCount   int         `json:"shares_count"`
	CommentsCount int         `json:"comments_count"`
	IsLiked       bool        `json:"is_liked"`
	IsSaved       bool        `json:"is_saved"`
}

// NewContentView derives counts and viewer flags from the item's sets
func NewContentView(item ContentItem, author UserCompact, viewerID uint) ContentView {
	return ContentView{
		ContentItem:   item,
		Author:        author,
		LikesCount:    item.Likes.Count(),
		SavesCount:    item.SavedBy.Count(),
		SharesCount:   item.Shares.Count(),
		CommentsCount: len(item.CommentIDs),
		IsLiked:       viewerID != 0 && item.Likes.Contains(viewerID),
		IsSaved:       viewerID != 0 && item.SavedBy.Contains(viewerID),
	}
}

// CreateContentRequest defines the request body for publishing any content variant
type CreateContentRequest struct {
	Title     string   `json:"title" validate:"required,min=1,max=200"`
	Body      string   `json:"body" validate:"required,min=1,max=20000"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,max=10,dive,url"`
	MediaURL  string   `json:"media_url,omitempty" validate:"omitempty,url"`
	Category  string   `json:"category,omitempty" validate:"omitempty,max=50"`
	Community string   `json:"community,omitempty" validate:"omitempty,max=100"`
	Tags      []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=40"`
	Location  string   `json:"location,omitempty" validate:"omitempty,max=120"`
	Published *bool    `json:"published,omitempty"`
}

// UpdateContentRequest defines the request body for editing content; empty fields are kept
type UpdateContentRequest struct {
	Title     string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Body      string   `json:"body,omitempty" validate:"omitempty,min=1,max=20000"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,max=10,dive,url"`
	MediaURL  string   `json:"media_url,omitempty" validate:"omitempty,url"`
	Tags      []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=40"`
	Location  string   `json:"location,omitempty" validate:"omitempty,max=120"`
	Published *bool    `json:"published,omitempty"`
}
