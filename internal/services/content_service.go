package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"go.uber.org/zap"
)

// ListOptions filters and pages a content listing
type ListOptions struct {
	AuthorID uint
	Tag      string
	Page     int
	Limit    int
}

// ContentPage is one page of content views
type ContentPage struct {
	Items []models.ContentView
	Total int64
	Page  int
	Limit int
}

// ContentService implements publishing and reading of every content kind
type ContentService struct {
	content  repositories.ContentRepository
	comments repositories.CommentRepository
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	notifier Notifier
	log      *zap.Logger
}

// NewContentService creates a new ContentService
func NewContentService(
	content repositories.ContentRepository,
	comments repositories.CommentRepository,
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	notifier Notifier,
	log *zap.Logger,
) *ContentService {
	return &ContentService{
		content:  content,
		comments: comments,
		users:    users,
		follows:  follows,
		notifier: notifier,
		log:      log.Named("content"),
	}
}

// Create publishes a new item. Publishing news notifies every follower of the author.
func (s *ContentService) Create(ctx context.Context, actorID uint, kind models.ContentKind, req models.CreateContentRequest) (*models.ContentView, error) {
	if actorID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	if !kind.Valid() {
		return nil, apperrors.BadRequest("unknown content type")
	}
	if err := validateForKind(kind, req); err != nil {
		return nil, err
	}

	item := &models.ContentItem{
		Kind:      kind,
		AuthorID:  actorID,
		Title:     strings.TrimSpace(req.Title),
		Body:      req.Body,
		ImageURLs: req.ImageURLs,
		MediaURL:  req.MediaURL,
		Category:  req.Category,
		Community: req.Community,
		Tags:      normalizeTags(req.Tags),
		Location:  req.Location,
		Published: true,
	}
	if kind == models.KindNews && req.Published != nil {
		item.Published = *req.Published
	}

	if err := s.content.CreateContent(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("content created",
		zap.String("kind", string(kind)),
		zap.String("id", item.ID.Hex()),
		zap.Uint("author_id", actorID),
	)

	if kind == models.KindNews && item.Published {
		s.announce(ctx, item)
	}
	return s.view(ctx, *item, actorID)
}

func validateForKind(kind models.ContentKind, req models.CreateContentRequest) error {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		return apperrors.BadRequest("title and body are required")
	}
	switch kind {
	case models.KindVideo:
		if req.MediaURL == "" {
			return apperrors.BadRequest("a video requires media_url")
		}
	case models.KindCommunityPost:
		if strings.TrimSpace(req.Community) == "" {
			return apperrors.BadRequest("a community post requires community")
		}
	}
	if req.Published != nil && kind != models.KindNews {
		return apperrors.BadRequest(fmt.Sprintf("a %s cannot be saved as a draft", kind.Label()))
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// announce fans out an upload notification to the author's followers
func (s *ContentService) announce(ctx context.Context, item *models.ContentItem) {
	followers, err := s.follows.GetFollowerIDs(ctx, item.AuthorID)
	if err != nil {
		s.log.Error("failed to load followers for upload fanout", zap.Uint("author_id", item.AuthorID), zap.Error(err))
		return
	}
	if len(followers) == 0 {
		return
	}

	author := "Someone"
	if u, err := s.users.GetUserByID(ctx, item.AuthorID); err == nil {
		author = u.Username
	}
	s.notifier.FanOut(ctx, Event{
		Type:       models.NotificationUpload,
		ActorID:    item.AuthorID,
		TargetID:   item.ID.Hex(),
		TargetType: string(item.Kind),
		Message:    fmt.Sprintf("%s published a new %s: %s", author, item.Kind.Label(), item.Title),
	}, followers)
}

// Get returns one item and counts the view. Unpublished news is only visible to its author.
func (s *ContentService) Get(ctx context.Context, kind models.ContentKind, id string, viewerID uint) (*models.ContentView, error) {
	if !kind.Valid() {
		return nil, apperrors.BadRequest("unknown content type")
	}
	item, err := s.content.GetContentByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := visibleTo(kind, item, viewerID); err != nil {
		return nil, err
	}

	if err := s.content.IncrementViews(ctx, kind, id); err != nil {
		s.log.Warn("failed to count view", zap.String("id", id), zap.Error(err))
	} else {
		item.Views++
	}
	return s.view(ctx, *item, viewerID)
}

// visibleTo hides unpublished items from everyone but their author
func visibleTo(kind models.ContentKind, item *models.ContentItem, viewerID uint) error {
	if !item.Published && item.AuthorID != viewerID {
		return apperrors.NotFound(fmt.Sprintf("%s not found", kind.Label()))
	}
	return nil
}

// List pages through items of one kind, newest first
func (s *ContentService) List(ctx context.Context, kind models.ContentKind, opts ListOptions, viewerID uint) (*ContentPage, error) {
	if !kind.Valid() {
		return nil, apperrors.BadRequest("unknown content type")
	}
	page, limit := normalizePage(opts.Page, opts.Limit, 10, 50)

	filter := repositories.ContentFilter{
		Tag:           strings.ToLower(strings.TrimSpace(opts.Tag)),
		PublishedOnly: opts.AuthorID == 0 || opts.AuthorID != viewerID,
	}
	if opts.AuthorID != 0 {
		filter.AuthorIDs = []uint{opts.AuthorID}
	}

	items, total, err := s.content.ListContent(ctx, kind, filter, skipFor(page, limit), int64(limit))
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, items, viewerID)
	if err != nil {
		return nil, err
	}
	return &ContentPage{Items: views, Total: total, Page: page, Limit: limit}, nil
}

// Update edits an item; only its author may do so. Publishing a news draft notifies followers.
func (s *ContentService) Update(ctx context.Context, actorID uint, kind models.ContentKind, id string, req models.UpdateContentRequest) (*models.ContentView, error) {
	if actorID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	if !kind.Valid() {
		return nil, apperrors.BadRequest("unknown content type")
	}
	item, err := s.content.GetContentByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if item.AuthorID != actorID {
		return nil, apperrors.Forbidden(fmt.Sprintf("You are not authorized to update this %s", kind.Label()))
	}
	if req.Published != nil && kind != models.KindNews {
		return nil, apperrors.BadRequest(fmt.Sprintf("a %s cannot be saved as a draft", kind.Label()))
	}

	wasPublished := item.Published
	if req.Title != "" {
		item.Title = strings.TrimSpace(req.Title)
	}
	if req.Body != "" {
		item.Body = req.Body
	}
	if req.ImageURLs != nil {
		item.ImageURLs = req.ImageURLs
	}
	if req.MediaURL != "" {
		item.MediaURL = req.MediaURL
	}
	if req.Tags != nil {
		item.Tags = normalizeTags(req.Tags)
	}
	if req.Location != "" {
		item.Location = req.Location
	}
	if req.Published != nil {
		item.Published = *req.Published
	}

	if err := s.content.UpdateContent(ctx, item); err != nil {
		return nil, err
	}
	if kind == models.KindNews && item.Published && !wasPublished {
		s.announce(ctx, item)
	}
	return s.view(ctx, *item, actorID)
}

// Delete removes an item together with its comments and their likes. The author
// and moderators may delete.
func (s *ContentService) Delete(ctx context.Context, actorID uint, role models.Role, kind models.ContentKind, id string) error {
	if actorID == 0 {
		return apperrors.Unauthorized("User not authenticated")
	}
	if !kind.Valid() {
		return apperrors.BadRequest("unknown content type")
	}
	item, err := s.content.GetContentByID(ctx, kind, id)
	if err != nil {
		return err
	}
	if item.AuthorID != actorID && !role.CanModerate() {
		return apperrors.Forbidden(fmt.Sprintf("You are not authorized to delete this %s", kind.Label()))
	}

	if err := s.content.DeleteContent(ctx, kind, id); err != nil {
		return err
	}
	removed, err := s.comments.DeleteCommentsByParent(ctx, kind, id)
	if err != nil {
		s.log.Error("failed to delete comments of removed content",
			zap.String("kind", string(kind)),
			zap.String("id", id),
			zap.Error(err),
		)
		return nil
	}
	s.log.Info("content deleted",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Uint("actor_id", actorID),
		zap.Int64("comments_removed", removed),
	)
	return nil
}

// Saved returns the items userID has saved. An empty kind covers every kind.
func (s *ContentService) Saved(ctx context.Context, userID uint, kind models.ContentKind, page, limit int) ([]models.ContentView, error) {
	if userID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	if kind != "" && !kind.Valid() {
		return nil, apperrors.BadRequest("unknown content type")
	}
	page, limit = normalizePage(page, limit, 10, 50)

	kinds := models.ContentKinds
	if kind != "" {
		kinds = []models.ContentKind{kind}
	}
	// Each kind is read up to the end of the requested page, then merged.
	window := int64(page) * int64(limit)
	var items []models.ContentItem
	for _, k := range kinds {
		found, err := s.content.ListSavedBy(ctx, k, userID, 0, window)
		if err != nil {
			return nil, err
		}
		items = append(items, found...)
	}
	return s.views(ctx, pageOf(items, page, limit), userID)
}

// Feed returns published items from the users userID follows, newest first
func (s *ContentService) Feed(ctx context.Context, userID uint, page, limit int) ([]models.ContentView, error) {
	if userID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	page, limit = normalizePage(page, limit, 10, 50)

	following, err := s.follows.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []models.ContentView{}, nil
	}

	filter := repositories.ContentFilter{AuthorIDs: following, PublishedOnly: true}
	window := int64(page) * int64(limit)
	var items []models.ContentItem
	for _, k := range models.ContentKinds {
		found, _, err := s.content.ListContent(ctx, k, filter, 0, window)
		if err != nil {
			return nil, err
		}
		items = append(items, found...)
	}
	return s.views(ctx, pageOf(items, page, limit), userID)
}

// pageOf sorts items newest first and cuts out one page
func pageOf(items []models.ContentItem, page, limit int) []models.ContentItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	start := skipFor(page, limit)
	if start < 0 || start >= int64(len(items)) {
		return []models.ContentItem{}
	}
	end := start + int64(limit)
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[start:end]
}

func (s *ContentService) view(ctx context.Context, item models.ContentItem, viewerID uint) (*models.ContentView, error) {
	views, err := s.views(ctx, []models.ContentItem{item}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views attaches authors and viewer flags to items
func (s *ContentService) views(ctx context.Context, items []models.ContentItem, viewerID uint) ([]models.ContentView, error) {
	authorIDs := make([]uint, 0, len(items))
	for _, item := range items {
		authorIDs = append(authorIDs, item.AuthorID)
	}
	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.ContentView, 0, len(items))
	for _, item := range items {
		views = append(views, models.NewContentView(item, compactOf(authors, item.AuthorID), viewerID))
	}
	return views, nil
}
