package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/engagement"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CommentService manages comment threads attached to content items
type CommentService struct {
	comments repositories.CommentRepository
	likes    repositories.CommentLikeRepository
	content  repositories.ContentRepository
	users    repositories.UserRepository
	notifier Notifier
	log      *zap.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	comments repositories.CommentRepository,
	likes repositories.CommentLikeRepository,
	content repositories.ContentRepository,
	users repositories.UserRepository,
	notifier Notifier,
	log *zap.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		likes:    likes,
		content:  content,
		users:    users,
		notifier: notifier,
		log:      log.Named("comments"),
	}
}

// Append adds a comment to the end of a content item's thread. replyTo, when
// set, must name a comment on the same item. The comment row and the item's
// comment list are both updated or neither is.
func (s *CommentService) Append(ctx context.Context, actorID uint, kind models.ContentKind, parentID, text string, replyTo *uint) (*models.Comment, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "CommentService.Append")
	defer span.End()
	span.SetAttributes(attribute.String("content.kind", string(kind)), attribute.String("content.id", parentID))

	if actorID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	if !kind.Valid() {
		return nil, apperrors.BadRequest("unknown content type")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.BadRequest("comment text is required")
	}

	parent, err := s.content.GetContentByID(ctx, kind, parentID)
	if err != nil {
		return nil, err
	}
	if err := visibleTo(kind, parent, actorID); err != nil {
		return nil, err
	}

	comment, err := models.NewComment(kind, parentID, actorID, text)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindBadRequest, "invalid comment parent", err)
	}
	if replyTo != nil {
		if err := s.checkReplyTarget(ctx, *replyTo, kind, parentID); err != nil {
			return nil, err
		}
		comment.ParentCommentID = replyTo
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.content.AppendComment(ctx, kind, parentID, comment.ID); err != nil {
		if delErr := s.comments.DeleteComment(ctx, comment.ID); delErr != nil {
			s.log.Error("failed to roll back comment",
				zap.Uint("comment_id", comment.ID),
				zap.Error(delErr),
			)
		}
		return nil, err
	}
	comment.Likes = engagement.Set{}

	if parent.AuthorID != actorID {
		s.notifier.Notify(ctx, Event{
			Type:        models.NotificationComment,
			ActorID:     actorID,
			RecipientID: parent.AuthorID,
			TargetID:    parentID,
			TargetType:  string(kind),
		})
	}
	return comment, nil
}

func (s *CommentService) checkReplyTarget(ctx context.Context, replyTo uint, kind models.ContentKind, parentID string) error {
	target, err := s.comments.GetCommentByID(ctx, replyTo)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return apperrors.BadRequest("reply target does not exist")
		}
		return err
	}
	targetKind, targetParent, err := target.Parent()
	if err != nil || targetKind != kind || targetParent != parentID {
		return apperrors.BadRequest("reply target belongs to another thread")
	}
	return nil
}

// List returns every comment of a content item in append order, with authors
// and like state for viewerID.
func (s *CommentService) List(ctx context.Context, kind models.ContentKind, parentID string, viewerID uint) ([]models.CommentView, error) {
	if !kind.Valid() {
		return nil, apperrors.BadRequest("unknown content type")
	}
	parent, err := s.content.GetContentByID(ctx, kind, parentID)
	if err != nil {
		return nil, err
	}
	if err := visibleTo(kind, parent, viewerID); err != nil {
		return nil, err
	}

	comments, err := s.comments.GetCommentsByParent(ctx, kind, parentID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(comments))
	authorIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
		authorIDs = append(authorIDs, c.AuthorID)
	}
	likeSets, err := s.likes.GetLikeSets(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		c.Likes = likeSets[c.ID]
		if c.Likes == nil {
			c.Likes = engagement.Set{}
		}
		views = append(views, models.CommentView{
			Comment:    c,
			Author:     compactOf(authors, c.AuthorID),
			LikesCount: c.Likes.Count(),
			IsLiked:    viewerID != 0 && c.Likes.Contains(viewerID),
		})
	}
	return views, nil
}

// Update replaces the text of a comment; only its author may edit it
func (s *CommentService) Update(ctx context.Context, actorID, commentID uint, text string) (*models.Comment, error) {
	if actorID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.BadRequest("comment text is required")
	}

	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actorID {
		return nil, apperrors.Forbidden("You are not authorized to update this comment")
	}

	comment.Content = text
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment and its likes. The author and moderators may delete.
// Replies to the comment are kept.
func (s *CommentService) Delete(ctx context.Context, actorID uint, role models.Role, commentID uint) error {
	if actorID == 0 {
		return apperrors.Unauthorized("User not authenticated")
	}
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actorID && !role.CanModerate() {
		return apperrors.Forbidden("You are not authorized to delete this comment")
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	kind, parentID, err := comment.Parent()
	if err != nil {
		return nil
	}
	if err := s.content.RemoveComment(ctx, kind, parentID, commentID); err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
		s.log.Error("failed to detach deleted comment from its parent",
			zap.Uint("comment_id", commentID),
			zap.String("parent_id", parentID),
			zap.Error(err),
		)
	}
	return nil
}

// ToggleLike flips actorID's like on a comment. A landed like notifies the comment's author.
func (s *CommentService) ToggleLike(ctx context.Context, actorID, commentID uint) (*ToggleResult, error) {
	if actorID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	liked, count, err := s.likes.ToggleCommentLike(ctx, commentID, actorID)
	if err != nil {
		return nil, err
	}

	if liked && comment.AuthorID != actorID {
		s.notifier.Notify(ctx, Event{
			Type:        models.NotificationLike,
			ActorID:     actorID,
			RecipientID: comment.AuthorID,
			TargetID:    strconv.FormatUint(uint64(commentID), 10),
			TargetType:  "comment",
		})
	}
	return &ToggleResult{Action: models.ActionLike, Present: liked, Count: int(count)}, nil
}

// compactOf returns the public projection of id, or a bare id when the user is gone
func compactOf(users map[uint]models.User, id uint) models.UserCompact {
	if u, ok := users[id]; ok {
		return u.ToCompact()
	}
	return models.UserCompact{ID: id}
}
