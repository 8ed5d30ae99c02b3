package services

import (
	"context"
	"strconv"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ToggleResult is the membership state after a toggle
type ToggleResult struct {
	Action  models.EngagementAction
	Present bool
	Count   int
}

// Response renders the result with the action specific keys clients expect,
// e.g. {"liked": true, "likesCount": 3}.
func (r ToggleResult) Response() map[string]interface{} {
	switch r.Action {
	case models.ActionSave:
		return map[string]interface{}{"saved": r.Present, "savesCount": r.Count}
	case models.ActionShare:
		return map[string]interface{}{"shared": r.Present, "sharesCount": r.Count}
	default:
		return map[string]interface{}{"liked": r.Present, "likesCount": r.Count}
	}
}

// EngagementService toggles likes, saves and shares on any content kind
type EngagementService struct {
	content  repositories.ContentRepository
	notifier Notifier
	log      *zap.Logger
	metrics  *telemetry.Metrics
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(content repositories.ContentRepository, notifier Notifier, log *zap.Logger, metrics *telemetry.Metrics) *EngagementService {
	return &EngagementService{content: content, notifier: notifier, log: log.Named("engagement"), metrics: metrics}
}

// Toggle flips actorID's membership in the action's set of the target. Each call
// performs exactly one flip. A like or share that lands notifies the owner unless
// the owner is the actor; saves are private and never notify.
func (s *EngagementService) Toggle(ctx context.Context, actorID uint, kind models.ContentKind, targetID string, action models.EngagementAction) (*ToggleResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "EngagementService.Toggle")
	defer span.End()
	span.SetAttributes(
		attribute.String("content.kind", string(kind)),
		attribute.String("content.id", targetID),
		attribute.String("engagement.action", string(action)),
	)

	if actorID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	if !kind.Valid() {
		return nil, apperrors.BadRequest("unknown content type")
	}
	if _, err := models.ParseEngagementAction(string(action)); err != nil {
		return nil, apperrors.Wrap(apperrors.KindBadRequest, "unknown engagement action", err)
	}
	if action == models.ActionShare && !kind.SupportsShares() {
		return nil, apperrors.BadRequest("only news can be shared")
	}

	item, err := s.content.GetContentByID(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	if err := visibleTo(kind, item, actorID); err != nil {
		return nil, err
	}

	present, count, err := s.content.ToggleEngagement(ctx, kind, targetID, action, actorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "toggle failed")
		return nil, err
	}
	s.metrics.EngagementToggles.WithLabelValues(string(kind), string(action), strconv.FormatBool(present)).Inc()

	s.log.Debug("engagement toggled",
		zap.String("kind", string(kind)),
		zap.String("id", targetID),
		zap.String("action", string(action)),
		zap.Uint("actor_id", actorID),
		zap.Bool("present", present),
	)

	if present && action != models.ActionSave && actorID != item.AuthorID {
		notificationType := models.NotificationLike
		if action == models.ActionShare {
			notificationType = models.NotificationShare
		}
		s.notifier.Notify(ctx, Event{
			Type:        notificationType,
			ActorID:     actorID,
			RecipientID: item.AuthorID,
			TargetID:    targetID,
			TargetType:  string(kind),
		})
	}

	return &ToggleResult{Action: action, Present: present, Count: count}, nil
}
