package services

import (
	"context"
	"strconv"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"go.uber.org/zap"
)

// FollowResult is the follow state after a toggle
type FollowResult struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followersCount"`
}

// FollowService maintains the follower graph
type FollowService struct {
	follows  repositories.FollowRepository
	users    repositories.UserRepository
	notifier Notifier
	log      *zap.Logger
}

// NewFollowService creates a new FollowService
func NewFollowService(follows repositories.FollowRepository, users repositories.UserRepository, notifier Notifier, log *zap.Logger) *FollowService {
	return &FollowService{follows: follows, users: users, notifier: notifier, log: log.Named("follow")}
}

// Toggle follows targetID when actorID does not follow it yet and unfollows otherwise.
// A new follow notifies the followed user.
func (s *FollowService) Toggle(ctx context.Context, actorID, targetID uint) (*FollowResult, error) {
	if actorID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	if actorID == targetID {
		return nil, apperrors.BadRequest("You cannot follow yourself")
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return nil, err
	}

	following, err := s.follows.ToggleFollow(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	count, err := s.follows.GetFollowersCount(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if following {
		s.notifier.Notify(ctx, Event{
			Type:        models.NotificationFollow,
			ActorID:     actorID,
			RecipientID: targetID,
			TargetID:    strconv.FormatUint(uint64(actorID), 10),
			TargetType:  "user",
		})
	}
	s.log.Debug("follow toggled", zap.Uint("follower_id", actorID), zap.Uint("following_id", targetID), zap.Bool("following", following))
	return &FollowResult{Following: following, FollowersCount: count}, nil
}

// Followers lists the users following userID
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.follows.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return compactAll(users), nil
}

// Following lists the users userID follows
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.follows.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return compactAll(users), nil
}

func compactAll(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return out
}
