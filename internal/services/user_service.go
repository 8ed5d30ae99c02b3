package services

import (
	"context"
	"strings"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"go.uber.org/zap"
)

// UserService serves user profiles
type UserService struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
	log     *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, follows repositories.FollowRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, follows: follows, log: log.Named("users")}
}

// Profile returns userID with follow counts and whether viewerID follows them
func (s *UserService) Profile(ctx context.Context, userID, viewerID uint) (*models.UserProfile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := &models.UserProfile{User: *user}

	if profile.FollowersCount, err = s.follows.GetFollowersCount(ctx, userID); err != nil {
		return nil, err
	}
	if profile.FollowingCount, err = s.follows.GetFollowingCount(ctx, userID); err != nil {
		return nil, err
	}
	if viewerID != 0 && viewerID != userID {
		if profile.IsFollowing, err = s.follows.IsFollowing(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// UpdateProfile applies the non-empty fields of req to userID
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateUserRequest) (*models.User, error) {
	if userID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = strings.ToLower(req.Email)
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account of userID
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	if userID == 0 {
		return apperrors.Unauthorized("User not authenticated")
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Uint("user_id", userID))
	return nil
}

// Search finds users whose username or email contains query
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]models.UserCompact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.BadRequest("Search query is required")
	}
	_, limit = normalizePage(1, limit, 20, 50)
	users, err := s.users.SearchUsers(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return compactAll(users), nil
}
