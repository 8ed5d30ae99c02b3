package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
	GetFollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// ToggleFollow removes the edge when present and creates it otherwise.
// It reports whether followerID follows followingID afterwards.
func (r *PostgresFollowRepository) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	following := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		following = true
		return tx.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error
	})
	if errors.Is(err, models.ErrSelfFollow) {
		return false, apperrors.Wrap(apperrors.KindBadRequest, "You cannot follow yourself", err)
	}
	return following, err
}

// IsFollowing reports whether followerID follows followingID
func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowers returns the users following userID, by username
func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	db := r.db.WithContext(ctx)
	err := db.Where("id IN (?)",
		db.Model(&models.Follow{}).Select("follower_id").Where("following_id = ?", userID),
	).Order("username ASC").Find(&users).Error
	return users, err
}

// GetFollowing returns the users userID follows, by username
func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	db := r.db.WithContext(ctx)
	err := db.Where("id IN (?)",
		db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID),
	).Order("username ASC").Find(&users).Error
	return users, err
}

// GetFollowersCount counts the users following userID
func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// GetFollowingCount counts the users userID follows
func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// GetFollowerIDs returns follower ids in follow order
func (r *PostgresFollowRepository) GetFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Order("id ASC").Pluck("follower_id", &ids).Error
	return ids, err
}

// GetFollowingIDs returns the ids userID follows in follow order
func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Order("id ASC").Pluck("following_id", &ids).Error
	return ids, err
}
