package repositories

import (
	"context"

	"github.com/anonto42/newsfeed/backend/internal/engagement"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"gorm.io/gorm"
)

// CommentLikeRepository defines the interface for comment like operations
type CommentLikeRepository interface {
	ToggleCommentLike(ctx context.Context, commentID, userID uint) (bool, int64, error)
	GetLikeSets(ctx context.Context, commentIDs []uint) (map[uint]engagement.Set, error)
}

type postgresCommentLikeRepository struct {
	db *gorm.DB
}

// NewPostgresCommentLikeRepository creates a CommentLikeRepository backed by gorm
func NewPostgresCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &postgresCommentLikeRepository{db: db}
}

// ToggleCommentLike flips the user's like on a comment and returns the new state and like count
func (r *postgresCommentLikeRepository) ToggleCommentLike(ctx context.Context, commentID, userID uint) (bool, int64, error) {
	var (
		liked bool
		count int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.CommentLike{CommentID: commentID, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
		}
		return tx.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	})
	return liked, count, err
}

// GetLikeSets returns the like set of each comment; comments without likes map to an empty set
func (r *postgresCommentLikeRepository) GetLikeSets(ctx context.Context, commentIDs []uint) (map[uint]engagement.Set, error) {
	result := make(map[uint]engagement.Set, len(commentIDs))
	if len(commentIDs) == 0 {
		return result, nil
	}
	var likes []models.CommentLike
	if err := r.db.WithContext(ctx).Where("comment_id IN ?", commentIDs).Order("id ASC").Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, id := range commentIDs {
		result[id] = engagement.Set{}
	}
	for _, l := range likes {
		result[l.CommentID] = append(result[l.CommentID], l.UserID)
	}
	return result, nil
}
