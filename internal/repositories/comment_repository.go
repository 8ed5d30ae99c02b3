package repositories

import (
	"context"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetCommentsByParent(ctx context.Context, kind models.ContentKind, parentID string) ([]models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id uint) error
	DeleteCommentsByParent(ctx context.Context, kind models.ContentKind, parentID string) (int64, error)
	CountComments(ctx context.Context) (int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, notFound(err, "comment not found")
	}
	return &comment, nil
}

// GetCommentsByParent returns every comment of a content item in creation order.
// The id tie-break keeps rows created within the same clock tick in insertion order.
func (r *PostgresCommentRepository) GetCommentsByParent(ctx context.Context, kind models.ContentKind, parentID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where(models.ParentColumn(kind)+" = ?", parentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// UpdateComment saves the comment, refreshing updated_at
func (r *PostgresCommentRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// DeleteComment removes a comment and its likes
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "comment not found")
		}
		return nil
	})
}

// DeleteCommentsByParent removes every comment of a content item together with their likes
func (r *PostgresCommentRepository) DeleteCommentsByParent(ctx context.Context, kind models.ContentKind, parentID string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&models.Comment{}).Select("id").Where(models.ParentColumn(kind)+" = ?", parentID)
		if err := tx.Where("comment_id IN (?)", ids).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		res := tx.Where(models.ParentColumn(kind)+" = ?", parentID).Delete(&models.Comment{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

// CountComments returns the total number of comments
func (r *PostgresCommentRepository) CountComments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, err
}
