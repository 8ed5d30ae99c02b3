package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser inserts a user; a taken username or email yields a Conflict error
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(apperrors.KindConflict, "username or email already registered", err)
		}
		return err
	}
	return nil
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user not found")
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err, "user not found")
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, notFound(err, "user not found")
	}
	return &user, nil
}

// GetUsersByIDs loads several users at once, keyed by id. Missing ids are absent from the map.
func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	result := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(apperrors.KindConflict, "username or email already registered", err)
		}
		return err
	}
	return nil
}

// DeleteUser deletes a user together with their follow edges and the
// notifications they sent or received, in one transaction
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("user not found")
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		return tx.Where("recipient_id = ? OR actor_id = ?", id, id).Delete(&models.Notification{}).Error
	})
}

// SearchUsers searches for users by username or email
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// CountUsers returns the number of registered users
func (r *PostgresUserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// notFound maps gorm's missing-record error to a NotFound application error
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.KindNotFound, message, err)
	}
	return err
}
