package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Role is a user's privilege level
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// CanModerate reports whether the role may remove other users' content
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleModerator
}

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email       string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password    string    `json:"-"` // bcrypt hash
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Bio         string    `json:"bio,omitempty" gorm:"size:500"`
	Role        Role      `json:"role" gorm:"size:20;default:user;index"`
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserCompact is the public projection embedded in other responses
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToCompact returns the public projection of u
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}

// UserProfile is a user with follow counts
type UserProfile struct {
	User
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Username  string `json:"username,omitempty" validate:"omitempty,alphanum,min=3,max=50"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
