package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenVerifier verifies Firebase ID tokens; *auth.Client satisfies it
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthResult is returned by every login flow
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService registers users and issues and checks access tokens
type AuthService struct {
	users    repositories.UserRepository
	verifier TokenVerifier
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// NewAuthService creates an AuthService. verifier may be nil when Firebase is not configured.
func NewAuthService(users repositories.UserRepository, verifier TokenVerifier, secret string, ttl time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		verifier: verifier,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		log:      log.Named("auth"),
	}
}

// Signup creates a local account with a bcrypt password hash
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*AuthResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username: req.Username,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user signed up", zap.Uint("user_id", user.ID))
	return s.result(user)
}

// Signin checks an email and password pair
func (s *AuthService) Signin(ctx context.Context, req models.SigninRequest) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	return s.result(user)
}

// FirebaseLogin verifies a Firebase ID token and resolves the local user, linking
// an existing account by email or creating a new one.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.verifier == nil {
		return nil, apperrors.BadRequest("Firebase login is not configured")
	}
	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnauthorized, "Invalid Firebase ID token", err)
	}
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)

	user, err := s.users.GetUserByFirebaseUID(ctx, token.UID)
	switch {
	case err == nil:
		return s.result(user)
	case !apperrors.Is(err, apperrors.KindNotFound):
		return nil, err
	}

	if email == "" {
		return nil, apperrors.BadRequest("Firebase account has no email")
	}
	uid := token.UID
	user, err = s.users.GetUserByEmail(ctx, strings.ToLower(email))
	switch {
	case err == nil:
		user.FirebaseUID = &uid
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		s.log.Info("linked firebase account", zap.Uint("user_id", user.ID))
	case apperrors.Is(err, apperrors.KindNotFound):
		user = &models.User{
			Username:    usernameFor(name, email, uid),
			Email:       strings.ToLower(email),
			AvatarURL:   picture,
			FirebaseUID: &uid,
			Role:        models.RoleUser,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		s.log.Info("created user from firebase account", zap.Uint("user_id", user.ID))
	default:
		return nil, err
	}
	return s.result(user)
}

// usernameFor derives an alphanumeric username from the display name or email,
// suffixed with part of the Firebase UID to keep it unique.
func usernameFor(name, email, uid string) string {
	base := name
	if base == "" {
		base = strings.SplitN(email, "@", 2)[0]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 40 {
		out = out[:40]
	}
	if out == "" {
		out = "user"
	}
	suffix := uid
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return out + strings.ToLower(suffix)
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// IssueToken signs an HS256 JWT carrying the user's id, email and role
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a JWT issued by IssueToken
func (s *AuthService) ParseToken(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(apperrors.KindUnauthorized, "Token expired", err)
		}
		return nil, apperrors.Wrap(apperrors.KindUnauthorized, "Invalid token", err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, apperrors.Unauthorized("Invalid token")
	}
	return claims, nil
}

// Authenticate resolves a bearer token to claims. Local JWTs are tried first;
// when that fails and Firebase is configured, the token is verified as a
// Firebase ID token and mapped to the linked local user.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*models.JwtCustomClaims, error) {
	claims, err := s.ParseToken(bearer)
	if err == nil || s.verifier == nil {
		return claims, err
	}

	token, ferr := s.verifier.VerifyIDToken(ctx, bearer)
	if ferr != nil {
		return nil, err
	}
	user, uerr := s.users.GetUserByFirebaseUID(ctx, token.UID)
	if uerr != nil {
		if apperrors.Is(uerr, apperrors.KindNotFound) {
			return nil, apperrors.Unauthorized("No account is linked to this Firebase user")
		}
		return nil, uerr
	}
	return &models.JwtCustomClaims{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}
