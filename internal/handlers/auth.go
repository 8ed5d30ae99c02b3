package handlers

import (
	"net/http"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup handles local user registration with username, email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Signup(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, res)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Signin(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, res)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.auth.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, res)
}
