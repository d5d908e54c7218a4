// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/session"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
)

// AuthHandler handles the mocked sign-in and profile endpoints
type AuthHandler struct {
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{jwtManager: jwtManager}
}

// LoginRequest represents the login form
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned after signing in or registering
type LoginResponse struct {
	User        session.User  `json:"user"`
	ReturnRoute string        `json:"return_route,omitempty"`
	AddedBook   *catalog.Book `json:"added_book,omitempty"`
	Token       string        `json:"token"`
	ExpiresAt   time.Time     `json:"expires_at"`
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := sess.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		middleware.GetLogger(c).WithError(err).Error("Login failed")
		fail(c, http.StatusInternalServerError, msgActionFailed)
		return
	}

	response, ok := h.issueToken(c, sess, result.User)
	if !ok {
		return
	}
	response.ReturnRoute = result.ReturnRoute
	response.AddedBook = result.AddedBook

	respond(c, http.StatusOK, "Login successful", response)
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req session.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"details": err.Error(),
			})
			return
		}

		missing, invalid := fieldErrors(verrs)
		if len(missing) > 0 {
			failWith(c, http.StatusBadRequest, gin.H{
				"error":  "Missing required fields",
				"fields": missing,
			})
			return
		}
		failWith(c, http.StatusBadRequest, gin.H{
			"error":  "Invalid fields",
			"fields": invalid,
		})
		return
	}

	if req.Password != "" {
		if err := auth.ValidatePassword(req.Password); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	user, err := sess.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUserExists):
			fail(c, http.StatusConflict, "User already exists")
		default:
			middleware.GetLogger(c).WithError(err).Error("Registration failed")
			fail(c, http.StatusInternalServerError, msgActionFailed)
		}
		return
	}

	response, ok := h.issueToken(c, sess, *user)
	if !ok {
		return
	}
	response.ReturnRoute = session.DefaultReturnRoute

	respond(c, http.StatusCreated, "User registered successfully", response)
}

// Logout empties the cart and signs the session out
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	if err := sess.Logout(c.Request.Context()); err != nil {
		middleware.GetLogger(c).WithError(err).Error("Logout failed")
		fail(c, http.StatusInternalServerError, msgActionFailed)
		return
	}

	respond(c, http.StatusOK, "Logged out successfully", nil)
}

// GetProfile gets the signed-in profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	user, signedIn := sess.User()
	if !signedIn {
		fail(c, http.StatusUnauthorized, "Sign in required")
		return
	}

	respond(c, http.StatusOK, "Profile retrieved successfully", user)
}

// UpdateProfile merges the sent fields into the profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req session.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	user, err := sess.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			fail(c, http.StatusUnauthorized, "Sign in required")
			return
		}
		middleware.GetLogger(c).WithError(err).Error("Profile update failed")
		fail(c, http.StatusInternalServerError, msgActionFailed)
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully", user)
}

func (h *AuthHandler) issueToken(c *gin.Context, sess *session.Session, user session.User) (*LoginResponse, bool) {
	token, expiresAt, err := h.jwtManager.GenerateSessionToken(sess.ID(), user.Username)
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Failed to issue session token")
		fail(c, http.StatusInternalServerError, msgActionFailed)
		return nil, false
	}

	return &LoginResponse{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, true
}
