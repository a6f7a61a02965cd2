package api

import (
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/service" // Import service package
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the account service dependency.
type AuthHandler struct {
	accounts service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Username             string `json:"username" binding:"required"`
	Password             string `json:"password" binding:"required"`
	PasswordConfirmation string `json:"passwordConfirmation" binding:"required"`
}

// AccountResponse excludes sensitive info like the password hash
type AccountResponse struct {
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DeleteAccountRequest carries the re-entered password guarding deletion.
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// --- Handler Methods ---

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), req.Username, req.Password, req.PasswordConfirmation)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrPasswordMismatch),
			errors.Is(err, service.ErrEmptyField),
			errors.Is(err, service.ErrInvalidUsername):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrHashingFailed):
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, AccountResponse{Username: account.Username})
}

// Login authenticates an account and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownUser), errors.Is(err, service.ErrWrongPassword):
			abortWithError(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrEmptyField):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrTokenGeneration):
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, mapSessionToResponse(session))
}

// DeleteAccount irreversibly removes the authenticated account and all of
// its workout data. The password must be re-entered in the request body.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get username from token")
		return
	}

	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.accounts.DeleteAccount(c.Request.Context(), username, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownUser), errors.Is(err, service.ErrWrongPassword):
			abortWithError(c, http.StatusUnauthorized, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during account deletion")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": username})
}

// mapSessionToResponse converts a domain Session to a LoginResponse DTO.
func mapSessionToResponse(session *domain.Session) LoginResponse {
	if session == nil {
		return LoginResponse{}
	}
	return LoginResponse{
		Token:     session.Token,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	}
}
