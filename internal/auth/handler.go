package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/academix/records/internal/middleware"
	apperrors "github.com/academix/records/pkg/errors"
	"github.com/academix/records/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler handles authentication HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new authentication handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles email/password login
// POST /api/login
func (h *Handler) Login(c *gin.Context) {
	start := time.Now()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Request body must be a JSON object")
		return
	}
	if err := ValidateLoginRequest(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		middleware.RecordLoginAttempt(loginStatus(err), time.Since(start))
		response.Error(c, err)
		return
	}

	middleware.RecordLoginAttempt("success", time.Since(start))
	response.Message(c, http.StatusOK, "Login successful", result)
}

// Me returns the identity carried by the caller's token
// GET /api/me
func (h *Handler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user_id":    claims.UserID,
		"email":      claims.Email,
		"role":       claims.Role,
		"issued_at":  claims.IssuedAtTime(),
		"expires_at": claims.ExpiresAtTime(),
	})
}

// loginStatus maps a login error to its metric label
func loginStatus(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrRateLimitExceeded):
		return "blocked"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return "failure"
	default:
		return "error"
	}
}
