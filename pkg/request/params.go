package request

import (
	"strconv"

	apperrors "github.com/academix/records/pkg/errors"
	"github.com/gin-gonic/gin"
)

// PathID parses a positive integer path parameter
func PathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest("Invalid " + name)
	}
	return id, nil
}

// QueryLimit parses an optional positive "limit" query parameter
func QueryLimit(c *gin.Context, fallback int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, apperrors.BadRequest("limit must be a positive integer")
	}
	return limit, nil
}
