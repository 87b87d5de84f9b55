package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	contextKeyUserID   = "user_id"
	contextKeyUserRole = "user_role"
)

func getUserID(c *gin.Context) string {
	userID, exists := c.Get(contextKeyUserID)
	if !exists {
		return ""
	}
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// parseIDParam reads a positive numeric path parameter. On failure it writes
// a 400 response and returns ok=false.
func parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

// parseStringParam returns the path parameter unchanged. Only an empty or
// all-blank value is rejected.
func parseStringParam(c *gin.Context, param string) (string, bool) {
	value := c.Param(param)
	if strings.TrimSpace(value) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "cannot be empty",
		})
		return "", false
	}
	return value, true
}

// parseIntQuery reads an integer query parameter within [min, max]. A
// missing parameter yields defaultValue; max < 0 means unbounded.
func parseIntQuery(c *gin.Context, param string, defaultValue, min, max int) (int, bool) {
	raw := c.Query(param)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < min || (max >= 0 && value > max) {
		details := "must be an integer >= " + strconv.Itoa(min)
		if max >= 0 {
			details = "must be an integer between " + strconv.Itoa(min) + " and " + strconv.Itoa(max)
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: details,
		})
		return 0, false
	}
	return value, true
}

// optionalQuery returns nil for a missing or blank query parameter. Any
// other value is passed through unchanged.
func optionalQuery(c *gin.Context, param string) *string {
	value := c.Query(param)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
