package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sugarsense/backend/internal/middleware"
	"github.com/sugarsense/backend/internal/models"
	"github.com/sugarsense/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "SugarSense API is running",
		"version": "v1.0.0",
	})
}

// currentUser loads the authenticated user. It writes the error response and returns
// false when there is none.
func currentUser(c *gin.Context, auth service.IAuthService) (*models.User, bool) {
	userID, err := middleware.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}

	user, err := auth.GetUserByID(c.Request.Context(), userID)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return nil, false
	}
	return user, true
}
