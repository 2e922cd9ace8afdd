package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sugarsense/backend/internal/middleware"
	"github.com/sugarsense/backend/internal/service"
	"github.com/sugarsense/backend/internal/types"
)

// DashboardHandler handles dashboard-related requests
type DashboardHandler struct {
	wellness    service.IWellnessService
	authService service.IAuthService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(wellness service.IWellnessService, authService service.IAuthService) *DashboardHandler {
	return &DashboardHandler{
		wellness:    wellness,
		authService: authService,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("", h.GetDashboard)
		dashboard.POST("/mood", h.LogMood)
		dashboard.POST("/preferences", h.SavePreferences)
	}
}

// GetDashboard returns the user's preferences, today's plan and prediction history
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	resp, err := h.wellness.Dashboard(c.Request.Context(), user)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LogMood records the user's mood
func (h *DashboardHandler) LogMood(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.MoodRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mood is required"})
		return
	}

	resp, err := h.wellness.LogMood(c.Request.Context(), userID, req.Mood, req.Notes)
	if errors.Is(err, service.ErrMoodRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mood is required"})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log mood"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SavePreferences stores the diet and allergies and regenerates today's plan
func (h *DashboardHandler) SavePreferences(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.PreferencesRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "diet must be veg or nonveg"})
		return
	}

	resp, err := h.wellness.SavePreferences(c.Request.Context(), userID, req.Diet, req.Allergy)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preferences"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
