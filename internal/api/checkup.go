package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/middleware"
	"github.com/sugarsense/backend/internal/service"
	"github.com/sugarsense/backend/internal/types"
)

// Checkup error messages.
const (
	msgCheckupFailed    = "An error occurred. Please check your inputs."
	msgModelUnavailable = "prediction model unavailable"
)

// CheckupHandler serves risk checkups and the prediction history.
type CheckupHandler struct {
	predictions service.IPredictionService
	authService service.IAuthService
	exporter    *service.HistoryExporter
	limiter     *middleware.RateLimiter
	log         logrus.FieldLogger
}

func NewCheckupHandler(predictions service.IPredictionService, authService service.IAuthService, exporter *service.HistoryExporter, limiter *middleware.RateLimiter) *CheckupHandler {
	return &CheckupHandler{
		predictions: predictions,
		authService: authService,
		exporter:    exporter,
		limiter:     limiter,
		log:         logrus.WithField("component", "checkup_handler"),
	}
}

func (h *CheckupHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/checkup", h.limiter.RateLimitMiddleware(), h.Checkup)
	router.GET("/history", h.History)
	router.GET("/history/pdf", h.HistoryPDF)
}

// Checkup scores the submitted measurements and records the result.
func (h *CheckupHandler) Checkup(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.CheckupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgCheckupFailed})
		return
	}

	result, err := h.predictions.Checkup(c.Request.Context(), userID, &req)
	if err != nil {
		var inputErr *service.InputError
		switch {
		case errors.As(err, &inputErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Message, "field": inputErr.Field})
		case errors.Is(err, artifact.ErrArtifactMissing):
			h.log.WithError(err).Warn("Checkup rejected, no model loaded")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgModelUnavailable})
		default:
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgCheckupFailed})
		}
		return
	}

	c.JSON(http.StatusOK, types.CheckupResponse{
		Result:     result.Summary,
		Label:      result.Label,
		Percent:    result.Percent,
		ColorClass: result.ColorClass,
	})
}

// History lists the user's predictions, newest first.
func (h *CheckupHandler) History(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	records, err := h.predictions.History(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": service.ToEntries(records)})
}

// HistoryPDF downloads the prediction history as a PDF.
func (h *CheckupHandler) HistoryPDF(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	records, err := h.predictions.History(c.Request.Context(), user.ID)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	data, err := h.exporter.PDF(user, records)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render history"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="prediction_history.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
