package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sugarsense/backend/internal/middleware"
	"github.com/sugarsense/backend/internal/service"
	"github.com/sugarsense/backend/internal/types"
)

// ChatHandler relays user questions to the assistant
type ChatHandler struct {
	chat        service.IChatService
	authService service.IAuthService
	limiter     *middleware.RateLimiter
}

func NewChatHandler(chat service.IChatService, authService service.IAuthService, limiter *middleware.RateLimiter) *ChatHandler {
	return &ChatHandler{
		chat:        chat,
		authService: authService,
		limiter:     limiter,
	}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/chat", h.limiter.RateLimitMiddleware(), h.Chat)
}

// Chat always answers 200 with a reply; failures come back as fallback replies.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusOK, types.ChatResponse{Reply: service.ReplyUnableToProcess})
		return
	}

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	reply := h.chat.Reply(c.Request.Context(), user, req.Message)
	c.JSON(http.StatusOK, types.ChatResponse{Reply: reply})
}
