package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guildworks/marketboard/internal/api/auth"
	"github.com/guildworks/marketboard/internal/api/dto"
	"github.com/guildworks/marketboard/internal/api/service"
)

// Context keys set by the auth middleware.
const (
	ContextUserID  = "user_id"
	ContextIsStaff = "is_staff"
)

// actorID returns the authenticated user ID set by the auth middleware.
func actorID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// AuthHandler handles registration, login and the current-user endpoint.
type AuthHandler struct {
	logger *slog.Logger
	market *service.Market
	tokens *auth.Manager
}

func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{
		logger: deps.Logger,
		market: deps.Market,
		tokens: deps.Tokens,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := h.market.Register(c.Request.Context(), service.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		InGameName: req.InGameName,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("user registered",
		slog.String("user_id", user.UserID),
		slog.String("username", user.Username),
	)
	c.JSON(http.StatusCreated, dto.NewUserDTO(user))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := h.market.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.UserID, user.Username, user.IsStaff)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      dto.NewUserDTO(user),
	})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.market.GetUser(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserDTO(user))
}
