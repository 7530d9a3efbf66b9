package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guildworks/marketboard/internal/api/dto"
	"github.com/guildworks/marketboard/internal/api/service"
)

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	logger *slog.Logger
	market *service.Market
}

func NewProfileHandler(deps *Dependencies) *ProfileHandler {
	return &ProfileHandler{
		logger: deps.Logger,
		market: deps.Market,
	}
}

// GetMine handles GET /api/v1/profiles/me
// A missing profile is created on first access.
func (h *ProfileHandler) GetMine(c *gin.Context) {
	profile, err := h.market.GetProfile(c.Request.Context(), actorID(c), true)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileDTO(profile))
}

// Get handles GET /api/v1/profiles/:user_id
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.market.GetProfile(c.Request.Context(), c.Param("user_id"), false)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileDTO(profile))
}

// Update handles PATCH /api/v1/profiles/me
func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	profile, err := h.market.UpdateProfile(c.Request.Context(), actorID(c), service.UpdateProfileInput{
		Bio:          req.Bio,
		GameLocation: req.GameLocation,
		InGameName:   req.InGameName,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileDTO(profile))
}
