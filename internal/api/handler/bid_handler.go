package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/dto"
	"github.com/guildworks/marketboard/internal/api/service"
)

// BidHandler handles bid HTTP requests
type BidHandler struct {
	logger *slog.Logger
	market *service.Market
}

func NewBidHandler(deps *Dependencies) *BidHandler {
	return &BidHandler{
		logger: deps.Logger,
		market: deps.Market,
	}
}

// PlaceBid handles POST /api/v1/jobs/:job_id/bids
func (h *BidHandler) PlaceBid(c *gin.Context) {
	var req dto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if !domain.ValidCertificationLevel(req.CertificationLevel) {
		respondBadRequest(c, "unknown certification level")
		return
	}

	jobID := c.Param("job_id")
	bid, err := h.market.PlaceBid(c.Request.Context(), actorID(c), jobID, service.PlaceBidInput{
		EstimatedTime:      req.EstimatedTime,
		Price:              domain.Price{Gold: req.Gold, Silver: req.Silver, Copper: req.Copper},
		ProposedCopper:     req.TotalCopper,
		InGameName:         req.InGameName,
		CertificationLevel: req.CertificationLevel,
		Note:               req.Note,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("bid placed",
		slog.String("bid_id", bid.BidID),
		slog.String("job_id", jobID),
	)
	c.JSON(http.StatusCreated, dto.NewBidDTO(bid))
}

// UpdateBid handles PATCH /api/v1/bids/:bid_id
func (h *BidHandler) UpdateBid(c *gin.Context) {
	var req dto.UpdateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.CertificationLevel != nil && !domain.ValidCertificationLevel(*req.CertificationLevel) {
		respondBadRequest(c, "unknown certification level")
		return
	}

	bid, err := h.market.UpdateBid(c.Request.Context(), actorID(c), c.Param("bid_id"), service.UpdateBidInput{
		EstimatedTime:      req.EstimatedTime,
		Gold:               req.Gold,
		Silver:             req.Silver,
		Copper:             req.Copper,
		TotalCopper:        req.TotalCopper,
		InGameName:         req.InGameName,
		CertificationLevel: req.CertificationLevel,
		Note:               req.Note,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBidDTO(bid))
}

// DeleteBid handles DELETE /api/v1/bids/:bid_id
func (h *BidHandler) DeleteBid(c *gin.Context) {
	if err := h.market.DeleteBid(c.Request.Context(), actorID(c), c.Param("bid_id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListMyBids handles GET /api/v1/bids/mine
func (h *BidHandler) ListMyBids(c *gin.Context) {
	bids, err := h.market.ListMyBids(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": dto.NewBidDTOs(bids)})
}
