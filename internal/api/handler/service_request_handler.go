package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/dto"
	"github.com/guildworks/marketboard/internal/api/service"
)

// ServiceRequestHandler handles direct customer-to-store-owner requests
type ServiceRequestHandler struct {
	logger *slog.Logger
	market *service.Market
}

func NewServiceRequestHandler(deps *Dependencies) *ServiceRequestHandler {
	return &ServiceRequestHandler{
		logger: deps.Logger,
		market: deps.Market,
	}
}

// Create handles POST /api/v1/service-requests
func (h *ServiceRequestHandler) Create(c *gin.Context) {
	var req dto.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	sr, err := h.market.CreateServiceRequest(c.Request.Context(), actorID(c), req.StoreOwner, service.ServiceRequestInput{
		Description: req.Description,
		Price:       domain.Price{Gold: req.Gold, Silver: req.Silver, Copper: req.Copper},
		TotalCopper: req.TotalCopper,
		Timeline:    req.Timeline,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("service request created",
		slog.String("request_id", sr.RequestID),
		slog.String("store_owner", sr.StoreOwner),
	)
	c.JSON(http.StatusCreated, dto.NewServiceRequestDTO(sr))
}

// Get handles GET /api/v1/service-requests/:request_id
func (h *ServiceRequestHandler) Get(c *gin.Context) {
	sr, err := h.market.GetServiceRequest(c.Request.Context(), actorID(c), c.Param("request_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewServiceRequestDTO(sr))
}

// List handles GET /api/v1/service-requests
func (h *ServiceRequestHandler) List(c *gin.Context) {
	requests, err := h.market.ListServiceRequests(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service_requests": dto.NewServiceRequestDTOs(requests)})
}

// Accept handles POST /api/v1/service-requests/:request_id/accept
//
// Acceptance materializes a job that is already in the accepted state,
// with an accepted bid from the store owner attached.
func (h *ServiceRequestHandler) Accept(c *gin.Context) {
	requestID := c.Param("request_id")
	job, err := h.market.AcceptServiceRequest(c.Request.Context(), actorID(c), requestID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("service request accepted",
		slog.String("request_id", requestID),
		slog.String("job_id", job.JobID),
	)
	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// Deny handles POST /api/v1/service-requests/:request_id/deny
func (h *ServiceRequestHandler) Deny(c *gin.Context) {
	requestID := c.Param("request_id")
	if err := h.market.DenyServiceRequest(c.Request.Context(), actorID(c), requestID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "status": string(domain.RequestStatusDenied)})
}

// Complete handles POST /api/v1/service-requests/:request_id/complete
func (h *ServiceRequestHandler) Complete(c *gin.Context) {
	requestID := c.Param("request_id")
	if err := h.market.CompleteServiceRequest(c.Request.Context(), actorID(c), requestID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "status": string(domain.RequestStatusCompleted)})
}

// RequestFeedback handles POST /api/v1/service-requests/:request_id/feedback
func (h *ServiceRequestHandler) RequestFeedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	requestID := c.Param("request_id")
	if err := h.market.RequestFeedback(c.Request.Context(), actorID(c), requestID, req.Message); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "status": string(domain.RequestStatusFeedback)})
}
