package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/dto"
	"github.com/guildworks/marketboard/internal/api/service"
)

const deadlineLayout = "2006-01-02"

// JobHandler handles job lifecycle HTTP requests
type JobHandler struct {
	logger *slog.Logger
	market *service.Market
}

func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		market: deps.Market,
	}
}

// PostJob handles POST /api/v1/jobs
func (h *JobHandler) PostJob(c *gin.Context) {
	var req dto.PostJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if !domain.ValidItemCategory(req.ItemCategory) {
		respondBadRequest(c, "unknown item category")
		return
	}
	deadline, err := time.Parse(deadlineLayout, req.Deadline)
	if err != nil {
		respondBadRequest(c, "deadline must be formatted as YYYY-MM-DD")
		return
	}

	job, err := h.market.PostJob(c.Request.Context(), actorID(c), service.PostJobInput{
		InGameName:     req.InGameName,
		Server:         req.Server,
		Node:           req.Node,
		ItemsRequested: req.ItemsRequested,
		ItemCategory:   req.ItemCategory,
		Price:          domain.Price{Gold: req.Gold, Silver: req.Silver, Copper: req.Copper},
		TotalCopper:    req.TotalCopper,
		Deadline:       deadline,
		SpecialNotes:   req.SpecialNotes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("job posted",
		slog.String("job_id", job.JobID),
		slog.String("posted_by", job.PostedBy),
	)
	c.JSON(http.StatusCreated, dto.NewJobDTO(job))
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.market.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// ListOpenJobs handles GET /api/v1/jobs
func (h *JobHandler) ListOpenJobs(c *gin.Context) {
	var req dto.Pagination
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "invalid query parameters")
		return
	}
	page, pageSize := req.Window()

	jobs, err := h.market.ListOpenJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"jobs":      dto.NewJobDTOs(jobs),
		"page":      page,
		"page_size": pageSize,
	})
}

// ListMyJobs handles GET /api/v1/jobs/mine
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	jobs, err := h.market.ListMyJobs(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": dto.NewJobDTOs(jobs)})
}

// UpdateJob handles PATCH /api/v1/jobs/:job_id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.ItemCategory != nil && !domain.ValidItemCategory(*req.ItemCategory) {
		respondBadRequest(c, "unknown item category")
		return
	}

	in := service.UpdateJobInput{
		InGameName:     req.InGameName,
		Server:         req.Server,
		Node:           req.Node,
		ItemsRequested: req.ItemsRequested,
		ItemCategory:   req.ItemCategory,
		Gold:           req.Gold,
		Silver:         req.Silver,
		Copper:         req.Copper,
		TotalCopper:    req.TotalCopper,
		SpecialNotes:   req.SpecialNotes,
	}
	if req.Deadline != nil {
		deadline, err := time.Parse(deadlineLayout, *req.Deadline)
		if err != nil {
			respondBadRequest(c, "deadline must be formatted as YYYY-MM-DD")
			return
		}
		in.Deadline = &deadline
	}

	job, err := h.market.UpdateJob(c.Request.Context(), actorID(c), c.Param("job_id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// AcceptBid handles POST /api/v1/jobs/:job_id/accept
func (h *JobHandler) AcceptBid(c *gin.Context) {
	var req dto.AcceptBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	jobID := c.Param("job_id")
	if err := h.market.AcceptBid(c.Request.Context(), actorID(c), jobID, req.BidID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("bid accepted",
		slog.String("job_id", jobID),
		slog.String("bid_id", req.BidID),
	)
	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "accepted_bid_id": req.BidID})
}

// MarkCompleted handles POST /api/v1/jobs/:job_id/complete
func (h *JobHandler) MarkCompleted(c *gin.Context) {
	jobID := c.Param("job_id")
	if err := h.market.MarkCompleted(c.Request.Context(), actorID(c), jobID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": string(domain.JobStatusCompleted)})
}

// MarkDelivered handles POST /api/v1/jobs/:job_id/deliver
func (h *JobHandler) MarkDelivered(c *gin.Context) {
	jobID := c.Param("job_id")
	if err := h.market.MarkDelivered(c.Request.Context(), actorID(c), jobID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": string(domain.JobStatusDelivered)})
}

// ListBidsForJob handles GET /api/v1/jobs/:job_id/bids
func (h *JobHandler) ListBidsForJob(c *gin.Context) {
	bids, err := h.market.ListBidsForJob(c.Request.Context(), actorID(c), c.Param("job_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": dto.NewBidDTOs(bids)})
}
