package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/service"
	"github.com/AlineIradukunda/dusangire-backend/pkg/response"
)

// DistributionHandler exposes outgoing-distribution endpoints.
type DistributionHandler struct {
	distributionSvc service.DistributionService
}

// NewDistributionHandler creates the DistributionHandler.
func NewDistributionHandler(distributionSvc service.DistributionService) *DistributionHandler {
	return &DistributionHandler{distributionSvc: distributionSvc}
}

// List returns active and pending distributions.
// GET /api/v1/distributions
func (h *DistributionHandler) List(c *gin.Context) {
	dists, err := h.distributionSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": dists})
}

// ListDeleted returns confirmed-deleted distributions.
// GET /api/v1/distributions/deleted
func (h *DistributionHandler) ListDeleted(c *gin.Context) {
	dists, err := h.distributionSvc.ListDeleted(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": dists})
}

// Get returns one distribution.
// GET /api/v1/distributions/:id
func (h *DistributionHandler) Get(c *gin.Context) {
	dist, err := h.distributionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleDistributionError(c, err)
		return
	}

	response.OK(c, dist)
}

// Create records funds sent to an active school.
// POST /api/v1/distribute
func (h *DistributionHandler) Create(c *gin.Context) {
	var req dto.CreateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	dist, err := h.distributionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleDistributionError(c, err)
		return
	}

	response.Created(c, dist)
}

// Summary returns per-school distribution totals plus the grand total.
// GET /api/v1/transaction-summary
func (h *DistributionHandler) Summary(c *gin.Context) {
	summary, err := h.distributionSvc.Summarize(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": summary})
}

// RequestDelete marks a distribution pending deletion.
// PUT /api/v1/distributions/:id/delete
func (h *DistributionHandler) RequestDelete(c *gin.Context) {
	var req dto.RequestDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13004, "a deletion reason is required")
		return
	}

	if err := h.distributionSvc.RequestDelete(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		h.handleDistributionError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "distribution marked for deletion"})
}

// Recover returns a pending distribution to active.
// PUT /api/v1/distributions/:id/recover
func (h *DistributionHandler) Recover(c *gin.Context) {
	if err := h.distributionSvc.Recover(c.Request.Context(), c.Param("id")); err != nil {
		h.handleDistributionError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "distribution recovered"})
}

// ConfirmDelete finalizes a pending deletion.
// DELETE /api/v1/distributions/:id/confirm
func (h *DistributionHandler) ConfirmDelete(c *gin.Context) {
	if err := h.distributionSvc.ConfirmDelete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleDistributionError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "distribution deleted"})
}

func (h *DistributionHandler) handleDistributionError(c *gin.Context, err error) {
	if handleLifecycleError(c, err, 13010) {
		return
	}
	switch {
	case errors.Is(err, service.ErrDistributionNotFound):
		response.NotFound(c, 13001, "distribution not found")
	case errors.Is(err, service.ErrSchoolNotFound):
		response.BadRequest(c, 13002, "school does not exist")
	case errors.Is(err, service.ErrSchoolNotDistributable):
		response.BadRequest(c, 13003, "cannot distribute to a school that is not active")
	case errors.Is(err, service.ErrAmountNotPositive):
		response.BadRequest(c, 13005, "amount must be greater than zero")
	default:
		response.InternalError(c)
	}
}
