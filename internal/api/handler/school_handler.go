package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/service"
	"github.com/AlineIradukunda/dusangire-backend/pkg/response"
)

// SchoolHandler exposes school CRUD and lifecycle endpoints.
type SchoolHandler struct {
	schoolSvc service.SchoolService
}

// NewSchoolHandler creates the SchoolHandler.
func NewSchoolHandler(schoolSvc service.SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolSvc: schoolSvc}
}

// List returns active and pending schools with live totals.
// GET /api/v1/schools
func (h *SchoolHandler) List(c *gin.Context) {
	schools, err := h.schoolSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": schools})
}

// ListDeleted returns confirmed-deleted schools.
// GET /api/v1/schools/deleted
func (h *SchoolHandler) ListDeleted(c *gin.Context) {
	schools, err := h.schoolSvc.ListDeleted(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": schools})
}

// Get returns one school.
// GET /api/v1/schools/:id
func (h *SchoolHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "school id is required")
		return
	}

	school, err := h.schoolSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}

	response.OK(c, school)
}

// Create registers a school.
// POST /api/v1/schools
func (h *SchoolHandler) Create(c *gin.Context) {
	var req dto.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	school, err := h.schoolSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}

	response.Created(c, school)
}

// Update modifies a school's details.
// PUT /api/v1/schools/:id
func (h *SchoolHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "school id is required")
		return
	}

	var req dto.UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	school, err := h.schoolSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}

	response.OK(c, school)
}

// RequestDelete marks a school pending deletion.
// PUT /api/v1/schools/:id/delete
func (h *SchoolHandler) RequestDelete(c *gin.Context) {
	id := c.Param("id")
	var req dto.RequestDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11004, "a deletion reason is required")
		return
	}

	if err := h.schoolSvc.RequestDelete(c.Request.Context(), id, req.Reason); err != nil {
		h.handleSchoolError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "school marked for deletion"})
}

// Recover returns a pending school to active.
// PUT /api/v1/schools/:id/recover
func (h *SchoolHandler) Recover(c *gin.Context) {
	if err := h.schoolSvc.Recover(c.Request.Context(), c.Param("id")); err != nil {
		h.handleSchoolError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "school recovered"})
}

// ConfirmDelete finalizes a pending deletion.
// DELETE /api/v1/schools/:id/confirm
func (h *SchoolHandler) ConfirmDelete(c *gin.Context) {
	if err := h.schoolSvc.ConfirmDelete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleSchoolError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "school deleted"})
}

func (h *SchoolHandler) handleSchoolError(c *gin.Context, err error) {
	if handleLifecycleError(c, err, 11010) {
		return
	}
	switch {
	case errors.Is(err, service.ErrSchoolNotFound):
		response.NotFound(c, 11001, "school not found")
	case errors.Is(err, service.ErrSchoolNameExists):
		response.BadRequest(c, 11002, "a school with this name already exists")
	default:
		response.InternalError(c)
	}
}
