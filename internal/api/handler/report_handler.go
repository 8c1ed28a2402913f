package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/service"
	"github.com/AlineIradukunda/dusangire-backend/pkg/response"
)

// ReportHandler exposes report generation and the snapshot history.
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates the ReportHandler.
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Generate renders an export file and streams it as a download.
// POST /api/v1/reports/generate
func (h *ReportHandler) Generate(c *gin.Context) {
	var req dto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	file, err := h.reportSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content.Bytes())
}

// List returns the stored report snapshots, newest first.
// GET /api/v1/reports
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.reportSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": reports})
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 14001, "start_date and end_date must both be valid YYYY-MM-DD dates")
	case errors.Is(err, service.ErrSchoolNotFound):
		response.BadRequest(c, 14002, "school does not exist")
	case errors.Is(err, service.ErrColumnsRequired):
		response.BadRequest(c, 14003, "columns are required when explicit rows are supplied")
	case errors.Is(err, service.ErrRenderFailed):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
