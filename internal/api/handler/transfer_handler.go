package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlineIradukunda/dusangire-backend/config"
	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/service"
	"github.com/AlineIradukunda/dusangire-backend/pkg/response"
)

// TransferHandler exposes donation intake, spreadsheet import, and the
// delete lifecycle for transfers.
type TransferHandler struct {
	cfg         *config.Config
	transferSvc service.TransferService
}

// NewTransferHandler creates the TransferHandler.
func NewTransferHandler(cfg *config.Config, transferSvc service.TransferService) *TransferHandler {
	return &TransferHandler{cfg: cfg, transferSvc: transferSvc}
}

// List returns active and pending transfers.
// GET /api/v1/transfers
func (h *TransferHandler) List(c *gin.Context) {
	transfers, err := h.transferSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": transfers})
}

// ListDeleted returns confirmed-deleted transfers.
// GET /api/v1/transfers/deleted
func (h *TransferHandler) ListDeleted(c *gin.Context) {
	transfers, err := h.transferSvc.ListDeleted(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": transfers})
}

// Get returns one transfer with its linked schools.
// GET /api/v1/transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	transfer, err := h.transferSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTransferError(c, err)
		return
	}

	response.OK(c, transfer)
}

// Create records a single donation.
// POST /api/v1/transfers
func (h *TransferHandler) Create(c *gin.Context) {
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	transfer, err := h.transferSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTransferError(c, err)
		return
	}

	response.Created(c, transfer)
}

// Update modifies a transfer's details.
// PUT /api/v1/transfers/:id
func (h *TransferHandler) Update(c *gin.Context) {
	var req dto.UpdateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	transfer, err := h.transferSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleTransferError(c, err)
		return
	}

	response.OK(c, transfer)
}

// Upload ingests an .xlsx spreadsheet of donation rows. Rows that cannot
// be imported come back as warnings alongside the created count.
// POST /api/v1/transfers/upload
func (h *TransferHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "a spreadsheet file is required in the 'file' field")
		return
	}
	defer file.Close()

	if max := h.cfg.Import.MaxFileBytes; max > 0 && header.Size > max {
		response.BadRequest(c, 10005, "uploaded file is too large")
		return
	}

	result, err := h.transferSvc.ImportSpreadsheet(c.Request.Context(), file)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OK(c, result)
}

// RequestDelete marks a transfer pending deletion.
// PUT /api/v1/transfers/:id/delete
func (h *TransferHandler) RequestDelete(c *gin.Context) {
	var req dto.RequestDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12004, "a deletion reason is required")
		return
	}

	if err := h.transferSvc.RequestDelete(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		h.handleTransferError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "transfer marked for deletion"})
}

// Recover returns a pending transfer to active.
// PUT /api/v1/transfers/:id/recover
func (h *TransferHandler) Recover(c *gin.Context) {
	if err := h.transferSvc.Recover(c.Request.Context(), c.Param("id")); err != nil {
		h.handleTransferError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "transfer recovered"})
}

// ConfirmDelete finalizes a pending deletion.
// DELETE /api/v1/transfers/:id/confirm
func (h *TransferHandler) ConfirmDelete(c *gin.Context) {
	if err := h.transferSvc.ConfirmDelete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleTransferError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "transfer deleted"})
}

func (h *TransferHandler) handleTransferError(c *gin.Context, err error) {
	if handleLifecycleError(c, err, 12010) {
		return
	}
	switch {
	case errors.Is(err, service.ErrTransferNotFound):
		response.NotFound(c, 12001, "transfer not found")
	case errors.Is(err, service.ErrUnknownDonor):
		response.BadRequest(c, 12002, "donor is not in the recognized set")
	case errors.Is(err, service.ErrAmountNotPositive):
		response.BadRequest(c, 12003, "amount must be greater than zero")
	case errors.Is(err, service.ErrSchoolNotFound):
		response.BadRequest(c, 12005, "one of the referenced schools does not exist")
	default:
		response.InternalError(c)
	}
}

func (h *TransferHandler) handleImportError(c *gin.Context, err error) {
	var missing *service.MissingColumnsError
	if errors.As(err, &missing) {
		response.ErrorWithDetails(c, http.StatusBadRequest, 12006,
			"spreadsheet is missing required columns", strings.Join(missing.Columns, ", "))
		return
	}
	switch {
	case errors.Is(err, service.ErrImportUnreadable):
		response.BadRequest(c, 12007, "uploaded file could not be read as a spreadsheet")
	case errors.Is(err, service.ErrImportEmpty):
		response.BadRequest(c, 12008, "spreadsheet has no data rows")
	case errors.Is(err, service.ErrImportTooLarge):
		response.BadRequest(c, 12009, "spreadsheet exceeds the row limit")
	default:
		response.InternalError(c)
	}
}
