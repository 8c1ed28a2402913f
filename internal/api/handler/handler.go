package handler

import (
	"github.com/AlineIradukunda/dusangire-backend/config"
	"github.com/AlineIradukunda/dusangire-backend/internal/service"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth         *AuthHandler
	School       *SchoolHandler
	Transfer     *TransferHandler
	Distribution *DistributionHandler
	Report       *ReportHandler
}

// NewHandler wires the handlers to their services.
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		School:       NewSchoolHandler(svc.School),
		Transfer:     NewTransferHandler(cfg, svc.Transfer),
		Distribution: NewDistributionHandler(svc.Distribution),
		Report:       NewReportHandler(svc.Report),
	}
}
