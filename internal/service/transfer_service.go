package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlineIradukunda/dusangire-backend/config"
	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/lifecycle"
	"github.com/AlineIradukunda/dusangire-backend/internal/model"
	"github.com/AlineIradukunda/dusangire-backend/internal/repository"
)

var (
	ErrTransferNotFound  = errors.New("transfer not found")
	ErrUnknownDonor      = errors.New("donor is not in the recognized set")
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
)

// TransferService manages incoming donations: intake, bulk spreadsheet
// import, and the delete lifecycle.
type TransferService interface {
	Create(ctx context.Context, req *dto.CreateTransferRequest) (*dto.TransferResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TransferResponse, error)
	List(ctx context.Context) ([]dto.TransferResponse, error)
	ListDeleted(ctx context.Context) ([]dto.TransferResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTransferRequest) (*dto.TransferResponse, error)
	RequestDelete(ctx context.Context, id, reason string) error
	Recover(ctx context.Context, id string) error
	ConfirmDelete(ctx context.Context, id string) error
	// ImportSpreadsheet ingests an .xlsx upload of donation rows.
	ImportSpreadsheet(ctx context.Context, r io.Reader) (*dto.ImportResponse, error)
}

type transferService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTransferService creates the TransferService.
func NewTransferService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TransferService {
	return &transferService{cfg: cfg, repo: repo, logger: logger}
}

func (s *transferService) Create(ctx context.Context, req *dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	donor, ok := model.CanonicalDonor(req.Donor)
	if !ok {
		return nil, ErrUnknownDonor
	}
	if !req.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	contributionType := req.ContributionType
	if contributionType == "" {
		contributionType = model.ContributionGeneral
	}

	schools, err := s.resolveSchools(ctx, req.SchoolIDs)
	if err != nil {
		return nil, err
	}

	transfer := &model.TransferReceived{
		SchoolCode:           req.SchoolCode,
		Donor:                donor,
		Amount:               req.Amount,
		ContributionType:     contributionType,
		NumberOfTransactions: req.NumberOfTransactions,
		SoftDelete:           model.SoftDelete{DeleteStatus: lifecycle.StatusActive},
		Schools:              schools,
	}

	if err := s.repo.Transfer.Create(ctx, transfer); err != nil {
		s.logger.Error("create transfer failed", zap.Error(err))
		return nil, err
	}

	resp := toTransferResponse(transfer)
	return &resp, nil
}

func (s *transferService) GetByID(ctx context.Context, id string) (*dto.TransferResponse, error) {
	transfer, err := s.getTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTransferResponse(transfer)
	return &resp, nil
}

func (s *transferService) List(ctx context.Context) ([]dto.TransferResponse, error) {
	transfers, err := s.repo.Transfer.List(ctx)
	if err != nil {
		s.logger.Error("list transfers failed", zap.Error(err))
		return nil, err
	}
	return toTransferResponses(transfers), nil
}

func (s *transferService) ListDeleted(ctx context.Context) ([]dto.TransferResponse, error) {
	transfers, err := s.repo.Transfer.ListDeleted(ctx)
	if err != nil {
		s.logger.Error("list deleted transfers failed", zap.Error(err))
		return nil, err
	}
	return toTransferResponses(transfers), nil
}

func (s *transferService) Update(ctx context.Context, id string, req *dto.UpdateTransferRequest) (*dto.TransferResponse, error) {
	transfer, err := s.getTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Donor != nil {
		donor, ok := model.CanonicalDonor(*req.Donor)
		if !ok {
			return nil, ErrUnknownDonor
		}
		transfer.Donor = donor
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, ErrAmountNotPositive
		}
		transfer.Amount = *req.Amount
	}
	if req.SchoolCode != nil {
		transfer.SchoolCode = *req.SchoolCode
	}
	if req.ContributionType != nil {
		transfer.ContributionType = *req.ContributionType
	}
	if req.NumberOfTransactions != nil {
		transfer.NumberOfTransactions = *req.NumberOfTransactions
	}

	if req.SchoolIDs != nil {
		schools, err := s.resolveSchools(ctx, req.SchoolIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Transfer.ReplaceSchools(ctx, transfer, schools); err != nil {
			s.logger.Error("replace transfer schools failed", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		transfer.Schools = schools
	}

	if err := s.repo.Transfer.Update(ctx, transfer); err != nil {
		s.logger.Error("update transfer failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toTransferResponse(transfer)
	return &resp, nil
}

// ── lifecycle ──

func (s *transferService) RequestDelete(ctx context.Context, id, reason string) error {
	return s.transition(ctx, id, lifecycle.EventRequestDelete, reason)
}

func (s *transferService) Recover(ctx context.Context, id string) error {
	return s.transition(ctx, id, lifecycle.EventRecover, "")
}

func (s *transferService) ConfirmDelete(ctx context.Context, id string) error {
	return s.transition(ctx, id, lifecycle.EventConfirmDelete, "")
}

func (s *transferService) transition(ctx context.Context, id string, ev lifecycle.Event, reason string) error {
	transfer, err := s.getTransfer(ctx, id)
	if err != nil {
		return err
	}

	to, storedReason, err := resolveTransition(transfer.SoftDelete, ev, reason)
	if err != nil {
		return err
	}

	if err := s.repo.Transfer.TransitionStatus(ctx, id, transfer.DeleteStatus, to, storedReason); err != nil {
		s.logger.Warn("transfer status transition failed",
			zap.String("id", id),
			zap.String("event", string(ev)),
			zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *transferService) getTransfer(ctx context.Context, id string) (*model.TransferReceived, error) {
	transfer, err := s.repo.Transfer.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		s.logger.Error("lookup transfer failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return transfer, nil
}

func (s *transferService) resolveSchools(ctx context.Context, ids []string) ([]model.School, error) {
	schools := make([]model.School, 0, len(ids))
	for _, id := range ids {
		school, err := s.repo.School.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSchoolNotFound
			}
			return nil, err
		}
		schools = append(schools, *school)
	}
	return schools, nil
}

func toTransferResponse(t *model.TransferReceived) dto.TransferResponse {
	names := make([]string, 0, len(t.Schools))
	for i := range t.Schools {
		names = append(names, t.Schools[i].Name)
	}

	resp := dto.TransferResponse{
		ID:                   t.TransferID,
		SchoolCode:           t.SchoolCode,
		Donor:                t.Donor,
		Amount:               t.Amount,
		ContributionType:     t.ContributionType,
		NumberOfTransactions: t.NumberOfTransactions,
		SchoolNames:          names,
		DeleteStatus:         string(t.DeleteStatus),
		Timestamp:            t.Timestamp.UTC().Format(time.RFC3339),
	}
	if t.DeleteReason != nil {
		resp.DeleteReason = *t.DeleteReason
	}
	return resp
}

func toTransferResponses(transfers []model.TransferReceived) []dto.TransferResponse {
	result := make([]dto.TransferResponse, 0, len(transfers))
	for i := range transfers {
		result = append(result, toTransferResponse(&transfers[i]))
	}
	return result
}
