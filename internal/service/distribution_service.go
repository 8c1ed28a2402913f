package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/lifecycle"
	"github.com/AlineIradukunda/dusangire-backend/internal/model"
	"github.com/AlineIradukunda/dusangire-backend/internal/repository"
)

var (
	ErrDistributionNotFound   = errors.New("distribution not found")
	ErrSchoolNotDistributable = errors.New("cannot distribute to a school that is not active")
)

// DistributionService manages disbursements to schools and their delete
// lifecycle, and produces the per-school transaction summary.
type DistributionService interface {
	Create(ctx context.Context, req *dto.CreateDistributionRequest) (*dto.DistributionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DistributionResponse, error)
	List(ctx context.Context) ([]dto.DistributionResponse, error)
	ListDeleted(ctx context.Context) ([]dto.DistributionResponse, error)
	RequestDelete(ctx context.Context, id, reason string) error
	Recover(ctx context.Context, id string) error
	ConfirmDelete(ctx context.Context, id string) error
	Summarize(ctx context.Context) ([]dto.SchoolSummaryResponse, error)
}

type distributionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDistributionService creates the DistributionService.
func NewDistributionService(repo *repository.Repository, logger *zap.Logger) DistributionService {
	return &distributionService{repo: repo, logger: logger}
}

func (s *distributionService) Create(ctx context.Context, req *dto.CreateDistributionRequest) (*dto.DistributionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	school, err := s.repo.School.GetByID(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		s.logger.Error("lookup school failed", zap.Error(err))
		return nil, err
	}
	if school.DeleteStatus != lifecycle.StatusActive {
		return nil, ErrSchoolNotDistributable
	}

	dist := &model.Distribution{
		SchoolID:   req.SchoolID,
		Amount:     req.Amount,
		SoftDelete: model.SoftDelete{DeleteStatus: lifecycle.StatusActive},
	}

	if err := s.repo.Distribution.Create(ctx, dist); err != nil {
		s.logger.Error("create distribution failed", zap.Error(err))
		return nil, err
	}
	dist.School = school

	resp := toDistributionResponse(dist)
	return &resp, nil
}

func (s *distributionService) GetByID(ctx context.Context, id string) (*dto.DistributionResponse, error) {
	dist, err := s.getDistribution(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toDistributionResponse(dist)
	return &resp, nil
}

func (s *distributionService) List(ctx context.Context) ([]dto.DistributionResponse, error) {
	dists, err := s.repo.Distribution.List(ctx)
	if err != nil {
		s.logger.Error("list distributions failed", zap.Error(err))
		return nil, err
	}
	return toDistributionResponses(dists), nil
}

func (s *distributionService) ListDeleted(ctx context.Context) ([]dto.DistributionResponse, error) {
	dists, err := s.repo.Distribution.ListDeleted(ctx)
	if err != nil {
		s.logger.Error("list deleted distributions failed", zap.Error(err))
		return nil, err
	}
	return toDistributionResponses(dists), nil
}

// ── lifecycle ──

func (s *distributionService) RequestDelete(ctx context.Context, id, reason string) error {
	return s.transition(ctx, id, lifecycle.EventRequestDelete, reason)
}

func (s *distributionService) Recover(ctx context.Context, id string) error {
	return s.transition(ctx, id, lifecycle.EventRecover, "")
}

func (s *distributionService) ConfirmDelete(ctx context.Context, id string) error {
	return s.transition(ctx, id, lifecycle.EventConfirmDelete, "")
}

func (s *distributionService) transition(ctx context.Context, id string, ev lifecycle.Event, reason string) error {
	dist, err := s.getDistribution(ctx, id)
	if err != nil {
		return err
	}

	to, storedReason, err := resolveTransition(dist.SoftDelete, ev, reason)
	if err != nil {
		return err
	}

	if err := s.repo.Distribution.TransitionStatus(ctx, id, dist.DeleteStatus, to, storedReason); err != nil {
		s.logger.Warn("distribution status transition failed",
			zap.String("id", id),
			zap.String("event", string(ev)),
			zap.Error(err))
		return err
	}
	return nil
}

// ── summary ──

func (s *distributionService) Summarize(ctx context.Context) ([]dto.SchoolSummaryResponse, error) {
	rows, err := s.repo.Distribution.SummarizeBySchool(ctx)
	if err != nil {
		s.logger.Error("summarize distributions failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SchoolSummaryResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.SchoolSummaryResponse{
			SchoolID:         r.SchoolID,
			SchoolName:       r.SchoolName,
			TotalDistributed: r.TotalDistributed,
			Distributions:    r.Distributions,
		})
	}
	return result, nil
}

// ── helpers ──

func (s *distributionService) getDistribution(ctx context.Context, id string) (*model.Distribution, error) {
	dist, err := s.repo.Distribution.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDistributionNotFound
		}
		s.logger.Error("lookup distribution failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return dist, nil
}

func toDistributionResponse(d *model.Distribution) dto.DistributionResponse {
	resp := dto.DistributionResponse{
		ID:            d.DistributionID,
		SchoolID:      d.SchoolID,
		Amount:        d.Amount,
		DeleteStatus:  string(d.DeleteStatus),
		DistributedOn: d.DistributedOn.UTC().Format(time.RFC3339),
	}
	if d.School != nil {
		resp.SchoolName = d.School.Name
	}
	if d.DeleteReason != nil {
		resp.DeleteReason = *d.DeleteReason
	}
	return resp
}

func toDistributionResponses(dists []model.Distribution) []dto.DistributionResponse {
	result := make([]dto.DistributionResponse, 0, len(dists))
	for i := range dists {
		result = append(result, toDistributionResponse(&dists[i]))
	}
	return result
}
