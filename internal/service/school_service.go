package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/lifecycle"
	"github.com/AlineIradukunda/dusangire-backend/internal/model"
	"github.com/AlineIradukunda/dusangire-backend/internal/repository"
)

var (
	ErrSchoolNotFound   = errors.New("school not found")
	ErrSchoolNameExists = errors.New("a school with this name already exists")
)

// SchoolService manages school records and drives their delete lifecycle.
type SchoolService interface {
	Create(ctx context.Context, req *dto.CreateSchoolRequest) (*dto.SchoolResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SchoolResponse, error)
	List(ctx context.Context) ([]dto.SchoolResponse, error)
	ListDeleted(ctx context.Context) ([]dto.SchoolResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSchoolRequest) (*dto.SchoolResponse, error)
	RequestDelete(ctx context.Context, id, reason string) error
	Recover(ctx context.Context, id string) error
	ConfirmDelete(ctx context.Context, id string) error
}

type schoolService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSchoolService creates the SchoolService.
func NewSchoolService(repo *repository.Repository, logger *zap.Logger) SchoolService {
	return &schoolService{repo: repo, logger: logger}
}

func (s *schoolService) Create(ctx context.Context, req *dto.CreateSchoolRequest) (*dto.SchoolResponse, error) {
	existing, err := s.repo.School.GetByNameInsensitive(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup school failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrSchoolNameExists
	}

	school := &model.School{
		Name:          req.Name,
		District:      req.District,
		Sector:        req.Sector,
		AccountNumber: req.AccountNumber,
		SoftDelete:    model.SoftDelete{DeleteStatus: lifecycle.StatusActive},
	}

	if err := s.repo.School.Create(ctx, school); err != nil {
		s.logger.Error("create school failed", zap.Error(err))
		return nil, err
	}

	resp := s.toSchoolResponse(ctx, school)
	return &resp, nil
}

func (s *schoolService) GetByID(ctx context.Context, id string) (*dto.SchoolResponse, error) {
	school, err := s.getSchool(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toSchoolResponse(ctx, school)
	return &resp, nil
}

func (s *schoolService) List(ctx context.Context) ([]dto.SchoolResponse, error) {
	schools, err := s.repo.School.List(ctx)
	if err != nil {
		s.logger.Error("list schools failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SchoolResponse, 0, len(schools))
	for i := range schools {
		result = append(result, s.toSchoolResponse(ctx, &schools[i]))
	}
	return result, nil
}

func (s *schoolService) ListDeleted(ctx context.Context) ([]dto.SchoolResponse, error) {
	schools, err := s.repo.School.ListDeleted(ctx)
	if err != nil {
		s.logger.Error("list deleted schools failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SchoolResponse, 0, len(schools))
	for i := range schools {
		result = append(result, s.toSchoolResponse(ctx, &schools[i]))
	}
	return result, nil
}

func (s *schoolService) Update(ctx context.Context, id string, req *dto.UpdateSchoolRequest) (*dto.SchoolResponse, error) {
	school, err := s.getSchool(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != school.Name {
		existing, err := s.repo.School.GetByNameInsensitive(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrSchoolNameExists
		}
		school.Name = *req.Name
	}
	if req.District != nil {
		school.District = *req.District
	}
	if req.Sector != nil {
		school.Sector = *req.Sector
	}
	if req.AccountNumber != nil {
		school.AccountNumber = *req.AccountNumber
	}

	if err := s.repo.School.Update(ctx, school); err != nil {
		s.logger.Error("update school failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := s.toSchoolResponse(ctx, school)
	return &resp, nil
}

// ── lifecycle ──

func (s *schoolService) RequestDelete(ctx context.Context, id, reason string) error {
	return s.transition(ctx, id, lifecycle.EventRequestDelete, reason)
}

func (s *schoolService) Recover(ctx context.Context, id string) error {
	return s.transition(ctx, id, lifecycle.EventRecover, "")
}

func (s *schoolService) ConfirmDelete(ctx context.Context, id string) error {
	return s.transition(ctx, id, lifecycle.EventConfirmDelete, "")
}

func (s *schoolService) transition(ctx context.Context, id string, ev lifecycle.Event, reason string) error {
	school, err := s.getSchool(ctx, id)
	if err != nil {
		return err
	}

	to, storedReason, err := resolveTransition(school.SoftDelete, ev, reason)
	if err != nil {
		return err
	}

	if err := s.repo.School.TransitionStatus(ctx, id, school.DeleteStatus, to, storedReason); err != nil {
		s.logger.Warn("school status transition failed",
			zap.String("id", id),
			zap.String("event", string(ev)),
			zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *schoolService) getSchool(ctx context.Context, id string) (*model.School, error) {
	school, err := s.repo.School.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		s.logger.Error("lookup school failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return school, nil
}

func (s *schoolService) toSchoolResponse(ctx context.Context, school *model.School) dto.SchoolResponse {
	// Derived live on every read; a stored figure would go stale the moment a
	// distribution is added or recovered.
	total, err := s.repo.School.TotalReceived(ctx, school.SchoolID)
	if err != nil {
		s.logger.Warn("compute total_received failed", zap.String("id", school.SchoolID), zap.Error(err))
		total = decimal.Zero
	}

	resp := dto.SchoolResponse{
		ID:            school.SchoolID,
		Name:          school.Name,
		District:      school.District,
		Sector:        school.Sector,
		AccountNumber: school.AccountNumber,
		TotalReceived: total,
		DeleteStatus:  string(school.DeleteStatus),
		CreatedAt:     school.CreatedAt.UTC().Format(time.RFC3339),
	}
	if school.DeleteReason != nil {
		resp.DeleteReason = *school.DeleteReason
	}
	return resp
}
