package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AlineIradukunda/dusangire-backend/internal/model"
)

// ReportRepository is the report-snapshot data-access interface.
// Reports have no lifecycle; they are write-once.
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	List(ctx context.Context) ([]model.Report, error)
}

type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo creates the GORM-backed ReportRepository.
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepo) List(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Order("generated_on DESC").
		Find(&reports).Error
	return reports, err
}
