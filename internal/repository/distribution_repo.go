package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AlineIradukunda/dusangire-backend/internal/lifecycle"
	"github.com/AlineIradukunda/dusangire-backend/internal/model"
	pkgerrors "github.com/AlineIradukunda/dusangire-backend/pkg/errors"
)

// DistributionFilters narrows distribution queries for report export.
type DistributionFilters struct {
	Start    *time.Time // inclusive
	End      *time.Time // inclusive
	SchoolID string
}

// SchoolSummary is one aggregate row of the per-school transaction summary.
type SchoolSummary struct {
	SchoolID         string
	SchoolName       string
	TotalDistributed decimal.Decimal
	Distributions    int64
}

// DistributionRepository is the disbursement data-access interface.
type DistributionRepository interface {
	Create(ctx context.Context, dist *model.Distribution) error
	GetByID(ctx context.Context, id string) (*model.Distribution, error)
	List(ctx context.Context) ([]model.Distribution, error)
	ListDeleted(ctx context.Context) ([]model.Distribution, error)
	ListActive(ctx context.Context, filters *DistributionFilters) ([]model.Distribution, error)
	TransitionStatus(ctx context.Context, id string, from, to lifecycle.Status, reason *string) error
	SumActiveAmounts(ctx context.Context) (decimal.Decimal, error)
	// SummarizeBySchool aggregates active distributions per non-deleted school.
	SummarizeBySchool(ctx context.Context) ([]SchoolSummary, error)
}

type distributionRepo struct {
	db *gorm.DB
}

// NewDistributionRepo creates the GORM-backed DistributionRepository.
func NewDistributionRepo(db *gorm.DB) DistributionRepository {
	return &distributionRepo{db: db}
}

func (r *distributionRepo) Create(ctx context.Context, dist *model.Distribution) error {
	return r.db.WithContext(ctx).Create(dist).Error
}

func (r *distributionRepo) GetByID(ctx context.Context, id string) (*model.Distribution, error) {
	var dist model.Distribution
	err := r.db.WithContext(ctx).
		Preload("School").
		Where("distribution_id = ?", id).
		First(&dist).Error
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

func (r *distributionRepo) List(ctx context.Context) ([]model.Distribution, error) {
	var dists []model.Distribution
	err := r.db.WithContext(ctx).
		Preload("School").
		Where("delete_status IN ?", []lifecycle.Status{lifecycle.StatusActive, lifecycle.StatusPending}).
		Order("distributed_on DESC").
		Find(&dists).Error
	return dists, err
}

func (r *distributionRepo) ListDeleted(ctx context.Context) ([]model.Distribution, error) {
	var dists []model.Distribution
	err := r.db.WithContext(ctx).
		Preload("School").
		Where("delete_status = ?", lifecycle.StatusDeleted).
		Order("distributed_on DESC").
		Find(&dists).Error
	return dists, err
}

func (r *distributionRepo) ListActive(ctx context.Context, filters *DistributionFilters) ([]model.Distribution, error) {
	q := r.db.WithContext(ctx).
		Preload("School").
		Where("delete_status = ?", lifecycle.StatusActive)

	if filters != nil {
		if filters.Start != nil {
			q = q.Where("distributed_on >= ?", *filters.Start)
		}
		if filters.End != nil {
			q = q.Where("distributed_on <= ?", *filters.End)
		}
		if filters.SchoolID != "" {
			q = q.Where("school_id = ?", filters.SchoolID)
		}
	}

	var dists []model.Distribution
	err := q.Order("distributed_on ASC").Find(&dists).Error
	return dists, err
}

func (r *distributionRepo) TransitionStatus(ctx context.Context, id string, from, to lifecycle.Status, reason *string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Distribution{}).
		Where("distribution_id = ? AND delete_status = ?", id, from).
		Updates(map[string]interface{}{
			"delete_status": to,
			"delete_reason": reason,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrStatusConflict
	}
	return nil
}

func (r *distributionRepo) SumActiveAmounts(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.Distribution{}).
		Select("SUM(amount)").
		Where("delete_status = ?", lifecycle.StatusActive).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *distributionRepo) SummarizeBySchool(ctx context.Context) ([]SchoolSummary, error) {
	var rows []SchoolSummary
	err := r.db.WithContext(ctx).
		Model(&model.School{}).
		Select(`schools.school_id AS school_id,
			schools.name AS school_name,
			COALESCE(SUM(d.amount), 0) AS total_distributed,
			COUNT(d.distribution_id) AS distributions`).
		Joins(`LEFT JOIN distributions d
			ON d.school_id = schools.school_id AND d.delete_status = ?`, lifecycle.StatusActive).
		Where("schools.delete_status IN ?", []lifecycle.Status{lifecycle.StatusActive, lifecycle.StatusPending}).
		Group("schools.school_id, schools.name").
		Order("schools.name ASC").
		Scan(&rows).Error
	return rows, err
}
