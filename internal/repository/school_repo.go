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

// SchoolRepository is the school data-access interface.
type SchoolRepository interface {
	Create(ctx context.Context, school *model.School) error
	GetByID(ctx context.Context, id string) (*model.School, error)
	GetByNameInsensitive(ctx context.Context, name string) (*model.School, error)
	List(ctx context.Context) ([]model.School, error)
	ListDeleted(ctx context.Context) ([]model.School, error)
	Update(ctx context.Context, school *model.School) error
	// TransitionStatus applies a lifecycle transition conditionally: the
	// UPDATE only matches when delete_status still equals from, so a
	// concurrent transition loses cleanly instead of overwriting.
	TransitionStatus(ctx context.Context, id string, from, to lifecycle.Status, reason *string) error
	// TotalReceived sums the school's active distributions.
	TotalReceived(ctx context.Context, id string) (decimal.Decimal, error)
}

type schoolRepo struct {
	db *gorm.DB
}

// NewSchoolRepo creates the GORM-backed SchoolRepository.
func NewSchoolRepo(db *gorm.DB) SchoolRepository {
	return &schoolRepo{db: db}
}

func (r *schoolRepo) Create(ctx context.Context, school *model.School) error {
	return r.db.WithContext(ctx).Create(school).Error
}

func (r *schoolRepo) GetByID(ctx context.Context, id string) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).
		Where("school_id = ?", id).
		First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepo) GetByNameInsensitive(ctx context.Context, name string) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepo) List(ctx context.Context) ([]model.School, error) {
	var schools []model.School
	err := r.db.WithContext(ctx).
		Where("delete_status IN ?", []lifecycle.Status{lifecycle.StatusActive, lifecycle.StatusPending}).
		Order("name ASC").
		Find(&schools).Error
	return schools, err
}

func (r *schoolRepo) ListDeleted(ctx context.Context) ([]model.School, error) {
	var schools []model.School
	err := r.db.WithContext(ctx).
		Where("delete_status = ?", lifecycle.StatusDeleted).
		Order("name ASC").
		Find(&schools).Error
	return schools, err
}

func (r *schoolRepo) Update(ctx context.Context, school *model.School) error {
	return r.db.WithContext(ctx).Save(school).Error
}

func (r *schoolRepo) TransitionStatus(ctx context.Context, id string, from, to lifecycle.Status, reason *string) error {
	res := r.db.WithContext(ctx).
		Model(&model.School{}).
		Where("school_id = ? AND delete_status = ?", id, from).
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

func (r *schoolRepo) TotalReceived(ctx context.Context, id string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.Distribution{}).
		Select("SUM(amount)").
		Where("school_id = ? AND delete_status = ?", id, lifecycle.StatusActive).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
