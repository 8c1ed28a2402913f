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

// TransferFilters narrows transfer queries for report export.
type TransferFilters struct {
	Start    *time.Time // inclusive
	End      *time.Time // inclusive
	SchoolID string
}

// TransferRepository is the donation data-access interface.
type TransferRepository interface {
	Create(ctx context.Context, transfer *model.TransferReceived) error
	GetByID(ctx context.Context, id string) (*model.TransferReceived, error)
	List(ctx context.Context) ([]model.TransferReceived, error)
	ListDeleted(ctx context.Context) ([]model.TransferReceived, error)
	// ListActive returns active transfers matching the filters, for export.
	ListActive(ctx context.Context, filters *TransferFilters) ([]model.TransferReceived, error)
	Update(ctx context.Context, transfer *model.TransferReceived) error
	ReplaceSchools(ctx context.Context, transfer *model.TransferReceived, schools []model.School) error
	TransitionStatus(ctx context.Context, id string, from, to lifecycle.Status, reason *string) error
	// SumActiveAmounts totals all active donations.
	SumActiveAmounts(ctx context.Context) (decimal.Decimal, error)
}

type transferRepo struct {
	db *gorm.DB
}

// NewTransferRepo creates the GORM-backed TransferRepository.
func NewTransferRepo(db *gorm.DB) TransferRepository {
	return &transferRepo{db: db}
}

func (r *transferRepo) Create(ctx context.Context, transfer *model.TransferReceived) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

func (r *transferRepo) GetByID(ctx context.Context, id string) (*model.TransferReceived, error) {
	var transfer model.TransferReceived
	err := r.db.WithContext(ctx).
		Preload("Schools").
		Where("transfer_id = ?", id).
		First(&transfer).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *transferRepo) List(ctx context.Context) ([]model.TransferReceived, error) {
	var transfers []model.TransferReceived
	err := r.db.WithContext(ctx).
		Preload("Schools").
		Where("delete_status IN ?", []lifecycle.Status{lifecycle.StatusActive, lifecycle.StatusPending}).
		Order("timestamp DESC").
		Find(&transfers).Error
	return transfers, err
}

func (r *transferRepo) ListDeleted(ctx context.Context) ([]model.TransferReceived, error) {
	var transfers []model.TransferReceived
	err := r.db.WithContext(ctx).
		Where("delete_status = ?", lifecycle.StatusDeleted).
		Order("timestamp DESC").
		Find(&transfers).Error
	return transfers, err
}

func (r *transferRepo) ListActive(ctx context.Context, filters *TransferFilters) ([]model.TransferReceived, error) {
	q := r.db.WithContext(ctx).
		Preload("Schools").
		Where("delete_status = ?", lifecycle.StatusActive)

	if filters != nil {
		if filters.Start != nil {
			q = q.Where("timestamp >= ?", *filters.Start)
		}
		if filters.End != nil {
			q = q.Where("timestamp <= ?", *filters.End)
		}
		if filters.SchoolID != "" {
			q = q.Joins("JOIN transfer_schools ts ON ts.transfer_id = transfers_received.transfer_id").
				Where("ts.school_id = ?", filters.SchoolID)
		}
	}

	var transfers []model.TransferReceived
	err := q.Order("timestamp ASC").Find(&transfers).Error
	return transfers, err
}

func (r *transferRepo) Update(ctx context.Context, transfer *model.TransferReceived) error {
	return r.db.WithContext(ctx).Save(transfer).Error
}

func (r *transferRepo) ReplaceSchools(ctx context.Context, transfer *model.TransferReceived, schools []model.School) error {
	return r.db.WithContext(ctx).Model(transfer).Association("Schools").Replace(schools)
}

func (r *transferRepo) TransitionStatus(ctx context.Context, id string, from, to lifecycle.Status, reason *string) error {
	res := r.db.WithContext(ctx).
		Model(&model.TransferReceived{}).
		Where("transfer_id = ? AND delete_status = ?", id, from).
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

func (r *transferRepo) SumActiveAmounts(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.TransferReceived{}).
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
