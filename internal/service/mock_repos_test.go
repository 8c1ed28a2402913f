package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AlineIradukunda/dusangire-backend/internal/lifecycle"
	"github.com/AlineIradukunda/dusangire-backend/internal/model"
	"github.com/AlineIradukunda/dusangire-backend/internal/repository"
	pkgerrors "github.com/AlineIradukunda/dusangire-backend/pkg/errors"
)

// Map-backed repository fakes. TransitionStatus keeps the conditional
// semantics of the real implementation: it only applies when the stored
// status still matches from.

type mockSchoolRepo struct {
	schools map[string]*model.School
	nextID  int
}

func newMockSchoolRepo() *mockSchoolRepo {
	return &mockSchoolRepo{schools: make(map[string]*model.School)}
}

func (m *mockSchoolRepo) Create(_ context.Context, school *model.School) error {
	if school.SchoolID == "" {
		m.nextID++
		school.SchoolID = fmt.Sprintf("school-%d", m.nextID)
	}
	school.CreatedAt = time.Now()
	cp := *school
	m.schools[school.SchoolID] = &cp
	return nil
}

func (m *mockSchoolRepo) GetByID(_ context.Context, id string) (*model.School, error) {
	school, ok := m.schools[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *school
	return &cp, nil
}

func (m *mockSchoolRepo) GetByNameInsensitive(_ context.Context, name string) (*model.School, error) {
	for _, school := range m.schools {
		if strings.EqualFold(school.Name, name) {
			cp := *school
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolRepo) List(_ context.Context) ([]model.School, error) {
	var out []model.School
	for _, school := range m.schools {
		if school.DeleteStatus != lifecycle.StatusDeleted {
			out = append(out, *school)
		}
	}
	return out, nil
}

func (m *mockSchoolRepo) ListDeleted(_ context.Context) ([]model.School, error) {
	var out []model.School
	for _, school := range m.schools {
		if school.DeleteStatus == lifecycle.StatusDeleted {
			out = append(out, *school)
		}
	}
	return out, nil
}

func (m *mockSchoolRepo) Update(_ context.Context, school *model.School) error {
	if _, ok := m.schools[school.SchoolID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *school
	m.schools[school.SchoolID] = &cp
	return nil
}

func (m *mockSchoolRepo) TransitionStatus(_ context.Context, id string, from, to lifecycle.Status, reason *string) error {
	school, ok := m.schools[id]
	if !ok || school.DeleteStatus != from {
		return pkgerrors.ErrStatusConflict
	}
	school.DeleteStatus = to
	school.DeleteReason = reason
	return nil
}

func (m *mockSchoolRepo) TotalReceived(_ context.Context, id string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type mockTransferRepo struct {
	transfers map[string]*model.TransferReceived
	nextID    int
}

func newMockTransferRepo() *mockTransferRepo {
	return &mockTransferRepo{transfers: make(map[string]*model.TransferReceived)}
}

func (m *mockTransferRepo) Create(_ context.Context, transfer *model.TransferReceived) error {
	if transfer.TransferID == "" {
		m.nextID++
		transfer.TransferID = fmt.Sprintf("transfer-%d", m.nextID)
	}
	transfer.Timestamp = time.Now()
	cp := *transfer
	m.transfers[transfer.TransferID] = &cp
	return nil
}

func (m *mockTransferRepo) GetByID(_ context.Context, id string) (*model.TransferReceived, error) {
	transfer, ok := m.transfers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *transfer
	return &cp, nil
}

func (m *mockTransferRepo) List(_ context.Context) ([]model.TransferReceived, error) {
	var out []model.TransferReceived
	for _, t := range m.transfers {
		if t.DeleteStatus != lifecycle.StatusDeleted {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTransferRepo) ListDeleted(_ context.Context) ([]model.TransferReceived, error) {
	var out []model.TransferReceived
	for _, t := range m.transfers {
		if t.DeleteStatus == lifecycle.StatusDeleted {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTransferRepo) ListActive(_ context.Context, filters *repository.TransferFilters) ([]model.TransferReceived, error) {
	var out []model.TransferReceived
	for _, t := range m.transfers {
		if t.DeleteStatus != lifecycle.StatusActive {
			continue
		}
		if filters != nil {
			if filters.Start != nil && t.Timestamp.Before(*filters.Start) {
				continue
			}
			if filters.End != nil && t.Timestamp.After(*filters.End) {
				continue
			}
		}
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTransferRepo) Update(_ context.Context, transfer *model.TransferReceived) error {
	if _, ok := m.transfers[transfer.TransferID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *transfer
	m.transfers[transfer.TransferID] = &cp
	return nil
}

func (m *mockTransferRepo) ReplaceSchools(_ context.Context, transfer *model.TransferReceived, schools []model.School) error {
	stored, ok := m.transfers[transfer.TransferID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Schools = schools
	transfer.Schools = schools
	return nil
}

func (m *mockTransferRepo) TransitionStatus(_ context.Context, id string, from, to lifecycle.Status, reason *string) error {
	transfer, ok := m.transfers[id]
	if !ok || transfer.DeleteStatus != from {
		return pkgerrors.ErrStatusConflict
	}
	transfer.DeleteStatus = to
	transfer.DeleteReason = reason
	return nil
}

func (m *mockTransferRepo) SumActiveAmounts(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range m.transfers {
		if t.DeleteStatus == lifecycle.StatusActive {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

type mockDistributionRepo struct {
	dists  map[string]*model.Distribution
	nextID int
}

func newMockDistributionRepo() *mockDistributionRepo {
	return &mockDistributionRepo{dists: make(map[string]*model.Distribution)}
}

func (m *mockDistributionRepo) Create(_ context.Context, dist *model.Distribution) error {
	if dist.DistributionID == "" {
		m.nextID++
		dist.DistributionID = fmt.Sprintf("dist-%d", m.nextID)
	}
	dist.DistributedOn = time.Now()
	cp := *dist
	m.dists[dist.DistributionID] = &cp
	return nil
}

func (m *mockDistributionRepo) GetByID(_ context.Context, id string) (*model.Distribution, error) {
	dist, ok := m.dists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *dist
	return &cp, nil
}

func (m *mockDistributionRepo) List(_ context.Context) ([]model.Distribution, error) {
	var out []model.Distribution
	for _, d := range m.dists {
		if d.DeleteStatus != lifecycle.StatusDeleted {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDistributionRepo) ListDeleted(_ context.Context) ([]model.Distribution, error) {
	var out []model.Distribution
	for _, d := range m.dists {
		if d.DeleteStatus == lifecycle.StatusDeleted {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDistributionRepo) ListActive(_ context.Context, filters *repository.DistributionFilters) ([]model.Distribution, error) {
	var out []model.Distribution
	for _, d := range m.dists {
		if d.DeleteStatus != lifecycle.StatusActive {
			continue
		}
		if filters != nil && filters.SchoolID != "" && d.SchoolID != filters.SchoolID {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDistributionRepo) TransitionStatus(_ context.Context, id string, from, to lifecycle.Status, reason *string) error {
	dist, ok := m.dists[id]
	if !ok || dist.DeleteStatus != from {
		return pkgerrors.ErrStatusConflict
	}
	dist.DeleteStatus = to
	dist.DeleteReason = reason
	return nil
}

func (m *mockDistributionRepo) SumActiveAmounts(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, d := range m.dists {
		if d.DeleteStatus == lifecycle.StatusActive {
			total = total.Add(d.Amount)
		}
	}
	return total, nil
}

func (m *mockDistributionRepo) SummarizeBySchool(_ context.Context) ([]repository.SchoolSummary, error) {
	bySchool := make(map[string]*repository.SchoolSummary)
	for _, d := range m.dists {
		if d.DeleteStatus != lifecycle.StatusActive {
			continue
		}
		row, ok := bySchool[d.SchoolID]
		if !ok {
			row = &repository.SchoolSummary{SchoolID: d.SchoolID}
			bySchool[d.SchoolID] = row
		}
		row.TotalDistributed = row.TotalDistributed.Add(d.Amount)
		row.Distributions++
	}
	var out []repository.SchoolSummary
	for _, row := range bySchool {
		out = append(out, *row)
	}
	return out, nil
}

type mockReportRepo struct {
	reports []model.Report
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{}
}

func (m *mockReportRepo) Create(_ context.Context, report *model.Report) error {
	if report.ReportID == "" {
		report.ReportID = fmt.Sprintf("report-%d", len(m.reports)+1)
	}
	report.GeneratedOn = time.Now()
	m.reports = append(m.reports, *report)
	return nil
}

func (m *mockReportRepo) List(_ context.Context) ([]model.Report, error) {
	out := make([]model.Report, len(m.reports))
	copy(out, m.reports)
	return out, nil
}

type mockUserRepo struct {
	users map[string]*model.AdminUser
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.AdminUser)}
}

func (m *mockUserRepo) add(user *model.AdminUser) {
	m.users[user.UserID] = user
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.AdminUser, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.AdminUser, error) {
	for _, user := range m.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.AdminUser, error) {
	var out []model.AdminUser
	for _, user := range m.users {
		out = append(out, *user)
	}
	return out, nil
}

// newMockRepository assembles a Repository backed entirely by the fakes.
func newMockRepository() (*repository.Repository, *mockSchoolRepo, *mockTransferRepo, *mockDistributionRepo, *mockReportRepo, *mockUserRepo) {
	schools := newMockSchoolRepo()
	transfers := newMockTransferRepo()
	dists := newMockDistributionRepo()
	reports := newMockReportRepo()
	users := newMockUserRepo()

	repo := &repository.Repository{
		School:       schools,
		Transfer:     transfers,
		Distribution: dists,
		Report:       reports,
		User:         users,
	}
	return repo, schools, transfers, dists, reports, users
}
