package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/lifecycle"
	"github.com/AlineIradukunda/dusangire-backend/internal/model"
)

var (
	ErrImportUnreadable = errors.New("uploaded file could not be read as a spreadsheet")
	ErrImportEmpty      = errors.New("spreadsheet has no data rows")
	ErrImportTooLarge   = errors.New("spreadsheet exceeds the row limit")
)

// MissingColumnsError aborts an import whose header row lacks required
// logical columns. The whole file is rejected before any row is processed.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Logical column names, matched against the header row case-insensitively
// after trimming.
const (
	colDonor         = "donor"
	colAmount        = "amount"
	colSchoolName    = "school name"
	colSchoolCode    = "school code"
	colAccountNumber = "account number"
	colTransactions  = "number of transactions"
)

var requiredColumns = []string{
	colDonor, colAmount, colSchoolName, colSchoolCode, colAccountNumber, colTransactions,
}

// District/sector placeholder for schools auto-created during import.
const importPlaceholder = "Unknown"

// ImportSpreadsheet reads an .xlsx stream and creates one transfer per valid
// data row. Header validation is fail-fast; row validation is not — a bad row
// becomes a warning and the rest of the file still imports.
func (s *transferService) ImportSpreadsheet(ctx context.Context, r io.Reader) (*dto.ImportResponse, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrImportUnreadable
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrImportEmpty
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, ErrImportUnreadable
	}
	if len(rows) < 2 {
		return nil, ErrImportEmpty
	}
	if max := s.cfg.Import.MaxRows; max > 0 && len(rows)-1 > max {
		return nil, ErrImportTooLarge
	}

	// ── header validation, fail-fast ──
	colIndex := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		colIndex[normalizeHeader(h)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	// ── per-row processing, partial-success ──
	resp := &dto.ImportResponse{Warnings: []dto.ImportWarning{}}

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, counting the header

		if isBlankRow(row) {
			continue
		}

		if err := s.importRow(ctx, row, colIndex); err != nil {
			resp.Warnings = append(resp.Warnings, dto.ImportWarning{Row: rowNum, Reason: err.Error()})
			continue
		}
		resp.Created++
	}

	s.logger.Info("spreadsheet import finished",
		zap.Int("created", resp.Created),
		zap.Int("skipped", len(resp.Warnings)),
	)

	return resp, nil
}

func (s *transferService) importRow(ctx context.Context, row []string, colIndex map[string]int) error {
	donorRaw := cellAt(row, colIndex[colDonor])
	donor, ok := model.CanonicalDonor(donorRaw)
	if !ok {
		return fmt.Errorf("unrecognized donor %q", donorRaw)
	}

	amount, err := cleanDecimal(cellAt(row, colIndex[colAmount]))
	if err != nil {
		return fmt.Errorf("invalid amount %q", cellAt(row, colIndex[colAmount]))
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount %s is not positive", amount)
	}

	transactions, err := cleanInt(cellAt(row, colIndex[colTransactions]))
	if err != nil {
		return fmt.Errorf("invalid transaction count %q", cellAt(row, colIndex[colTransactions]))
	}

	schoolName := strings.TrimSpace(cellAt(row, colIndex[colSchoolName]))
	if schoolName == "" {
		return errors.New("school name is empty")
	}

	school, err := s.resolveImportSchool(ctx, schoolName, cellAt(row, colIndex[colAccountNumber]))
	if err != nil {
		return err
	}

	transfer := &model.TransferReceived{
		SchoolCode:           strings.TrimSpace(cellAt(row, colIndex[colSchoolCode])),
		Donor:                donor,
		Amount:               amount,
		ContributionType:     model.ContributionGeneral,
		NumberOfTransactions: transactions,
		SoftDelete:           model.SoftDelete{DeleteStatus: lifecycle.StatusActive},
		Schools:              []model.School{*school},
	}

	if err := s.repo.Transfer.Create(ctx, transfer); err != nil {
		s.logger.Error("import row create failed", zap.Error(err))
		return errors.New("could not store the record")
	}
	return nil
}

// resolveImportSchool finds a school by case-insensitive name or creates it
// with placeholder district/sector.
func (s *transferService) resolveImportSchool(ctx context.Context, name, accountNumber string) (*model.School, error) {
	school, err := s.repo.School.GetByNameInsensitive(ctx, name)
	if err == nil {
		return school, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup school failed during import", zap.Error(err))
		return nil, errors.New("school lookup failed")
	}

	school = &model.School{
		Name:          name,
		District:      importPlaceholder,
		Sector:        importPlaceholder,
		AccountNumber: strings.TrimSpace(accountNumber),
		SoftDelete:    model.SoftDelete{DeleteStatus: lifecycle.StatusActive},
	}
	if err := s.repo.School.Create(ctx, school); err != nil {
		s.logger.Error("auto-create school failed during import", zap.Error(err))
		return nil, fmt.Errorf("could not create school %q", name)
	}
	return school, nil
}

// ── cell cleanup ──

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cleanDecimal strips thousands separators and whitespace before parsing,
// so "1,234.00" resolves to 1234.
func cleanDecimal(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Zero, errors.New("empty value")
	}
	return decimal.NewFromString(cleaned)
}

func cleanInt(raw string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, nil // optional count defaults to zero
	}
	// spreadsheets sometimes store counts as "12.0"
	if d, err := decimal.NewFromString(cleaned); err == nil && d.IsInteger() {
		return int(d.IntPart()), nil
	}
	return strconv.Atoi(cleaned)
}
