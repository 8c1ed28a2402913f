package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/model"
	"github.com/AlineIradukunda/dusangire-backend/internal/repository"
)

var (
	ErrInvalidDateRange = errors.New("start_date and end_date must both be valid YYYY-MM-DD dates")
	ErrColumnsRequired  = errors.New("columns are required when explicit rows are supplied")
	ErrRenderFailed     = errors.New("could not render the export file")
)

// ExportFile is a rendered report ready to stream as a download.
type ExportFile struct {
	Content     *bytes.Buffer
	Filename    string
	ContentType string
}

// ReportService renders entity exports and records report snapshots.
type ReportService interface {
	// Generate renders the requested export and stores a Report row
	// capturing the totals at generation time.
	Generate(ctx context.Context, req *dto.GenerateReportRequest) (*ExportFile, error)
	List(ctx context.Context) ([]dto.ReportResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService creates the ReportService.
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) Generate(ctx context.Context, req *dto.GenerateReportRequest) (*ExportFile, error) {
	header, rows, err := s.buildRows(ctx, req)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s report", strings.ToUpper(req.ReportType[:1])+req.ReportType[1:])

	file, err := s.render(req.Format, title, header, rows)
	if err != nil {
		s.logger.Error("render export failed", zap.String("format", req.Format), zap.Error(err))
		return nil, ErrRenderFailed
	}

	if err := s.recordSnapshot(ctx, title, req.Notes); err != nil {
		// The file is already rendered; losing the snapshot row should not
		// fail the download.
		s.logger.Warn("store report snapshot failed", zap.Error(err))
	}

	return file, nil
}

func (s *reportService) List(ctx context.Context) ([]dto.ReportResponse, error) {
	reports, err := s.repo.Report.List(ctx)
	if err != nil {
		s.logger.Error("list reports failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ReportResponse, 0, len(reports))
	for _, r := range reports {
		result = append(result, dto.ReportResponse{
			ID:                 r.ReportID,
			Title:              r.Title,
			TotalContributions: r.TotalContributions,
			TotalDistributed:   r.TotalDistributed,
			Notes:              r.Notes,
			GeneratedOn:        r.GeneratedOn.UTC().Format(time.RFC3339),
		})
	}
	return result, nil
}

// ── row building ──

// buildRows produces the header and data rows for the requested report.
// Explicitly supplied rows bypass the entity query entirely.
func (s *reportService) buildRows(ctx context.Context, req *dto.GenerateReportRequest) ([]string, [][]string, error) {
	if len(req.Rows) > 0 {
		// The renderers size their layout off the header, so passthrough
		// rows without a header cannot be drawn.
		if len(req.Columns) == 0 {
			return nil, nil, ErrColumnsRequired
		}
		return req.Columns, req.Rows, nil
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, nil, err
	}

	switch req.ReportType {
	case dto.ReportContributions:
		transfers, err := s.repo.Transfer.ListActive(ctx, &repository.TransferFilters{
			Start: start, End: end, SchoolID: req.SchoolID,
		})
		if err != nil {
			s.logger.Error("query transfers for export failed", zap.Error(err))
			return nil, nil, err
		}
		return contributionRows(transfers)

	case dto.ReportDistributions:
		dists, err := s.repo.Distribution.ListActive(ctx, &repository.DistributionFilters{
			Start: start, End: end, SchoolID: req.SchoolID,
		})
		if err != nil {
			s.logger.Error("query distributions for export failed", zap.Error(err))
			return nil, nil, err
		}
		return distributionRows(dists)

	case dto.ReportSchools:
		schools, err := s.repo.School.List(ctx)
		if err != nil {
			s.logger.Error("query schools for export failed", zap.Error(err))
			return nil, nil, err
		}
		return schoolRows(schools)

	default:
		return nil, nil, fmt.Errorf("unknown report type %q", req.ReportType)
	}
}

func contributionRows(transfers []model.TransferReceived) ([]string, [][]string, error) {
	header := []string{"School Code", "Donor", "Amount", "Contribution Type", "Transactions", "Date"}
	rows := make([][]string, 0, len(transfers))
	for i := range transfers {
		t := &transfers[i]
		rows = append(rows, []string{
			t.SchoolCode,
			t.Donor,
			t.Amount.StringFixed(2),
			t.ContributionType,
			fmt.Sprintf("%d", t.NumberOfTransactions),
			t.Timestamp.Format("2006-01-02"),
		})
	}
	return header, rows, nil
}

func distributionRows(dists []model.Distribution) ([]string, [][]string, error) {
	header := []string{"School", "Amount", "Distributed On"}
	rows := make([][]string, 0, len(dists))
	for i := range dists {
		d := &dists[i]
		schoolName := d.SchoolID
		if d.School != nil {
			schoolName = d.School.Name
		}
		rows = append(rows, []string{
			schoolName,
			d.Amount.StringFixed(2),
			d.DistributedOn.Format("2006-01-02"),
		})
	}
	return header, rows, nil
}

func schoolRows(schools []model.School) ([]string, [][]string, error) {
	header := []string{"Name", "Sector", "District"}
	rows := make([][]string, 0, len(schools))
	for i := range schools {
		rows = append(rows, []string{schools[i].Name, schools[i].Sector, schools[i].District})
	}
	return header, rows, nil
}

// parseDateRange validates the optional inclusive range. Either both bounds
// are present and well-formed or neither is.
func parseDateRange(startRaw, endRaw string) (*time.Time, *time.Time, error) {
	if startRaw == "" && endRaw == "" {
		return nil, nil, nil
	}
	if startRaw == "" || endRaw == "" {
		return nil, nil, ErrInvalidDateRange
	}

	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		return nil, nil, ErrInvalidDateRange
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		return nil, nil, ErrInvalidDateRange
	}
	if end.Before(start) {
		return nil, nil, ErrInvalidDateRange
	}

	// make the end bound inclusive of the whole day
	endOfDay := end.Add(24*time.Hour - time.Nanosecond)
	return &start, &endOfDay, nil
}

// ── rendering ──

func (s *reportService) render(format, title string, header []string, rows [][]string) (*ExportFile, error) {
	stamp := time.Now().Format("20060102150405")
	base := strings.ReplaceAll(strings.ToLower(title), " ", "_")

	switch format {
	case dto.FormatExcel:
		buf, err := renderExcel(title, header, rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Content:     buf,
			Filename:    fmt.Sprintf("%s_%s.xlsx", base, stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}, nil

	case dto.FormatCSV:
		buf, err := renderCSV(header, rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Content:     buf,
			Filename:    fmt.Sprintf("%s_%s.csv", base, stamp),
			ContentType: "text/csv",
		}, nil

	case dto.FormatWord:
		buf, err := renderWord(title, header, rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Content:     buf,
			Filename:    fmt.Sprintf("%s_%s.docx", base, stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		}, nil

	case dto.FormatPDF:
		buf, err := renderPDF(title, header, rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Content:     buf,
			Filename:    fmt.Sprintf("%s_%s.pdf", base, stamp),
			ContentType: "application/pdf",
		}, nil

	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func renderExcel(sheetTitle string, header []string, rows [][]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

func renderCSV(header []string, rows [][]string) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &buf, nil
}

func renderWord(title string, header []string, rows [][]string) (*bytes.Buffer, error) {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(title).Size("28")
	doc.AddParagraph().AddText(strings.Join(header, "    "))
	for _, row := range rows {
		doc.AddParagraph().AddText(strings.Join(row, "    "))
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func renderPDF(title string, header []string, rows [][]string) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	colWidth := 190.0 / float64(len(header))

	pdf.SetFont("Helvetica", "B", 11)
	for _, h := range header {
		pdf.CellFormat(colWidth, 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for _, v := range row {
			pdf.CellFormat(colWidth, 7, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// ── snapshot ──

func (s *reportService) recordSnapshot(ctx context.Context, title, notes string) error {
	totalContributions, err := s.repo.Transfer.SumActiveAmounts(ctx)
	if err != nil {
		return err
	}
	totalDistributed, err := s.repo.Distribution.SumActiveAmounts(ctx)
	if err != nil {
		return err
	}

	return s.repo.Report.Create(ctx, &model.Report{
		Title:              title,
		TotalContributions: totalContributions,
		TotalDistributed:   totalDistributed,
		Notes:              notes,
	})
}
