package dto

import "github.com/shopspring/decimal"

// Report types and output formats accepted by POST /reports/generate.
const (
	ReportContributions = "contributions"
	ReportDistributions = "distributions"
	ReportSchools       = "schools"

	FormatExcel = "excel"
	FormatCSV   = "csv"
	FormatWord  = "word"
	FormatPDF   = "pdf"
)

// GenerateReportRequest selects what to export and how.
// When Rows is set the entity query is bypassed and exactly Columns/Rows are
// rendered; otherwise the report type's entity is filtered by the optional
// inclusive date range and school.
type GenerateReportRequest struct {
	ReportType string `json:"report_type" binding:"required,oneof=contributions distributions schools"`
	Format     string `json:"format" binding:"required,oneof=excel csv word pdf"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate    string `json:"end_date"`   // YYYY-MM-DD, inclusive
	SchoolID   string `json:"school_id" binding:"omitempty,uuid"`
	Notes      string `json:"notes"`

	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ReportResponse is the stored snapshot view.
type ReportResponse struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	TotalDistributed   decimal.Decimal `json:"total_distributed"`
	Notes              string          `json:"notes,omitempty"`
	GeneratedOn        string          `json:"generated_on"`
}
