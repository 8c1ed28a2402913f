package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is a snapshot of generated totals — table reports.
// Reports are immutable once created.
type Report struct {
	ReportID           string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"report_id"`
	Title              string          `gorm:"type:varchar(100);not null"                     json:"title"`
	TotalContributions decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"          json:"total_contributions"`
	TotalDistributed   decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"          json:"total_distributed"`
	Notes              string          `gorm:"type:text"                                      json:"notes,omitempty"`
	GeneratedOn        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"generated_on"`
}

// TableName pins the table name.
func (Report) TableName() string { return "reports" }
