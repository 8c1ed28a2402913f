package dto

import "github.com/shopspring/decimal"

// CreateDistributionRequest disburses funds to one school.
type CreateDistributionRequest struct {
	SchoolID string          `json:"school_id" binding:"required,uuid"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// DistributionResponse is the disbursement view.
type DistributionResponse struct {
	ID            string          `json:"id"`
	SchoolID      string          `json:"school_id"`
	SchoolName    string          `json:"school_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	DeleteStatus  string          `json:"delete_status"`
	DeleteReason  string          `json:"delete_reason,omitempty"`
	DistributedOn string          `json:"distributed_on"`
}

// SchoolSummaryResponse is one row of the per-school transaction summary.
type SchoolSummaryResponse struct {
	SchoolID         string          `json:"school_id"`
	SchoolName       string          `json:"school_name"`
	TotalDistributed decimal.Decimal `json:"total_distributed"`
	Distributions    int64           `json:"distributions"`
}
