package dto

import "github.com/shopspring/decimal"

// CreateSchoolRequest registers a new school.
type CreateSchoolRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	District      string `json:"district" binding:"required,max=100"`
	Sector        string `json:"sector" binding:"required,max=100"`
	AccountNumber string `json:"account_number" binding:"max=50"`
}

// UpdateSchoolRequest updates an existing school's details.
type UpdateSchoolRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	District      *string `json:"district" binding:"omitempty,max=100"`
	Sector        *string `json:"sector" binding:"omitempty,max=100"`
	AccountNumber *string `json:"account_number" binding:"omitempty,max=50"`
}

// RequestDeleteRequest starts a staged deletion; a reason is mandatory.
// Shared by schools, transfers and distributions.
type RequestDeleteRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SchoolResponse is the school view. TotalReceived is computed from the
// school's active distributions on every read, never stored.
type SchoolResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	District      string          `json:"district"`
	Sector        string          `json:"sector"`
	AccountNumber string          `json:"account_number,omitempty"`
	TotalReceived decimal.Decimal `json:"total_received"`
	DeleteStatus  string          `json:"delete_status"`
	DeleteReason  string          `json:"delete_reason,omitempty"`
	CreatedAt     string          `json:"created_at"`
}
