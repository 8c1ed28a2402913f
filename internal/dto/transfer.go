package dto

import "github.com/shopspring/decimal"

// CreateTransferRequest records an incoming donation.
type CreateTransferRequest struct {
	SchoolCode           string          `json:"school_code" binding:"max=100"`
	Donor                string          `json:"donor" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	ContributionType     string          `json:"contribution_type" binding:"omitempty,oneof=general specific"`
	NumberOfTransactions int             `json:"number_of_transactions" binding:"omitempty,min=0"`
	SchoolIDs            []string        `json:"school_ids"`
}

// UpdateTransferRequest is the full-update payload for a transfer.
type UpdateTransferRequest struct {
	SchoolCode           *string          `json:"school_code" binding:"omitempty,max=100"`
	Donor                *string          `json:"donor"`
	Amount               *decimal.Decimal `json:"amount"`
	ContributionType     *string          `json:"contribution_type" binding:"omitempty,oneof=general specific"`
	NumberOfTransactions *int             `json:"number_of_transactions" binding:"omitempty,min=0"`
	SchoolIDs            []string         `json:"school_ids"`
}

// TransferResponse is the donation view.
type TransferResponse struct {
	ID                   string          `json:"id"`
	SchoolCode           string          `json:"school_code"`
	Donor                string          `json:"donor"`
	Amount               decimal.Decimal `json:"amount"`
	ContributionType     string          `json:"contribution_type"`
	NumberOfTransactions int             `json:"number_of_transactions"`
	SchoolNames          []string        `json:"school_names,omitempty"`
	DeleteStatus         string          `json:"delete_status"`
	DeleteReason         string          `json:"delete_reason,omitempty"`
	Timestamp            string          `json:"timestamp"`
}

// ImportWarning describes one skipped spreadsheet row.
type ImportWarning struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResponse summarizes a bulk import: rows created plus the warnings for
// rows that were skipped. A partially failed import is still a success.
type ImportResponse struct {
	Created  int             `json:"created"`
	Warnings []ImportWarning `json:"warnings"`
}
