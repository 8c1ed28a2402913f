package model

import "github.com/AlineIradukunda/dusangire-backend/internal/lifecycle"

// SoftDelete carries the staged-deletion fields embedded by every record the
// delete lifecycle governs.
type SoftDelete struct {
	DeleteStatus lifecycle.Status `gorm:"type:varchar(20);not null;default:'active'" json:"delete_status"`
	DeleteReason *string          `gorm:"type:text"                                  json:"delete_reason,omitempty"`
}
