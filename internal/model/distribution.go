package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Distribution is a disbursement of pooled funds to one school — table
// distributions.
type Distribution struct {
	DistributionID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"distribution_id"`
	SchoolID       string          `gorm:"type:uuid;not null"                             json:"school_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"amount"`
	SoftDelete
	DistributedOn time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"distributed_on"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	School *School `gorm:"foreignKey:SchoolID;references:SchoolID" json:"school,omitempty"`
}

// TableName pins the table name.
func (Distribution) TableName() string { return "distributions" }
