package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Donors is the fixed set of recognized funding sources. Input is matched
// case-insensitively; the canonical spelling is what gets stored.
var Donors = []string{
	"Indiv through MoMo",
	"METRO WORLD CHILD",
	"IREMBO",
	"MTN RWANDACELL LTD",
}

// CanonicalDonor resolves a free-text donor value against the fixed set.
func CanonicalDonor(raw string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	for _, d := range Donors {
		if strings.ToLower(d) == needle {
			return d, true
		}
	}
	return "", false
}

// Contribution types.
const (
	ContributionGeneral  = "general"
	ContributionSpecific = "specific"
)

// TransferReceived is an incoming donation — table transfers_received.
type TransferReceived struct {
	TransferID           string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"transfer_id"`
	SchoolCode           string          `gorm:"type:varchar(100);not null;default:''"          json:"school_code"`
	Donor                string          `gorm:"type:varchar(50);not null"                      json:"donor"`
	Amount               decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"amount"`
	ContributionType     string          `gorm:"type:varchar(50);not null;default:'general'"    json:"contribution_type"`
	NumberOfTransactions int             `gorm:"not null;default:0"                             json:"number_of_transactions"`
	SoftDelete
	Timestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"timestamp"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Schools []School `gorm:"many2many:transfer_schools;foreignKey:TransferID;joinForeignKey:TransferID;references:SchoolID;joinReferences:SchoolID" json:"schools,omitempty"`
}

// TableName pins the table name.
func (TransferReceived) TableName() string { return "transfers_received" }
