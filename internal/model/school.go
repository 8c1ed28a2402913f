package model

import "time"

// School is a beneficiary school — table schools.
type School struct {
	SchoolID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"school_id"`
	Name          string `gorm:"type:varchar(100);not null"                     json:"name"`
	District      string `gorm:"type:varchar(100);not null"                     json:"district"`
	Sector        string `gorm:"type:varchar(100);not null"                     json:"sector"`
	AccountNumber string `gorm:"type:varchar(50)"                               json:"account_number,omitempty"`
	SoftDelete
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Distributions []Distribution `gorm:"foreignKey:SchoolID;references:SchoolID" json:"distributions,omitempty"`
}

// TableName pins the table name.
func (School) TableName() string { return "schools" }
