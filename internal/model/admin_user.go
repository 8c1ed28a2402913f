package model

import (
	"time"

	"github.com/AlineIradukunda/dusangire-backend/pkg/jwt"
)

// AdminUser is a back-office account — table admin_users.
type AdminUser struct {
	UserID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username         string    `gorm:"type:varchar(150);not null;uniqueIndex"         json:"username"`
	Email            string    `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	PasswordHash     string    `gorm:"type:varchar(255);not null"                     json:"-"`
	IsSuperuser      bool      `gorm:"not null;default:false"                         json:"is_superuser"`
	IsStaff          bool      `gorm:"not null;default:false"                         json:"is_staff"`
	AssignedSchoolID *string   `gorm:"type:uuid"                                      json:"assigned_school_id,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	AssignedSchool *School `gorm:"foreignKey:AssignedSchoolID;references:SchoolID" json:"assigned_school,omitempty"`
}

// TableName pins the table name.
func (AdminUser) TableName() string { return "admin_users" }

// Role resolves the caller's role once from the account flags.
// Superuser wins over staff; everyone else is a plain authenticated user.
func (u *AdminUser) Role() string {
	switch {
	case u.IsSuperuser:
		return jwt.RoleSuperuser
	case u.IsStaff:
		return jwt.RoleAdmin
	default:
		return jwt.RoleUser
	}
}
