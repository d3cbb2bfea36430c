package models

import (
	"time"
)

// RecordIDMaxLength is the width of a hyphenated UUID.
const RecordIDMaxLength = 36

// HealthVaultUser links a local user to one HealthVault record.
// A user has at most one link and a record belongs to at most one user.
type HealthVaultUser struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"type:varchar(36);uniqueIndex;not null"`
	RecordID    string `gorm:"size:36;uniqueIndex;not null"`
	AccessToken string `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (HealthVaultUser) TableName() string {
	return "healthvault_users"
}
