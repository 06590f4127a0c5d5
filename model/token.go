package model

import "time"

// AuthToken tracks issued access/refresh token ids so refresh tokens can be
// invalidated after a single use.
type AuthToken struct {
	ID             uint      `gorm:"primaryKey"`
	Username       string    `gorm:"size:20;not null;index"`
	TokenID        string    `gorm:"size:64;not null"`
	RefreshTokenID string    `gorm:"size:64;not null;index"`
	Expiration     time.Time `gorm:"not null"`

	CreatedAt time.Time
}

func (AuthToken) TableName() string { return "auth_token" }
