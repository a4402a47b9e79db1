package models

import (
	"time"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FullName  string    `json:"full_name" gorm:"not null"`
	Email     string    `json:"email" gorm:"unique;not null"`
	Password  string    `json:"-" gorm:"not null"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SocialAccount links a user to an OAuth identity. One row per
// (provider, provider_id).
type SocialAccount struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Provider     string    `json:"provider" gorm:"not null;uniqueIndex:idx_social_provider_id"`
	ProviderID   string    `json:"provider_id" gorm:"not null;uniqueIndex:idx_social_provider_id"`
	Avatar       string    `json:"avatar"`
	Token        string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
