package models

import (
	"time"
)

// HuntUser is a local snapshot of user data needed for leaderboard display.
// Owned and managed solely by this service; populated by the profile sync
// worker from the auth/profile service. Identity itself stays external —
// claims reference the external user id directly.
type HuntUser struct {
	ID                string     `gorm:"primaryKey" json:"id"`
	ExternalUserID    string     `gorm:"uniqueIndex;not null" json:"external_user_id"`
	Username          string     `gorm:"index;not null" json:"username"`
	Email             string     `json:"email,omitempty"`
	ProfilePictureURL *string    `json:"profile_picture_url,omitempty"`
	LastSeen          *time.Time `json:"last_seen,omitempty"`
	CreatedAt         time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}
