package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaderboardEntry — per (user, hunt) aggregate derived from the claim ledger.
// Exists iff the user has at least one accepted claim in the hunt, and is only
// created-or-incremented inside the claim commit transaction, so it can never
// silently diverge from the ledger.
type LeaderboardEntry struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"not null;uniqueIndex:idx_leaderboard_user_hunt" json:"user_id"`
	HuntID      string    `gorm:"not null;uniqueIndex:idx_leaderboard_user_hunt;index" json:"hunt_id"`
	Score       int64     `gorm:"default:0" json:"score"`
	ClaimsCount int64     `gorm:"default:0" json:"claims_count"`
	LastClaimAt time.Time `json:"last_claim_at"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Hunt Hunt `json:"hunt,omitempty" gorm:"foreignKey:HuntID"`

	// Joined for display (not stored)
	Rank     int    `json:"rank,omitempty" gorm:"-"`
	Username string `json:"username,omitempty" gorm:"-"`
}

func (e *LeaderboardEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
