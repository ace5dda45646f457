package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimMethod records how the claimant's position was verified
type ClaimMethod string

const (
	ClaimMethodGPS ClaimMethod = "gps"
)

// Claim = one user successfully acquired one loot box. Append-mostly ledger:
// created only by the claim commit transaction, never deleted, and the only
// mutation after creation is the one-way redemption transition.
type Claim struct {
	ID string `gorm:"primaryKey" json:"id"`

	// One claim per (user, loot box) — enforced by the composite unique index,
	// not just the pre-check in the eligibility evaluation.
	UserID    string `gorm:"not null;uniqueIndex:idx_claims_user_loot_box" json:"user_id"`
	LootBoxID string `gorm:"not null;uniqueIndex:idx_claims_user_loot_box" json:"loot_box_id"`

	Method ClaimMethod `gorm:"type:varchar(16);default:'gps'" json:"method"`

	// Position reported by the claimant at claim time
	ClaimLat float64  `json:"claim_lat"`
	ClaimLng float64  `json:"claim_lng"`
	Accuracy *float64 `json:"accuracy,omitempty"`

	// Anti-fraud metadata — recorded only, never used for blocking here
	DeviceID  string `json:"device_id,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	// Opaque redemption token shown to the business at the counter
	RewardCode string `gorm:"uniqueIndex;not null" json:"reward_code"`

	IsRedeemed bool       `gorm:"default:false" json:"is_redeemed"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`

	ClaimedAt time.Time `json:"claimed_at" gorm:"autoCreateTime;index"`

	// Relationships
	LootBox LootBox `json:"loot_box,omitempty" gorm:"foreignKey:LootBoxID"`
}

func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
