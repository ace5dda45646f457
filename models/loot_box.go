package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardType indicates what kind of reward a loot box carries
type RewardType string

const (
	RewardTypeDiscount RewardType = "discount"
	RewardTypeFreeItem RewardType = "free_item"
	RewardTypePoints   RewardType = "points"
	RewardTypeCustom   RewardType = "custom"
)

// LootBox is a geographically anchored, claimable reward unit belonging to a Hunt.
type LootBox struct {
	ID          string `gorm:"primaryKey" json:"id"`
	HuntID      string `gorm:"index;not null" json:"hunt_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Hint        string `gorm:"type:text" json:"hint,omitempty"`

	// Anchor coordinate (decimal degrees) and claim radius
	Lat          float64 `gorm:"not null" json:"lat"`
	Lng          float64 `gorm:"not null" json:"lng"`
	RadiusMeters float64 `gorm:"not null;default:30" json:"radius_meters"`

	RewardType    RewardType `gorm:"type:varchar(16);not null" json:"reward_type"`
	RewardPayload string     `gorm:"type:text" json:"reward_payload"` // opaque JSON, rendered by the client

	// Pointer so an explicit false survives the insert: gorm omits zero-valued
	// fields that carry a default tag, which would silently flip false to true.
	IsActive *bool `gorm:"default:true" json:"is_active"`

	// ClaimsCount <= MaxClaims always. Mutated only by the claim commit
	// transaction via a conditional increment, never read-then-write.
	ClaimsCount int64 `gorm:"default:0" json:"claims_count"`
	MaxClaims   int64 `gorm:"not null" json:"max_claims"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Hunt Hunt `json:"hunt,omitempty" gorm:"foreignKey:HuntID"`
}

// Active reports whether the box accepts claims. A nil IsActive means the
// value was never set and the column default (true) applies.
func (l *LootBox) Active() bool {
	return l.IsActive == nil || *l.IsActive
}

func (l *LootBox) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
