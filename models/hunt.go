package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// HuntStatus is the lifecycle state of a hunt campaign
type HuntStatus string

const (
	HuntStatusDraft     HuntStatus = "draft"
	HuntStatusActive    HuntStatus = "active"
	HuntStatusPaused    HuntStatus = "paused"
	HuntStatusCompleted HuntStatus = "completed"
)

// Hunt is a time-bounded treasure hunt campaign owned by a Business.
// Claims are only accepted while Status is active and the current time falls
// inside [StartAt, EndAt] (a nil bound is unbounded on that side).
type Hunt struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	BusinessID  string     `gorm:"index;not null" json:"business_id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"index" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	Status      HuntStatus `gorm:"type:varchar(16);default:'draft';index" json:"status"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	IsPremium   bool       `gorm:"default:false" json:"is_premium"`

	// ClaimsCount is a denormalized aggregate of accepted claims across all
	// loot boxes in the hunt. Updated only by the claim commit transaction.
	ClaimsCount int64 `gorm:"default:0" json:"claims_count"`
	MaxClaims   int64 `gorm:"default:0" json:"max_claims"` // 0 = unlimited

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Business  Business  `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	LootBoxes []LootBox `json:"loot_boxes,omitempty" gorm:"foreignKey:HuntID"`
}

func (h *Hunt) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.Slug == "" {
		h.Slug = slug.Make(h.Title)
	}
	return nil
}

// WindowContains reports whether the hunt's activity window contains t.
func (h *Hunt) WindowContains(t time.Time) bool {
	if h.StartAt != nil && t.Before(*h.StartAt) {
		return false
	}
	if h.EndAt != nil && t.After(*h.EndAt) {
		return false
	}
	return true
}
