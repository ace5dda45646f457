package services

import (
	"errors"
	"time"

	"loot-hunt-system/models"

	"gorm.io/gorm"
)

type HuntService struct {
	DB *gorm.DB
}

func NewHuntService(db *gorm.DB) *HuntService {
	return &HuntService{DB: db}
}

// FindActiveHunts returns hunts that are currently claimable: status active
// and the activity window contains now. Includes the business and the active
// loot boxes for display.
func (s *HuntService) FindActiveHunts() ([]models.Hunt, error) {
	now := time.Now()

	var hunts []models.Hunt
	err := s.DB.Preload("Business").
		Preload("LootBoxes", "is_active = ?", true).
		Where("status = ?", models.HuntStatusActive).
		Where("start_at IS NULL OR start_at <= ?", now).
		Where("end_at IS NULL OR end_at >= ?", now).
		Find(&hunts).Error
	if err != nil {
		return nil, infraError("listing active hunts", err)
	}
	return hunts, nil
}

// GetLeaderboard returns the hunt's top entries by score (earlier last claim
// wins ties), ranked, with usernames joined from the local profile mirror.
func (s *HuntService) GetLeaderboard(huntID string, limit int) ([]models.LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 25
	}

	var hunt models.Hunt
	if err := s.DB.First(&hunt, "id = ?", huntID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClaimError(KindNotFound, "hunt not found")
		}
		return nil, infraError("loading hunt", err)
	}

	var entries []models.LeaderboardEntry
	err := s.DB.Where("hunt_id = ?", huntID).
		Order("score DESC, last_claim_at ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, infraError("loading leaderboard", err)
	}

	if len(entries) > 0 {
		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.UserID)
		}

		var users []models.HuntUser
		if err := s.DB.Where("external_user_id IN ?", ids).Find(&users).Error; err != nil {
			return nil, infraError("loading leaderboard usernames", err)
		}
		names := make(map[string]string, len(users))
		for _, u := range users {
			names[u.ExternalUserID] = u.Username
		}

		for i := range entries {
			entries[i].Rank = i + 1
			entries[i].Username = names[entries[i].UserID]
		}
	}

	return entries, nil
}
