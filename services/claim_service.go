package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"loot-hunt-system/models"
	"loot-hunt-system/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClaimConfig collects the operator-tunable inputs of the claim core.
type ClaimConfig struct {
	// Minimum gap between a user's consecutive claims (anti-automation).
	VelocityLimitSeconds int
	// Skips the GPS proximity check. Integration testing only — must stay
	// false in production.
	SkipGPSVerification bool
	// Leaderboard points granted per accepted claim.
	BaseClaimScore int64
}

func DefaultClaimConfig() ClaimConfig {
	return ClaimConfig{
		VelocityLimitSeconds: 60,
		SkipGPSVerification:  false,
		BaseClaimScore:       10,
	}
}

type ClaimService struct {
	DB  *gorm.DB
	Cfg ClaimConfig
}

func NewClaimService(db *gorm.DB, cfg ClaimConfig) *ClaimService {
	return &ClaimService{DB: db, Cfg: cfg}
}

// CreateClaimRequest carries what the claimant reported. The user id comes
// separately from the gateway-verified context, never from the body.
type CreateClaimRequest struct {
	LootBoxID string   `json:"loot_box_id"`
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	DeviceID  string   `json:"device_id,omitempty"`
	IPAddress string   `json:"ip_address,omitempty"`
	UserAgent string   `json:"user_agent,omitempty"`
}

// ClaimList is one page of a user's claim history.
type ClaimList struct {
	Claims     []models.Claim `json:"claims"`
	Pagination Pagination     `json:"pagination"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// errCapacityRace signals that the conditional counter increment found the
// loot box already full — a concurrent commit won the last slot.
var errCapacityRace = errors.New("loot box capacity reached")

// CreateClaim runs the full eligibility evaluation and, if it passes, commits
// the claim and every dependent aggregate as one transaction.
//
// The pre-checks are a fast-reject optimization: uniqueness and capacity are
// re-asserted inside the transaction (unique index, conditional increment), so
// concurrent requests that both pass the pre-checks still resolve to exactly
// one accepted claim.
func (s *ClaimService) CreateClaim(userID string, req CreateClaimRequest) (*models.Claim, error) {
	var box models.LootBox
	if err := s.DB.Preload("Hunt").First(&box, "id = ?", req.LootBoxID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClaimError(KindNotFound, "loot box not found")
		}
		return nil, infraError("loading loot box", err)
	}

	var prior int64
	if err := s.DB.Model(&models.Claim{}).
		Where("user_id = ? AND loot_box_id = ?", userID, box.ID).
		Count(&prior).Error; err != nil {
		return nil, infraError("checking prior claim", err)
	}
	if prior > 0 {
		return nil, newClaimError(KindAlreadyClaimed, "you have already claimed this loot box")
	}

	if !box.Active() {
		return nil, newClaimError(KindInactive, "this loot box is no longer active")
	}

	now := time.Now()
	switch box.Hunt.Status {
	case models.HuntStatusActive:
		// window checked below
	case models.HuntStatusDraft:
		return nil, newClaimError(KindHuntNotStarted, "hunt has not started yet")
	case models.HuntStatusCompleted:
		return nil, newClaimError(KindHuntEnded, "hunt has ended")
	default:
		return nil, newClaimError(KindInactive, "hunt is not accepting claims")
	}
	if box.Hunt.StartAt != nil && now.Before(*box.Hunt.StartAt) {
		return nil, newClaimError(KindHuntNotStarted, "hunt has not started yet")
	}
	if box.Hunt.EndAt != nil && now.After(*box.Hunt.EndAt) {
		return nil, newClaimError(KindHuntEnded, "hunt has ended")
	}

	if box.ClaimsCount >= box.MaxClaims {
		return nil, newClaimError(KindCapacityExceeded, "this loot box has reached maximum claims")
	}

	if !s.Cfg.SkipGPSVerification {
		distance := utils.HaversineDistance(box.Lat, box.Lng, req.Lat, req.Lng)
		if distance > box.RadiusMeters {
			return nil, &ClaimError{
				Kind:           KindTooFar,
				Message:        "you are not close enough to claim this loot box",
				DistanceMeters: distance,
				RadiusMeters:   box.RadiusMeters,
			}
		}
	}

	if cerr := s.checkVelocityLimit(userID, now); cerr != nil {
		return nil, cerr
	}

	claim, err := s.commitClaim(userID, &box, req, now)
	if err != nil {
		return nil, err
	}

	log.Printf("🎁 Claim accepted: user=%s loot_box=%s hunt=%s code=%s",
		userID, box.ID, box.HuntID, claim.RewardCode)

	// Re-read with full display context (loot box → hunt → business).
	var full models.Claim
	if err := s.DB.Preload("LootBox.Hunt.Business").First(&full, "id = ?", claim.ID).Error; err != nil {
		return nil, infraError("loading created claim", err)
	}
	return &full, nil
}

// commitClaim persists the claim and the three dependent aggregates
// atomically. A duplicate-key failure is disambiguated after rollback: if a
// (user, loot box) row exists the request lost a duplicate race; otherwise the
// generated reward code collided and the commit is retried once with a fresh
// code before giving up with CONFLICT.
func (s *ClaimService) commitClaim(userID string, box *models.LootBox, req CreateClaimRequest, now time.Time) (*models.Claim, error) {
	for attempt := 0; attempt < 2; attempt++ {
		code, err := utils.GenerateRewardCode()
		if err != nil {
			return nil, infraError("generating reward code", err)
		}

		claim := &models.Claim{
			UserID:     userID,
			LootBoxID:  box.ID,
			Method:     models.ClaimMethodGPS,
			ClaimLat:   req.Lat,
			ClaimLng:   req.Lng,
			Accuracy:   req.Accuracy,
			DeviceID:   req.DeviceID,
			IPAddress:  req.IPAddress,
			UserAgent:  req.UserAgent,
			RewardCode: code,
		}

		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(claim).Error; err != nil {
				return err
			}

			// Conditional increment re-asserts capacity under concurrency;
			// zero rows means a concurrent commit took the last slot.
			res := tx.Model(&models.LootBox{}).
				Where("id = ? AND claims_count < max_claims", box.ID).
				UpdateColumn("claims_count", gorm.Expr("claims_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errCapacityRace
			}

			if err := tx.Model(&models.Hunt{}).
				Where("id = ?", box.HuntID).
				UpdateColumn("claims_count", gorm.Expr("claims_count + 1")).Error; err != nil {
				return err
			}

			entry := models.LeaderboardEntry{
				UserID:      userID,
				HuntID:      box.HuntID,
				Score:       s.Cfg.BaseClaimScore,
				ClaimsCount: 1,
				LastClaimAt: now,
			}
			return tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "hunt_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"score":         gorm.Expr("score + ?", s.Cfg.BaseClaimScore),
					"claims_count":  gorm.Expr("claims_count + 1"),
					"last_claim_at": now,
					"updated_at":    now,
				}),
			}).Create(&entry).Error
		})

		switch {
		case err == nil:
			return claim, nil
		case errors.Is(err, errCapacityRace):
			return nil, newClaimError(KindCapacityExceeded, "this loot box has reached maximum claims")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			var existing int64
			if probeErr := s.DB.Model(&models.Claim{}).
				Where("user_id = ? AND loot_box_id = ?", userID, box.ID).
				Count(&existing).Error; probeErr != nil {
				return nil, infraError("disambiguating duplicate claim", probeErr)
			}
			if existing > 0 {
				return nil, newClaimError(KindAlreadyClaimed, "you have already claimed this loot box")
			}
			log.Printf("⚠️ Reward code collision on loot_box=%s, regenerating (attempt %d)", box.ID, attempt+1)
			continue
		default:
			return nil, infraError("committing claim", err)
		}
	}

	return nil, newClaimError(KindConflict, "claim lost a concurrent commit race, retry the request")
}

// checkVelocityLimit probes the user's single most recent claim inside the
// configured window. Normal read isolation is fine here: this deters
// rapid-fire abuse, the commit-time constraints are the hard boundary.
func (s *ClaimService) checkVelocityLimit(userID string, now time.Time) *ClaimError {
	if s.Cfg.VelocityLimitSeconds <= 0 {
		return nil
	}

	cutoff := now.Add(-time.Duration(s.Cfg.VelocityLimitSeconds) * time.Second)
	var last models.Claim
	err := s.DB.Where("user_id = ? AND claimed_at >= ?", userID, cutoff).
		Order("claimed_at DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return infraError("checking claim velocity", err)
	}

	wait := s.Cfg.VelocityLimitSeconds - int(now.Sub(last.ClaimedAt).Seconds())
	if wait < 1 {
		wait = 1
	}
	return &ClaimError{
		Kind:        KindRateLimited,
		Message:     fmt.Sprintf("you must wait %d seconds between claims", wait),
		WaitSeconds: wait,
	}
}

// RedeemClaim transitions a claim from unredeemed to redeemed exactly once.
// The transition is a single conditional update, so two concurrent redemptions
// resolve to one success and one ALREADY_REDEEMED.
func (s *ClaimService) RedeemClaim(claimID, userID string) (*models.Claim, error) {
	now := time.Now()
	res := s.DB.Model(&models.Claim{}).
		Where("id = ? AND user_id = ? AND is_redeemed = ?", claimID, userID, false).
		Updates(map[string]interface{}{
			"is_redeemed": true,
			"redeemed_at": now,
		})
	if res.Error != nil {
		return nil, infraError("redeeming claim", res.Error)
	}

	if res.RowsAffected == 0 {
		var probe models.Claim
		err := s.DB.First(&probe, "id = ? AND user_id = ?", claimID, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClaimError(KindNotFound, "claim not found")
		}
		if err != nil {
			return nil, infraError("loading claim", err)
		}
		return nil, newClaimError(KindAlreadyRedeemed, "claim has already been redeemed")
	}

	log.Printf("✅ Claim redeemed: claim=%s user=%s", claimID, userID)

	var full models.Claim
	if err := s.DB.Preload("LootBox.Hunt.Business").First(&full, "id = ?", claimID).Error; err != nil {
		return nil, infraError("loading redeemed claim", err)
	}
	return &full, nil
}

// ListClaims returns one page of the user's claim history, newest first
// (ties broken by id so pages stay stable), with full display context.
func (s *ClaimService) ListClaims(userID string, page, limit int) (*ClaimList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var total int64
	if err := s.DB.Model(&models.Claim{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, infraError("counting claims", err)
	}

	var claims []models.Claim
	if err := s.DB.Where("user_id = ?", userID).
		Preload("LootBox.Hunt.Business").
		Order("claimed_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&claims).Error; err != nil {
		return nil, infraError("listing claims", err)
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	return &ClaimList{
		Claims: claims,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}
