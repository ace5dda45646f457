package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"loot-hunt-system/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test. MaxOpenConns(1)
// keeps every connection on the same in-memory instance and serializes
// transactions the way a single Postgres row lock would.
func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Business{},
		&models.Hunt{},
		&models.LootBox{},
		&models.Claim{},
		&models.LeaderboardEntry{},
		&models.HuntUser{},
	))
	return db
}

func seedHunt(t *testing.T, db *gorm.DB) *models.Hunt {
	biz := &models.Business{
		Name:       "Demo Coffee Shop",
		Address:    "123 Market Street",
		City:       "San Francisco",
		State:      "CA",
		ZipCode:    "94105",
		IsVerified: true,
	}
	require.NoError(t, db.Create(biz).Error)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(24 * time.Hour)
	hunt := &models.Hunt{
		BusinessID: biz.ID,
		Title:      "Demo Coffee Shop Treasure Hunt",
		Status:     models.HuntStatusActive,
		StartAt:    &start,
		EndAt:      &end,
		MaxClaims:  1000,
	}
	require.NoError(t, db.Create(hunt).Error)
	return hunt
}

func seedLootBox(t *testing.T, db *gorm.DB, hunt *models.Hunt, maxClaims int64) *models.LootBox {
	box := &models.LootBox{
		HuntID:        hunt.ID,
		Title:         "Welcome Bonus",
		Description:   "Get 10% off your first order!",
		Lat:           37.7749,
		Lng:           -122.4194,
		RadiusMeters:  30,
		RewardType:    models.RewardTypeDiscount,
		RewardPayload: `{"discount":10,"type":"percentage"}`,
		IsActive:      boolPtr(true),
		MaxClaims:     maxClaims,
	}
	require.NoError(t, db.Create(box).Error)
	return box
}

func boolPtr(b bool) *bool { return &b }

// backdateClaim moves a claim's timestamp outside the velocity window.
func backdateClaim(t *testing.T, db *gorm.DB, claimID string, ago time.Duration) {
	require.NoError(t, db.Model(&models.Claim{}).
		Where("id = ?", claimID).
		Update("claimed_at", time.Now().Add(-ago)).Error)
}
