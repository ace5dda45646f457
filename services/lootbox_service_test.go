package services

import (
	"testing"

	"loot-hunt-system/models"

	"github.com/stretchr/testify/require"
)

func TestFindNearby(t *testing.T) {
	db := newTestDB(t)
	hunt := seedHunt(t, db)
	svc := NewLootBoxService(db)

	near := seedLootBox(t, db, hunt, 100) // at the search origin

	// ~2.2 km north — inside a 5 km search, outside a 1 km one
	farther := &models.LootBox{
		HuntID:       hunt.ID,
		Title:        "Two Klicks Out",
		Lat:          near.Lat + 0.02,
		Lng:          near.Lng,
		RadiusMeters: 30,
		RewardType:   models.RewardTypePoints,
		IsActive:     boolPtr(true),
		MaxClaims:    10,
	}
	require.NoError(t, db.Create(farther).Error)

	inactive := &models.LootBox{
		HuntID:       hunt.ID,
		Title:        "Retired Box",
		Lat:          near.Lat,
		Lng:          near.Lng,
		RadiusMeters: 30,
		RewardType:   models.RewardTypeCustom,
		IsActive:     boolPtr(false),
		MaxClaims:    10,
	}
	require.NoError(t, db.Create(inactive).Error)

	// Same spot but its hunt is a draft
	draftHunt := &models.Hunt{BusinessID: hunt.BusinessID, Title: "Draft Hunt", Status: models.HuntStatusDraft}
	require.NoError(t, db.Create(draftHunt).Error)
	hidden := &models.LootBox{
		HuntID:       draftHunt.ID,
		Title:        "Not Yet Public",
		Lat:          near.Lat,
		Lng:          near.Lng,
		RadiusMeters: 30,
		RewardType:   models.RewardTypeDiscount,
		IsActive:     boolPtr(true),
		MaxClaims:    10,
	}
	require.NoError(t, db.Create(hidden).Error)

	results, err := svc.FindNearby(near.Lat, near.Lng, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[string]NearbyLootBox{}
	for _, r := range results {
		byID[r.ID] = r
		require.Equal(t, "Demo Coffee Shop", r.Hunt.Business.Name)
	}
	require.InDelta(t, 0, byID[near.ID].DistanceMeters, 1)
	require.InDelta(t, 2224, byID[farther.ID].DistanceMeters, 50)

	// Tighter radius drops the distant box
	results, err = svc.FindNearby(near.Lat, near.Lng, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, near.ID, results[0].ID)
}

// A box created inactive must stay inactive after the insert; the column
// default is only for rows that never set the flag.
func TestLootBox_InactiveAtCreationPersists(t *testing.T) {
	db := newTestDB(t)
	hunt := seedHunt(t, db)

	box := &models.LootBox{
		HuntID:       hunt.ID,
		Title:        "Paused Promo",
		Lat:          37.7749,
		Lng:          -122.4194,
		RadiusMeters: 30,
		RewardType:   models.RewardTypeDiscount,
		IsActive:     boolPtr(false),
		MaxClaims:    10,
	}
	require.NoError(t, db.Create(box).Error)

	var got models.LootBox
	require.NoError(t, db.First(&got, "id = ?", box.ID).Error)
	require.NotNil(t, got.IsActive)
	require.False(t, *got.IsActive)
	require.False(t, got.Active())

	// Leaving the flag unset still defaults to active
	defaulted := &models.LootBox{
		HuntID:       hunt.ID,
		Title:        "Default Flag",
		Lat:          37.7749,
		Lng:          -122.4194,
		RadiusMeters: 30,
		RewardType:   models.RewardTypePoints,
		MaxClaims:    10,
	}
	require.NoError(t, db.Create(defaulted).Error)

	var got2 models.LootBox
	require.NoError(t, db.First(&got2, "id = ?", defaulted.ID).Error)
	require.NotNil(t, got2.IsActive)
	require.True(t, *got2.IsActive)
}
