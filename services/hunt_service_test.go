package services

import (
	"testing"
	"time"

	"loot-hunt-system/models"

	"github.com/stretchr/testify/require"
)

func TestFindActiveHunts(t *testing.T) {
	db := newTestDB(t)
	active := seedHunt(t, db)
	seedLootBox(t, db, active, 100)

	// Active status but window already closed
	endedStart := time.Now().Add(-48 * time.Hour)
	endedEnd := time.Now().Add(-24 * time.Hour)
	ended := &models.Hunt{
		BusinessID: active.BusinessID,
		Title:      "Expired Hunt",
		Status:     models.HuntStatusActive,
		StartAt:    &endedStart,
		EndAt:      &endedEnd,
	}
	require.NoError(t, db.Create(ended).Error)

	draft := &models.Hunt{BusinessID: active.BusinessID, Title: "Draft Hunt", Status: models.HuntStatusDraft}
	require.NoError(t, db.Create(draft).Error)

	// Unbounded window counts as active
	open := &models.Hunt{BusinessID: active.BusinessID, Title: "Open-Ended Hunt", Status: models.HuntStatusActive}
	require.NoError(t, db.Create(open).Error)

	svc := NewHuntService(db)
	hunts, err := svc.FindActiveHunts()
	require.NoError(t, err)

	ids := make([]string, 0, len(hunts))
	for _, h := range hunts {
		ids = append(ids, h.ID)
	}
	require.ElementsMatch(t, []string{active.ID, open.ID}, ids)

	for _, h := range hunts {
		if h.ID == active.ID {
			require.Equal(t, "Demo Coffee Shop", h.Business.Name)
			require.Len(t, h.LootBoxes, 1)
		}
	}
}

func TestGetLeaderboard(t *testing.T) {
	db := newTestDB(t)
	hunt := seedHunt(t, db)
	now := time.Now()

	entries := []models.LeaderboardEntry{
		{UserID: "user-a", HuntID: hunt.ID, Score: 30, ClaimsCount: 3, LastClaimAt: now},
		{UserID: "user-b", HuntID: hunt.ID, Score: 50, ClaimsCount: 5, LastClaimAt: now},
		// Same score as user-a but claimed earlier → ranks above on the tie
		{UserID: "user-c", HuntID: hunt.ID, Score: 30, ClaimsCount: 3, LastClaimAt: now.Add(-time.Hour)},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}
	require.NoError(t, db.Create(&models.HuntUser{
		ID:             "mirror-1",
		ExternalUserID: "user-b",
		Username:       "treasure_hunter_42",
	}).Error)

	svc := NewHuntService(db)
	board, err := svc.GetLeaderboard(hunt.ID, 10)
	require.NoError(t, err)
	require.Len(t, board, 3)

	require.Equal(t, "user-b", board[0].UserID)
	require.Equal(t, 1, board[0].Rank)
	require.Equal(t, "treasure_hunter_42", board[0].Username)

	require.Equal(t, "user-c", board[1].UserID)
	require.Equal(t, "user-a", board[2].UserID)
	require.Equal(t, 3, board[2].Rank)
	require.Empty(t, board[2].Username) // no mirror row yet
}

func TestGetLeaderboard_HuntNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewHuntService(db)

	_, err := svc.GetLeaderboard("missing", 10)
	require.Equal(t, KindNotFound, claimKind(t, err))
}

func TestCompleteEndedHunts(t *testing.T) {
	db := newTestDB(t)
	hunt := seedHunt(t, db)

	endedStart := time.Now().Add(-48 * time.Hour)
	endedEnd := time.Now().Add(-time.Minute)
	ended := &models.Hunt{
		BusinessID: hunt.BusinessID,
		Title:      "Just Ended Hunt",
		Status:     models.HuntStatusActive,
		StartAt:    &endedStart,
		EndAt:      &endedEnd,
	}
	require.NoError(t, db.Create(ended).Error)

	svc := NewHuntService(db)
	n, err := svc.CompleteEndedHunts(time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// Fresh destination per lookup: a populated struct would feed its old
	// primary key back into the query conditions.
	var gotEnded models.Hunt
	require.NoError(t, db.First(&gotEnded, "id = ?", ended.ID).Error)
	require.Equal(t, models.HuntStatusCompleted, gotEnded.Status)

	// The hunt still inside its window is untouched
	var gotActive models.Hunt
	require.NoError(t, db.First(&gotActive, "id = ?", hunt.ID).Error)
	require.Equal(t, models.HuntStatusActive, gotActive.Status)

	// Idempotent on the next tick
	n, err = svc.CompleteEndedHunts(time.Now())
	require.NoError(t, err)
	require.Zero(t, n)
}
