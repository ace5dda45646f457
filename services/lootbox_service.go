package services

import (
	"math"

	"loot-hunt-system/models"
	"loot-hunt-system/utils"

	"gorm.io/gorm"
)

type LootBoxService struct {
	DB *gorm.DB
}

func NewLootBoxService(db *gorm.DB) *LootBoxService {
	return &LootBoxService{DB: db}
}

// NearbyLootBox is a loot box candidate with the claimant's distance attached.
type NearbyLootBox struct {
	models.LootBox
	DistanceMeters float64 `json:"distance_meters"`
}

// FindNearby returns active loot boxes of active hunts within radiusKm of the
// given point. A cheap bounding-box query narrows the candidates, then the
// haversine distance refines and sorts out the corners of the box. For real
// scale this belongs in PostGIS; at hunt density a degree-box is plenty.
func (s *LootBoxService) FindNearby(lat, lng, radiusKm float64) ([]NearbyLootBox, error) {
	if radiusKm <= 0 {
		radiusKm = 5
	}

	latRange := radiusKm / 111 // ~111 km per degree of latitude
	lngRange := radiusKm / (111 * cosDeg(lat))

	var boxes []models.LootBox
	err := s.DB.Preload("Hunt.Business").
		Select("loot_boxes.*").
		Joins("JOIN hunts ON hunts.id = loot_boxes.hunt_id").
		Where("loot_boxes.is_active = ?", true).
		Where("hunts.status = ?", models.HuntStatusActive).
		Where("loot_boxes.lat BETWEEN ? AND ?", lat-latRange, lat+latRange).
		Where("loot_boxes.lng BETWEEN ? AND ?", lng-lngRange, lng+lngRange).
		Find(&boxes).Error
	if err != nil {
		return nil, infraError("finding nearby loot boxes", err)
	}

	maxMeters := radiusKm * 1000
	nearby := make([]NearbyLootBox, 0, len(boxes))
	for _, box := range boxes {
		d := utils.HaversineDistance(lat, lng, box.Lat, box.Lng)
		if d <= maxMeters {
			nearby = append(nearby, NearbyLootBox{LootBox: box, DistanceMeters: d})
		}
	}
	return nearby, nil
}

func cosDeg(deg float64) float64 {
	c := math.Cos(deg * math.Pi / 180)
	if c < 0.01 {
		c = 0.01 // keep the longitude box finite near the poles
	}
	return c
}
