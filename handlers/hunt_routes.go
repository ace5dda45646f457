// handlers/hunt_routes.go
package handlers

import (
	"strconv"

	"loot-hunt-system/middleware"
	"loot-hunt-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupHuntRoutes(app *fiber.App, huntService *services.HuntService, lootBoxService *services.LootBoxService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/hunts/active", func(c *fiber.Ctx) error {
		hunts, err := huntService.FindActiveHunts()
		if err != nil {
			return claimErrorResponse(c, err)
		}
		return c.JSON(fiber.Map{"hunts": hunts})
	})

	securedGroup.Get("/hunts/:id/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "25"))

		entries, err := huntService.GetLeaderboard(c.Params("id"), limit)
		if err != nil {
			return claimErrorResponse(c, err)
		}
		return c.JSON(fiber.Map{"leaderboard": entries})
	})

	securedGroup.Get("/lootboxes/nearby", func(c *fiber.Ctx) error {
		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
		if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "valid lat and lng query params are required"})
		}
		radiusKm, _ := strconv.ParseFloat(c.Query("radius_km", "5"), 64)

		boxes, err := lootBoxService.FindNearby(lat, lng, radiusKm)
		if err != nil {
			return claimErrorResponse(c, err)
		}
		return c.JSON(fiber.Map{"loot_boxes": boxes})
	})
}
