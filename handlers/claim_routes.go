// handlers/claim_routes.go
package handlers

import (
	"errors"
	"strconv"

	"loot-hunt-system/middleware"
	"loot-hunt-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupClaimRoutes(app *fiber.App, claimService *services.ClaimService) {
	// 🔐 Secured routes — require user context (userID) forwarded by the gateway
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/claims", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req services.CreateClaimRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.LootBoxID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "loot_box_id is required"})
		}
		if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coordinates"})
		}

		// Fill transport-level fingerprint fields when the client didn't
		if req.IPAddress == "" {
			req.IPAddress = c.IP()
		}
		if req.UserAgent == "" {
			req.UserAgent = c.Get("User-Agent")
		}

		claim, err := claimService.CreateClaim(userID, req)
		if err != nil {
			return claimErrorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(claim)
	})

	securedGroup.Get("/claims", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		list, err := claimService.ListClaims(userID, page, limit)
		if err != nil {
			return claimErrorResponse(c, err)
		}
		return c.JSON(list)
	})

	securedGroup.Patch("/claims/:id/redeem", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		claimID := c.Params("id")

		claim, err := claimService.RedeemClaim(claimID, userID)
		if err != nil {
			return claimErrorResponse(c, err)
		}
		return c.JSON(claim)
	})
}

// claimErrorResponse maps service error kinds onto HTTP statuses and puts the
// kind plus its context fields in the body so clients can render exact
// messages (remaining wait, distance).
func claimErrorResponse(c *fiber.Ctx, err error) error {
	var cerr *services.ClaimError
	if !errors.As(err, &cerr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	var status int
	switch cerr.Kind {
	case services.KindNotFound:
		status = fiber.StatusNotFound
	case services.KindTooFar:
		status = fiber.StatusForbidden
	case services.KindRateLimited:
		status = fiber.StatusTooManyRequests
	case services.KindConflict:
		status = fiber.StatusConflict
	case services.KindInfra:
		status = fiber.StatusInternalServerError
	default:
		// ALREADY_CLAIMED, INACTIVE, HUNT_NOT_STARTED, HUNT_ENDED,
		// CAPACITY_EXCEEDED, ALREADY_REDEEMED
		status = fiber.StatusBadRequest
	}

	body := fiber.Map{
		"error": cerr.Message,
		"kind":  cerr.Kind,
	}
	if cerr.WaitSeconds > 0 {
		body["wait_seconds"] = cerr.WaitSeconds
	}
	if cerr.Kind == services.KindTooFar {
		body["distance_meters"] = cerr.DistanceMeters
		body["radius_meters"] = cerr.RadiusMeters
	}
	return c.Status(status).JSON(body)
}
