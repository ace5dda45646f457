package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"loot-hunt-system/handlers"
	"loot-hunt-system/middleware"
	"loot-hunt-system/models"
	"loot-hunt-system/services"
	"loot-hunt-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, X-User-ID, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// TranslateError lets the claim commit distinguish duplicate-key
	// violations (gorm.ErrDuplicatedKey) from other storage failures.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Business{},
		&models.Hunt{},
		&models.LootBox{},
		&models.Claim{},
		&models.LeaderboardEntry{},
		&models.HuntUser{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	claimService := services.NewClaimService(db, loadClaimConfig())
	lootBoxService := services.NewLootBoxService(db)
	huntService := services.NewHuntService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Profile mirror sync (leaderboard display names) ---
	if syncServiceURL := os.Getenv("SYNC_SERVICE_URL"); syncServiceURL != "" {
		serviceToken := os.Getenv("LOOT_SERVICE_TOKEN")
		syncWorker := workers.NewUserSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", serviceToken)
		syncWorker.Start(ctx)
	} else {
		log.Println("⚠️  SYNC_SERVICE_URL not set — leaderboards will show user ids without display names")
	}

	huntService.StartLifecycleScheduler()

	// ✅ Setup routes — enforced Gateway auth + user context per route group
	handlers.SetupClaimRoutes(app, claimService)
	handlers.SetupHuntRoutes(app, huntService, lootBoxService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Hunt lifecycle scheduler running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// loadClaimConfig reads the claim core tunables: 60s velocity window, GPS
// enforcement on, and 10 points per claim unless overridden.
func loadClaimConfig() services.ClaimConfig {
	cfg := services.DefaultClaimConfig()

	if v := os.Getenv("CLAIM_VELOCITY_LIMIT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.VelocityLimitSeconds = n
		} else {
			log.Printf("⚠️  Invalid CLAIM_VELOCITY_LIMIT_SECONDS=%q, keeping default %d", v, cfg.VelocityLimitSeconds)
		}
	}

	if strings.EqualFold(os.Getenv("MOCK_GPS_VERIFICATION"), "true") {
		cfg.SkipGPSVerification = true
		log.Println("⚠️  MOCK_GPS_VERIFICATION enabled — proximity checks are OFF, never run this in production")
	}

	if v := os.Getenv("BASE_CLAIM_SCORE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.BaseClaimScore = n
		} else {
			log.Printf("⚠️  Invalid BASE_CLAIM_SCORE=%q, keeping default %d", v, cfg.BaseClaimScore)
		}
	}

	return cfg
}
