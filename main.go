package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/starscape/town-server/cache"
	"github.com/starscape/town-server/handlers"
	"github.com/starscape/town-server/repository"
	"github.com/starscape/town-server/services"
	"github.com/starscape/town-server/storage"
	"github.com/starscape/town-server/workers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		AppName: "starscape-town-server",
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-User-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Backend selection happens exactly once, here, from explicit config.
	store, err := storage.Open(storage.ConfigFromEnv())
	if err != nil {
		log.Fatal("failed to open storage backend: ", err)
	}

	gameCache := cache.New()
	repo := repository.New(store, gameCache)

	gameService := services.NewGameService(repo)
	adminService := services.NewAdminService(repo)

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		log.Println("⚠️  ADMIN_TOKEN not set — admin routes will reject every request")
	}

	handlers.SetupGameRoutes(app, gameService)
	handlers.SetupAdminRoutes(app, adminService, adminToken)

	sched, err := workers.StartMaintenance(gameCache, store)
	if err != nil {
		log.Fatal("failed to start maintenance jobs: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Cache sweep running (every 5m)")
	log.Println("✅ Stale-mission reaper running (every 1m)")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := sched.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
