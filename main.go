package main

import (
	"log"

	"partygames/config"
	"partygames/handlers"
	"partygames/middleware"
	"partygames/models"
	"partygames/routes"
	"partygames/services"
	"partygames/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize the backing store. Postgres holds sessions, players, answers
	// and admin accounts; Redis holds the live round documents. The memory
	// driver runs everything in-process for local development.
	var st store.Store
	switch cfg.StoreDriver {
	case "memory":
		st = store.NewMemory()
	default:
		db, err := config.InitDB(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		err = db.AutoMigrate(
			&models.Admin{},
			&models.Session{},
			&models.Player{},
			&models.Answer{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}

		redisClient := config.InitRedis(cfg)
		st = store.NewPersistent(db, redisClient)
	}

	// Initialize the event bus and services
	bus := services.NewBus()
	authService := services.NewAuthService(st, cfg.JWTSecret)
	sessionService := services.NewSessionService(st)
	registryService := services.NewRegistryService(st, bus)
	roundService := services.NewRoundService(st, bus)
	answerService := services.NewAnswerService(st, bus)
	scoringService := services.NewScoringService(st, bus)
	categoryService := services.NewCategoryService(cfg.CategoryEndpoint, cfg.CategoryAPIKey, cfg.CategoryModel)

	// Initialize WebSocket hub
	hub := services.NewHub(bus)
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(sessionService, registryService, roundService, scoringService, categoryService)
	playerHandler := handlers.NewPlayerHandler(sessionService, registryService, answerService, roundService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS and metrics middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	// Setup routes
	routes.SetupRoutes(router, authHandler, adminHandler, playerHandler, hub, registryService, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
