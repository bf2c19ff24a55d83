package routes

import (
	"log"
	"net/http"
	"strings"

	"partygames/handlers"
	"partygames/middleware"
	"partygames/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	playerHandler *handlers.PlayerHandler,
	hub *services.Hub,
	registry *services.RegistryService,
	jwtSecret string,
) {
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Admin game-control routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtSecret))
		{
			admin.POST("/sessions", adminHandler.CreateSession)
			admin.POST("/sessions/:code/players", adminHandler.SeedPlayers)
			admin.POST("/sessions/:code/round/start", adminHandler.StartRound)
			admin.POST("/sessions/:code/round/pause", adminHandler.PauseRound)
			admin.POST("/sessions/:code/round/resume", adminHandler.ResumeRound)
			admin.POST("/sessions/:code/round/end", adminHandler.EndRound)
			admin.POST("/sessions/:code/round/advance", adminHandler.AdvanceQuestion)
			admin.PUT("/sessions/:code/round/prompt", adminHandler.SetPrompt)
			admin.PUT("/sessions/:code/board", adminHandler.SetupBoard)
			admin.PUT("/sessions/:code/round/double", adminHandler.SetDoubleRound)
			admin.PUT("/sessions/:code/round/final", adminHandler.SetFinalRound)
			admin.POST("/sessions/:code/reset", adminHandler.ResetGame)
			admin.GET("/sessions/:code/scores/auto", adminHandler.AutoScores)
			admin.POST("/sessions/:code/scores/commit", adminHandler.CommitScores)
			admin.POST("/sessions/:code/judge", adminHandler.JudgeQuestion)
			admin.POST("/sessions/:code/scores/adjust", adminHandler.AdjustScore)
			admin.POST("/categories/generate", adminHandler.GenerateCategory)
		}

		// Public player routes
		sessions := api.Group("/sessions")
		{
			sessions.POST("/:code/join", playerHandler.Join)
			sessions.GET("/:code", playerHandler.GetSession)
			sessions.POST("/:code/answer", playerHandler.SubmitAnswer)
			sessions.POST("/:code/wager", playerHandler.SubmitWager)
		}
	}

	// WebSocket endpoint for real-time state fan-out. The player key is
	// optional: the admin screen connects with "-" to watch everything
	// without a player topic.
	router.GET("/ws/:code/:playerKey", func(c *gin.Context) {
		code := strings.ToLower(c.Param("code"))
		playerKey := c.Param("playerKey")
		if playerKey == "-" {
			playerKey = ""
		}

		if playerKey != "" {
			if _, err := registry.Lookup(c.Request.Context(), code, playerKey); err != nil {
				log.Printf("WebSocket rejected for session %s, player %q: %v", code, playerKey, err)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Player not found in session"})
				return
			}
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for session %s, player %q: %v", code, playerKey, err)
			return
		}

		hub.RegisterClient(conn, code, services.PlayerKey(playerKey))
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
