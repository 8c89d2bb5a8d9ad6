package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mevlabs/engagement-backend/internal/handlers"
	"github.com/mevlabs/engagement-backend/internal/middleware"
)

type RouterConfig struct {
	ProtocolRunHandler *handlers.ProtocolRunHandler
	CheckInHandler     *handlers.CheckInHandler
	RewardsHandler     *handlers.RewardsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID())

	router.GET("/healthcheck", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		runs := v1.Group("/protocol-runs")
		runs.POST("", cfg.ProtocolRunHandler.Create)
		runs.GET("/:id", cfg.ProtocolRunHandler.Get)
		runs.POST("/:id/artifacts/:artifact_key", cfg.ProtocolRunHandler.SubmitArtifact)
		runs.POST("/:id/generate-interventions", cfg.ProtocolRunHandler.GenerateInterventions)
		runs.POST("/:id/advance-phase", cfg.ProtocolRunHandler.AdvancePhase)
		runs.GET("/:id/timeline", cfg.ProtocolRunHandler.Timeline)

		checkIns := v1.Group("/check-ins")
		checkIns.GET("", cfg.CheckInHandler.List)
		checkIns.GET("/:id", cfg.CheckInHandler.Get)
		checkIns.POST("", cfg.CheckInHandler.Create)

		v1.GET("/rewards/balance", cfg.RewardsHandler.Balance)

		users := v1.Group("/users/:user_id")
		users.GET("/badges", cfg.RewardsHandler.UserBadges)
		users.GET("/streaks", cfg.RewardsHandler.UserStreaks)
	}

	return router
}
