package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/yungbote/fincoach-backend/internal/handlers"
  "github.com/yungbote/fincoach-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware        *middleware.AuthMiddleware
  RecommendationHandler *handlers.RecommendationHandler
  ConsentHandler        *handlers.ConsentHandler
  EvaluationHandler     *handlers.EvaluationHandler
  HealthcheckHandler    *handlers.HealthcheckHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("fincoach-backend"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthz", cfg.HealthcheckHandler.Healthz)

// ===============
// || Protected ||
// ===============
  api := router.Group("/api")
  api.Use(cfg.AuthMiddleware.RequireAuth())
  // Consent
  api.POST("/consent/:userID", cfg.ConsentHandler.SetStatus)
  api.GET("/consent/:userID", cfg.ConsentHandler.GetStatus)
  // Recommendations
  api.POST("/recommendations/:userID/assemble", cfg.RecommendationHandler.Assemble)
  api.POST("/recommendations/:userID/education", cfg.RecommendationHandler.Education)
  api.GET("/recommendations/:userID/latest", cfg.RecommendationHandler.GetLatest)
  api.GET("/recommendations/:userID", cfg.RecommendationHandler.GetAll)
  // Evaluation (operator)
  api.POST("/evaluation/run", cfg.EvaluationHandler.Run)

  return router
}
