package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/yungbote/fincoach-backend/internal/logger"
  "github.com/yungbote/fincoach-backend/internal/utils"
  "github.com/yungbote/fincoach-backend/internal/observability"
  "github.com/yungbote/fincoach-backend/internal/db"
  "github.com/yungbote/fincoach-backend/internal/repos"
  "github.com/yungbote/fincoach-backend/internal/catalog"
  "github.com/yungbote/fincoach-backend/internal/signals"
  "github.com/yungbote/fincoach-backend/internal/eligibility"
  "github.com/yungbote/fincoach-backend/internal/tone"
  "github.com/yungbote/fincoach-backend/internal/personalization"
  "github.com/yungbote/fincoach-backend/internal/ranking"
  "github.com/yungbote/fincoach-backend/internal/matching"
  "github.com/yungbote/fincoach-backend/internal/rationale"
  "github.com/yungbote/fincoach-backend/internal/assembly"
  redisclient "github.com/yungbote/fincoach-backend/internal/clients/redis"
  "github.com/yungbote/fincoach-backend/internal/services"
  "github.com/yungbote/fincoach-backend/internal/handlers"
  "github.com/yungbote/fincoach-backend/internal/middleware"
  "github.com/yungbote/fincoach-backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  contentCatalogPath := utils.GetEnv("CONTENT_CATALOG_PATH", "configs/content_catalog.yaml", log)
  offerCatalogPath := utils.GetEnv("OFFER_CATALOG_PATH", "configs/partner_offers.yaml", log)
  strictCatalogIDs := utils.GetEnvAsBool("CATALOG_STRICT_IDS", false, log)
  retention := utils.GetEnvAsInt("RECOMMENDATION_RETENTION", 10, log)
  cacheTTL := utils.GetEnvAsInt("RECOMMENDATION_CACHE_TTL", 3600, log)
  gradeCeiling := utils.GetEnvAsFloat("TONE_GRADE_CEILING", tone.DefaultGradeCeiling, log)

  // Tracing
  otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "fincoach-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  defer otelShutdown(context.Background())

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Catalogs (fail fast: a malformed catalog must never serve)
  log.Info("Loading catalogs from main...")
  contentCatalog, offerCatalog, err := catalog.LoadCatalogs(
    context.Background(),
    contentCatalogPath,
    offerCatalogPath,
    log,
    catalog.LoaderOptions{StrictIDs: strictCatalogIDs},
  )
  if err != nil {
    log.Error("Catalog load failed", "error", err)
    os.Exit(1)
  }

  // Repos
  log.Info("Setting up Repos from main...")
  consentRepo := repos.NewConsentRepo(thePG, log)
  setRepo := repos.NewRecommendationSetRepo(thePG, log)

  // Pipeline engines
  log.Info("Setting up pipeline engines from main...")
  signalRegistry := signals.DefaultRegistry()
  checker := eligibility.NewChecker(log)
  toneValidator := tone.NewValidator(log, gradeCeiling, tone.FleschKincaid{})
  personalizer := personalization.NewEngine(log, signalRegistry)
  personalizer.ValidateTemplates(contentCatalog.AllItems())
  ranker := ranking.NewEngine(log)
  matcher := matching.NewMatcher(log, contentCatalog, offerCatalog, checker)
  rationaleGen := rationale.NewGenerator(log)
  assembler := assembly.NewAssembler(log, matcher, personalizer, toneValidator, ranker, rationaleGen)

  // Redis (optional: reads fall back to Postgres when absent)
  setCache, err := redisclient.NewSetCache(log, time.Duration(cacheTTL)*time.Second)
  if err != nil {
    log.Warn("Redis init failed, serving without cache", "error", err)
    setCache = nil
  }

  // Services
  log.Info("Setting up Services from main...")
  consentService := services.NewConsentService(log, consentRepo)
  recommendationService := services.NewRecommendationService(log, assembler, matcher, consentService, setRepo, setCache, retention)
  evaluationService := services.NewEvaluationService(log, assembler)

  // Handlers
  log.Info("Setting up handlers from main...")
  recommendationHandler := handlers.NewRecommendationHandler(log, recommendationService)
  consentHandler := handlers.NewConsentHandler(log, consentService)
  evaluationHandler := handlers.NewEvaluationHandler(log, evaluationService)
  healthcheckHandler := handlers.NewHealthcheckHandler()

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:        authMiddleware,
    RecommendationHandler: recommendationHandler,
    ConsentHandler:        consentHandler,
    EvaluationHandler:     evaluationHandler,
    HealthcheckHandler:    healthcheckHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed: %v", err)
  }
}
