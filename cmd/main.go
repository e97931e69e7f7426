package main

import (
	"fmt"
	"os"

	"github.com/webmediarec/backend/internal/config"
	"github.com/webmediarec/backend/internal/db"
	"github.com/webmediarec/backend/internal/handlers"
	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/recommender"
	"github.com/webmediarec/backend/internal/repos"
	"github.com/webmediarec/backend/internal/server"
	"github.com/webmediarec/backend/internal/services"
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

	// Config
	log.Info("Loading configuration...")
	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal("Config load failed", "error", err)
	}

	// Database
	dbService, err := db.New(cfg, log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Auto migration failed", "error", err)
	}
	theDB := dbService.DB()

	// Model: load-once-at-startup, usable-or-absent thereafter. The selector
	// receives the handle explicitly; a missing model just disables the
	// learned engine.
	var model recommender.Model
	if cfg.ModelPath != "" {
		loaded, err := recommender.LoadEmbeddingClassifier(cfg.ModelPath)
		if err != nil {
			log.Warn("Model load failed, learned engine disabled", "error", err, "path", cfg.ModelPath)
		} else {
			log.Info("Model loaded", "path", cfg.ModelPath,
				"num_users", loaded.NumUsers(), "num_items", loaded.NumItems())
			model = loaded
		}
	} else {
		log.Info("No MODEL_PATH configured, learned engine disabled")
	}

	// Repos
	log.Info("Setting up repos...")
	catalogRepo := repos.NewCatalogRepo(theDB, log)
	userRepo := repos.NewUserRepo(theDB, log)
	itemRepo := repos.NewItemRepo(theDB, log)
	interactionRepo := repos.NewInteractionRepo(theDB, log)
	impressionRepo := repos.NewImpressionRepo(theDB, log)
	engagementRepo := repos.NewEngagementRepo(theDB, log)

	// Services
	log.Info("Setting up services...")
	selector := recommender.NewSelector(catalogRepo, model, cfg.CandidatePoolLimit, log)
	recSvc := services.NewRecommendationService(theDB, log, selector, catalogRepo, impressionRepo)
	engSvc := services.NewEngagementService(theDB, log, impressionRepo, engagementRepo)
	metricsSvc := services.NewMetricsService(log, impressionRepo, engagementRepo)
	catalogSvc := services.NewCatalogService(theDB, log, userRepo, itemRepo, interactionRepo)

	// Router
	router := server.NewRouter(server.RouterConfig{
		CORSOrigins:           cfg.CORSOrigins,
		HealthHandler:         handlers.NewHealthHandler(cfg.AppName, cfg.AppEnv),
		RecommendationHandler: handlers.NewRecommendationHandler(log, recSvc),
		EngagementHandler:     handlers.NewEngagementHandler(log, engSvc),
		MetricsHandler:        handlers.NewMetricsHandler(log, metricsSvc),
		DebugHandler:          handlers.NewDebugHandler(log, catalogSvc),
	})

	log.Info("Starting HTTP server", "addr", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("HTTP server exited", "error", err)
	}
}
