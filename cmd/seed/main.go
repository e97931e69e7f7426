package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/webmediarec/backend/internal/config"
	"github.com/webmediarec/backend/internal/db"
	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/repos"
	"github.com/webmediarec/backend/internal/seed"
)

func main() {
	var (
		outDir   = flag.String("out-dir", "data/movielens", "where to download and extract the dataset")
		url      = flag.String("url", seed.DefaultDatasetURL, "dataset archive URL")
		platform = flag.String("platform", "web", "platform recorded on seeded interactions (web|mobile)")
		force    = flag.Bool("force", false, "re-download and re-extract")
		reset    = flag.Bool("reset", false, "clear tables before seeding")
		skipDL   = flag.Bool("skip-download", false, "assume the dataset is already extracted under out-dir")
	)
	flag.Parse()

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

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal("Config load failed", "error", err)
	}

	dbService, err := db.New(cfg, log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Auto migration failed", "error", err)
	}
	theDB := dbService.DB()

	ctx := context.Background()

	datasetDir := *outDir + "/ml-100k"
	if !*skipDL {
		datasetDir, err = seed.Fetch(ctx, *url, *outDir, *force, log)
		if err != nil {
			log.Fatal("Dataset fetch failed", "error", err)
		}
	}

	seeder := seed.NewSeeder(
		theDB,
		log,
		repos.NewUserRepo(theDB, log),
		repos.NewItemRepo(theDB, log),
		repos.NewInteractionRepo(theDB, log),
	)
	if err := seeder.Seed(ctx, datasetDir, *platform, *reset); err != nil {
		log.Fatal("Seeding failed", "error", err)
	}
	log.Info("Seeding complete")
}
