package api

import (
	"log"
	"strings"

	"RestaurantAdviser/api/config"
	"RestaurantAdviser/api/controllers"
	"RestaurantAdviser/api/jobs"
	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/seed"
)

var server = controllers.Server{}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logging.Init(cfg.LogLevel); err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logging.Sync()

	if err := server.Initialize(cfg); err != nil {
		logging.L().Fatalw("cannot initialize server", "error", err)
	}

	if cfg.SeedDemo {
		if err := seed.Load(server.DB); err != nil {
			logging.L().Errorw("seeding demo data failed", "error", err)
		}
	}

	scheduler := jobs.New(server.DB, cfg.TournamentStaleAfter)
	if err := scheduler.Start(); err != nil {
		logging.L().Fatalw("cannot start background jobs", "error", err)
	}
	defer scheduler.Stop()

	addr := ":" + strings.TrimSpace(cfg.Port)
	logging.L().Infow("listening", "addr", addr, "env", cfg.AppEnv)
	if err := server.Run(addr); err != nil {
		logging.L().Fatalw("server stopped", "error", err)
	}
}
