package main

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cppla/consigliere/config"
	"github.com/cppla/consigliere/metrics"
	"github.com/cppla/consigliere/routes"
	"github.com/cppla/consigliere/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(cfg, config.Models()...)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	rdb := utils.NewRedis(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	r := routes.SetupRouter(cfg, routes.Dependencies{DB: db, Redis: rdb})

	// Sweep profile pictures orphaned by replaced or deleted accounts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	utils.StartUploadCleaner(ctx, db, cfg.UploadDir, time.Hour)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
