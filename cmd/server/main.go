package main

import (
	"context"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/app"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/cache"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/config"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/logger"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/server"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	services := server.NewServices(appCtx)
	router := server.NewRouter(appCtx, services)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, router); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
