package main

import (
	"context"
	"time"

	"github.com/TeamUpswell/wgw/internal/ai"
	"github.com/TeamUpswell/wgw/internal/auth"
	"github.com/TeamUpswell/wgw/internal/blob"
	"github.com/TeamUpswell/wgw/internal/cache"
	"github.com/TeamUpswell/wgw/internal/config"
	"github.com/TeamUpswell/wgw/internal/database"
	"github.com/TeamUpswell/wgw/internal/handler"
	"github.com/TeamUpswell/wgw/internal/logger"
	"github.com/TeamUpswell/wgw/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

type application struct {
	DB         *pgxpool.Pool
	Logger     *zap.Logger
	Config     *config.Config
	Repository *repository.Repository
	Handler    *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, _ := logger.NewLogger(cfg.Env)
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded, env=%s", cfg.Env)

	pool, err := database.Connect(ctx, cfg.DB.DSN, cfg.DB.MaxConns, cfg.DB.MaxConnLife)
	if err != nil {
		sugar.Fatal(err)
	}
	defer pool.Close()

	redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(ctx, redisClient); err != nil {
		sugar.Fatal(err)
	}

	blobStore, err := blob.NewStore(cfg.Media.Dir, cfg.Media.PublicURL)
	if err != nil {
		sugar.Fatal(err)
	}

	repo := repository.NewRepository(pool)

	h := &handler.Handler{
		Logger:      log,
		Repo:        repo,
		TokenMaker:  auth.NewJWTMaker(cfg.JWT.Secret),
		AccessTTL:   cfg.JWT.AccessTTL,
		RefreshTTL:  cfg.JWT.RefreshTTL,
		Streaks:     cache.NewStreakCache(redisClient, 5*time.Minute),
		TextGen:     ai.NewTextGenClient(cfg.AI.APIKey, cfg.AI.ChatModel, cfg.AI.BaseURL, cfg.AI.Timeout),
		Transcriber: ai.NewTranscribeClient(cfg.AI.APIKey, cfg.AI.TranscribeModel, cfg.AI.BaseURL, cfg.AI.Timeout),
		Blob:        blobStore,
	}

	app := &application{
		DB:         pool,
		Logger:     log,
		Config:     cfg,
		Repository: repo,
		Handler:    h,
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
