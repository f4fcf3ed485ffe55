// wgwd is the background sync daemon. It keeps a local action queue on disk,
// watches API reachability and session expiry, and drains queued journal
// actions whenever connectivity returns.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TeamUpswell/wgw/internal/client"
	"github.com/TeamUpswell/wgw/internal/config"
	"github.com/TeamUpswell/wgw/internal/localdb"
	"github.com/TeamUpswell/wgw/internal/logger"
	"github.com/TeamUpswell/wgw/internal/netmon"
	"github.com/TeamUpswell/wgw/internal/offline"
	"github.com/TeamUpswell/wgw/internal/session"
	"github.com/TeamUpswell/wgw/internal/syncer"
	"github.com/TeamUpswell/wgw/pkg"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg, err := config.LoadDaemon()
	if err != nil {
		panic(err)
	}

	log, _ := logger.NewLogger(os.Getenv("APP_ENV"))
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infow("wgwd starting", "api", cfg.APIBaseURL, "data_dir", cfg.DataDir)

	crypto, err := pkg.NewCrypto(cfg.CryptoKey)
	if err != nil {
		sugar.Fatal(err)
	}

	db, err := localdb.Open(cfg.DataDir, crypto)
	if err != nil {
		sugar.Fatal(err)
	}
	defer db.Close()

	api := client.New(cfg.APIBaseURL, 30*time.Second)
	if cached, ok, err := db.LoadSession(); err != nil {
		sugar.Warnw("cached session unreadable, starting signed out", "err", err)
	} else if ok {
		api.SetSession(cached)
		sugar.Infow("session restored", "user", cached.Email)
	}

	queue, err := offline.NewQueue(db)
	if err != nil {
		sugar.Fatal(err)
	}
	sugar.Infow("offline queue loaded", "actions", queue.Len())

	engine := syncer.New(queue, api, sugar)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := session.New(api, db, session.Config{
		Interval:    cfg.SessionInterval,
		Threshold:   cfg.RefreshThreshold,
		Cooldown:    cfg.RefreshCooldown,
		Backoff:     cfg.RefreshBackoff,
		MaxAttempts: 3,
	}, func() {
		api.SetSession(client.Session{})
		sugar.Warnw("signed out, session terminated server-side")
	}, sugar)

	network := netmon.New(api.Healthz, cfg.ProbeInterval, cfg.SettleDelay, func() {
		engine.Drain(ctx)
	}, sugar)

	go sessions.Run(ctx)
	go network.Run(ctx)

	<-ctx.Done()
	sugar.Infow("wgwd shutting down", "queued", queue.Len())
}
