package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apirest "github.com/pokechain/arena/api/rest"
	"github.com/pokechain/arena/cache"
	"github.com/pokechain/arena/catalog"
	"github.com/pokechain/arena/config"
	dbadapter "github.com/pokechain/arena/db"
	"github.com/pokechain/arena/game/player"
	"github.com/pokechain/arena/game/progression"
	"github.com/pokechain/arena/ledger"
	mw "github.com/pokechain/arena/middleware"
	"github.com/pokechain/arena/model"
	"github.com/pokechain/arena/scheduler"
	"github.com/pokechain/arena/snapshot"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Catalog ----
	cat := catalog.New(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, c, logger)

	// ---- Ledger ----
	ledgerRNG := rand.New(rand.NewSource(time.Now().UnixNano()))
	led := ledger.New(db, cfg.Ledger.Latency, cfg.Ledger.FailureRate, ledgerRNG, logger)
	defer led.Stop(context.Background())

	// ---- Game Systems ----
	store := snapshot.NewStore(db, logger)
	sessions := player.NewSessionManager(store, logger)
	engine := progression.NewEngine(cat, logger)
	svc := player.NewService(cfg, cat, engine, led, store, c, sessions, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	sched.AddTicker("snapshot_flush", time.Duration(cfg.Game.SaveIntervalS)*time.Second, func() {
		ctx, cancel := contextWithTimeout(30 * time.Second)
		defer cancel()
		if n := sessions.FlushDirty(ctx); n > 0 {
			logger.Info("snapshots flushed", zap.Int("count", n))
		}
	})
	sched.AddTicker("session_eviction", 10*time.Minute, func() {
		ctx, cancel := contextWithTimeout(30 * time.Second)
		defer cancel()
		if n := sessions.EvictIdle(ctx, time.Hour); n > 0 {
			logger.Info("idle sessions evicted", zap.Int("count", n))
		}
	})
	sched.AddDaily("quest_rollover", func() {
		now := time.Now()
		for _, s := range sessions.All() {
			s.Lock()
			if progression.ResetStaleQuests(s.State.Progression, now) {
				s.MarkDirty()
			}
			s.Unlock()
		}
		logger.Info("daily quests rolled over")
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok", "sessions": sessions.Count()})
	})

	ops := r.Group("/ops", mw.IPAllowlist(cfg.Security.AdminIPs))
	ops.GET("/stats", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{
			"sessions": sessions.Count(),
			"tasks":    sched.ListTickers(),
		})
	})
	ops.POST("/flush", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"flushed": sessions.FlushDirty(ctx.Request.Context())})
	})

	// ---- REST API routes ----
	authH := apirest.NewAuthHandler(svc, c, cfg.Security)
	profileH := apirest.NewProfileHandler(svc, logger)
	battleH := apirest.NewBattleHandler(svc, logger)
	teamH := apirest.NewTeamHandler(svc, logger)
	shopH := apirest.NewShopHandler(svc, logger)
	rankH := apirest.NewRankingHandler(svc, logger)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/link", authH.Link)
		authG.POST("/unlink", mw.Auth(cfg.Security, c), authH.Unlink)

		profileG := api.Group("/profile")
		profileG.Use(mw.Auth(cfg.Security, c))
		profileG.POST("", profileH.Create)
		profileG.GET("", profileH.Get)
		profileG.GET("/quests", profileH.Quests)

		startersG := api.Group("/starters")
		startersG.Use(mw.Auth(cfg.Security, c))
		startersG.GET("", profileH.Starters)
		startersG.POST("/choose", profileH.ChooseStarter)

		battleG := api.Group("/battle")
		battleG.Use(mw.Auth(cfg.Security, c))
		battleG.GET("", battleH.State)
		battleG.POST("/start", battleH.Start)
		battleG.POST("/move", battleH.Move)
		battleG.POST("/switch", battleH.Switch)
		battleG.POST("/item", battleH.Item)
		battleG.POST("/run", battleH.Run)
		battleG.POST("/recover", battleH.Recover)
		battleG.GET("/offers", battleH.Offers)
		battleG.POST("/offers/resolve", battleH.ResolveOffer)

		teamG := api.Group("/team")
		teamG.Use(mw.Auth(cfg.Security, c))
		teamG.GET("", teamH.List)
		teamG.POST("/active", teamH.SwitchActive)
		teamG.POST("/item", teamH.UseItem)
		teamG.POST("/heal", teamH.Heal)
		teamG.POST("/promote", teamH.Promote)
		teamG.POST("/demote", teamH.Demote)

		shopG := api.Group("/shop")
		shopG.Use(mw.Auth(cfg.Security, c))
		shopG.GET("/items", shopH.Items)
		shopG.POST("/items/buy", shopH.BuyItem)
		shopG.GET("/market", shopH.Market)
		shopG.POST("/market/buy", shopH.BuyCreature)
		shopG.POST("/market/list", shopH.ListCreature)

		rankG := api.Group("/ranking")
		rankG.GET("/wins", rankH.Leaderboard)
		rankG.GET("/history", mw.Auth(cfg.Security, c), rankH.History)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
