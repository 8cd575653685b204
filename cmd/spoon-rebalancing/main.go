package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/banzai-team/spoon-rebalancing/internal/agent"
	"github.com/banzai-team/spoon-rebalancing/internal/attachment"
	"github.com/banzai-team/spoon-rebalancing/internal/cache"
	"github.com/banzai-team/spoon-rebalancing/internal/chat"
	"github.com/banzai-team/spoon-rebalancing/internal/config"
	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/internal/handler"
	"github.com/banzai-team/spoon-rebalancing/internal/repository"
	"github.com/banzai-team/spoon-rebalancing/internal/service"
	"github.com/banzai-team/spoon-rebalancing/pkg/database"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
	"github.com/banzai-team/spoon-rebalancing/pkg/storage"
)

const uploadKeyPrefix = "uploads"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log.Init(log.Config{
		Level:       cfg.Log.Level,
		ServiceName: "spoon-rebalancing",
	})
	logger := log.L()

	// Database
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db,
		&domain.WalletModel{},
		&domain.StrategyModel{},
		&domain.RecommendationModel{},
		&domain.TokenBalanceModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	walletRepo := repository.NewGormWalletRepository(db)
	strategyRepo := repository.NewGormStrategyRepository(db)
	recRepo := repository.NewGormRecommendationRepository(db)
	balanceRepo := repository.NewGormTokenBalanceRepository(db)

	// Agent backend client
	agentClient := agent.NewClient(cfg.Agent.BaseURL, time.Duration(cfg.Agent.Timeout)*time.Second)

	// History cache is optional; the history service falls back to the
	// agent backend on every request when it is absent.
	var histCache cache.HistoryCache
	if cfg.Cache.Enabled {
		histCache, err = cache.NewRedisHistoryCache(cache.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Cache.Prefix)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer histCache.Close()
	}
	historyService := chat.NewHistoryService(agentClient, histCache, time.Duration(cfg.Cache.TTL)*time.Second)

	// Attachment storage
	var store storage.Storage
	var localStore *storage.LocalStorage
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewS3Storage(context.Background(), storage.S3Config{
			Endpoint:        cfg.Storage.S3.Endpoint,
			Region:          cfg.Storage.S3.Region,
			Bucket:          cfg.Storage.S3.Bucket,
			AccessKeyID:     cfg.Storage.S3.AccessKey,
			SecretAccessKey: cfg.Storage.S3.SecretKey,
			UsePathStyle:    cfg.Storage.S3.UsePathStyle,
			PublicURL:       cfg.Storage.S3.PublicURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialise s3 storage")
		}
	case "local":
		localStore, err = storage.NewLocalStorage(storage.LocalConfig{BasePath: cfg.Storage.Local.BasePath})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialise local storage")
		}
		store = localStore
	default:
		logger.Fatal().Str("backend", cfg.Storage.Backend).Msg("unsupported storage backend")
	}
	attachmentService := attachment.NewService(store, uploadKeyPrefix)

	walletService := service.NewWalletService(walletRepo)
	strategyService := service.NewStrategyService(strategyRepo, walletRepo)
	recService := service.NewRecommendationService(recRepo, strategyRepo, agentClient)
	balanceService := service.NewTokenBalanceService(balanceRepo, walletRepo)

	chatHandler := handler.NewChatHandler(agentClient, historyService)
	uploadHandler := handler.NewUploadHandler(attachmentService)
	walletHandler := handler.NewWalletHandler(walletService)
	strategyHandler := handler.NewStrategyHandler(strategyService)
	recHandler := handler.NewRecommendationHandler(recService)
	balanceHandler := handler.NewTokenBalanceHandler(balanceService)

	// Router
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(log.GinMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	chatHandler.RegisterRoutes(router)
	uploadHandler.RegisterRoutes(router)
	walletHandler.RegisterRoutes(router)
	strategyHandler.RegisterRoutes(router)
	recHandler.RegisterRoutes(router)
	balanceHandler.RegisterRoutes(router)

	// Local uploads are served straight from disk. Upload URLs look like
	// /uploads/<stored-name> and the attachment service writes keys under
	// the same prefix, so the route must be rooted at that subdirectory.
	if localStore != nil {
		router.Static("/"+uploadKeyPrefix, filepath.Join(localStore.BasePath(), uploadKeyPrefix))
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("starting spoon-rebalancing")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
