package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sbt-gateway-backend/internal/common/cache"
	"sbt-gateway-backend/internal/common/config"
	"sbt-gateway-backend/internal/common/logger"
	"sbt-gateway-backend/internal/common/middleware"
	blockchainHTTP "sbt-gateway-backend/internal/features/blockchain/delivery/http"
	blockchainService "sbt-gateway-backend/internal/features/blockchain/service"
	tokenHTTP "sbt-gateway-backend/internal/features/token/delivery/http"
	tokenRepo "sbt-gateway-backend/internal/features/token/repository/postgres"
	tokenService "sbt-gateway-backend/internal/features/token/service"
	userHTTP "sbt-gateway-backend/internal/features/user/delivery/http"
	userPostgres "sbt-gateway-backend/internal/features/user/repository/postgres"
	userRedis "sbt-gateway-backend/internal/features/user/repository/redis"
	userService "sbt-gateway-backend/internal/features/user/service"
	"sbt-gateway-backend/internal/platform/db"
	"sbt-gateway-backend/internal/platform/redis"
	"sbt-gateway-backend/internal/platform/relayer"
)

const (
	serviceName = "sbt-gateway-backend"
	version     = "1.0.0"
)

var startedAt = time.Now()

// @title           SBT Gateway API
// @version         1.0
// @description     Backend gateway for soul-bound token issuance, delegation and reward minting through an external relay.

// @host      localhost:8080
// @BasePath  /api/v1

// @tag.name users
// @tag.description User registration and lookup

// @tag.name tokens
// @tag.description Token lifecycle - issuance, delegation, balance checks and reward minting

// @tag.name blockchains
// @tag.description Supported chains reported by the relay

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Debug)

	logger.Info().
		Bool("debug", cfg.Debug).
		Int("port", cfg.Server.Port).
		Msg("Starting SBT gateway backend")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Open(ctx, cfg.Postgres.URL, db.Options{
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
		AutoMigrate:  cfg.Postgres.AutoMigrate,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connection established")

	redisClient, err := redis.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	cacheService := cache.NewCacheService(redisClient.Client)
	logger.Info().Msg("Cache service initialized")

	gateway := relayer.NewGateway(relayer.ClientConfig{
		BaseURL:    cfg.Relayer.BaseURL,
		Timeout:    cfg.Relayer.Timeout,
		MaxRetries: cfg.Relayer.MaxRetries,
	})

	userRepository := userRedis.NewCachedRepository(
		userPostgres.NewPostgresRepository(database), cacheService, cfg.Redis.CacheTTL)
	tokenRepository := tokenRepo.NewPostgresRepository(database)

	userSvc := userService.NewUserService(userRepository, gateway)
	tokenSvc := tokenService.NewTokenService(tokenRepository, userRepository, gateway)
	blockchainSvc := blockchainService.NewBlockchainService(gateway, cacheService, cfg.Redis.CacheTTL)

	logger.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler(cfg.Debug))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	userHTTP.NewUserHandler(userSvc).RegisterRoutes(v1)
	tokenHTTP.NewTokenHandler(tokenSvc).RegisterRoutes(v1)
	blockchainHTTP.NewBlockchainHandler(blockchainSvc).RegisterRoutes(v1)

	registerHealthRoutes(router, database.PingContext, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}, gateway.MockMode())

	logger.Info().Msg("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

type pingFunc func(ctx context.Context) error

func registerHealthRoutes(router *gin.Engine, pingDB, pingRedis pingFunc, mockMode bool) {
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		dbStatus := "ok"
		redisStatus := "ok"
		statusCode := http.StatusOK
		if err := pingDB(ctx); err != nil {
			dbStatus = "unavailable"
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
		if err := pingRedis(ctx); err != nil {
			redisStatus = "unavailable"
			status = "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":    status,
			"service":   serviceName,
			"version":   version,
			"mockMode":  mockMode,
			"uptime":    time.Since(startedAt).String(),
			"database":  dbStatus,
			"redis":     redisStatus,
			"timestamp": time.Now().UTC(),
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := pingDB(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  "postgres unavailable",
			})
			return
		}

		if err := pingRedis(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  "redis unavailable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"service":   serviceName,
			"timestamp": time.Now().UTC(),
		})
	})
}
