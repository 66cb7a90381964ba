// Package main runs the scheduling backend HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/schedulrr/backend/config"
	"github.com/schedulrr/backend/internal/auth"
	"github.com/schedulrr/backend/internal/bookings"
	"github.com/schedulrr/backend/internal/emaillogs"
	"github.com/schedulrr/backend/internal/events"
	"github.com/schedulrr/backend/internal/google"
	"github.com/schedulrr/backend/internal/middleware"
	"github.com/schedulrr/backend/pkg/database"
	"github.com/schedulrr/backend/pkg/queue"
	"github.com/schedulrr/backend/pkg/redis"
	"github.com/schedulrr/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Events
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo)

	// Google Calendar integration
	oauthCfg := google.OAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	tokenStore := google.NewStore(pool)
	gateway := google.NewGateway(tokenStore, oauthCfg, logger)
	googleHandler := google.NewHandler(tokenStore, oauthCfg, rdb.Client, logger)

	// Bookings
	bookingRepo := bookings.NewRepository(pool)
	notifier := bookings.NewQueueNotifier(jobQueue)
	bookingService := bookings.NewService(eventRepo, bookingRepo, gateway, notifier, logger)
	bookingHandler := bookings.NewHandler(bookingService, bookingRepo, eventRepo, logger)

	// Email logs
	emailLogsRepo := emaillogs.NewRepository(pool)
	emailLogsHandler := emaillogs.NewHandler(emailLogsRepo, eventRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public: booking page endpoints and OAuth callback
	router.GET("/users/:username/events", eventHandler.ListPublic)
	router.GET("/events/:id", eventHandler.GetByID)
	router.POST("/events/:id/bookings", bookingHandler.Create)
	router.GET("/integrations/google/callback", googleHandler.Callback)

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/auth/me", authHandler.Me)

		// Events
		api.GET("/events", eventHandler.List)
		api.POST("/events", eventHandler.Create)
		api.PATCH("/events/:id", eventHandler.Update)
		api.DELETE("/events/:id", eventHandler.Delete)
		api.GET("/events/:id/stats", bookingHandler.Stats)
		api.GET("/events/:id/emails", emailLogsHandler.ListByEvent)

		// Bookings
		api.GET("/events/:id/bookings", bookingHandler.ListByEvent)
		api.GET("/bookings", bookingHandler.ListMine)

		// Calendar integration
		api.GET("/integrations/google/connect", googleHandler.Connect)
		api.GET("/integrations/google/status", googleHandler.Status)
		api.DELETE("/integrations/google", googleHandler.Disconnect)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
