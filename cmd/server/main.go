// Package main runs the team matching platform HTTP server with
// WebSocket feed and graceful shutdown.
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

	"github.com/teamup/backend/config"
	"github.com/teamup/backend/internal/auth"
	"github.com/teamup/backend/internal/matching"
	"github.com/teamup/backend/internal/middleware"
	"github.com/teamup/backend/internal/projects"
	"github.com/teamup/backend/internal/realtime"
	"github.com/teamup/backend/pkg/database"
	"github.com/teamup/backend/pkg/redis"
	"github.com/teamup/backend/pkg/response"
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
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Projects
	projectRepo := projects.NewRepository(pool)
	projectHandler := projects.NewHandler(projectRepo, logger)

	// Matching
	store := matching.NewPostgresStore(pool)
	engine := matching.NewEngine(store, logger)
	matchingHandler := matching.NewHandler(engine, hub, logger)

	jwtValidate := func(token string) (userID string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", err
		}
		return claims.UserID.String(), nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

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
		// Users
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)
		api.GET("/users/:id", authHandler.GetProfile)

		// Projects
		api.GET("/projects", projectHandler.List)
		api.GET("/projects/mine", projectHandler.ListMine)
		api.GET("/projects/:id", projectHandler.GetByID)
		api.POST("/projects", middleware.RequireRole("admin"), projectHandler.Create)
		api.PUT("/projects/:id", middleware.RequireRole("admin"), projectHandler.Update)
		api.DELETE("/projects/:id", middleware.RequireRole("admin"), projectHandler.Delete)

		// Participation
		api.POST("/projects/:id/participation", matchingHandler.ApplyToProject)
		api.DELETE("/projects/:id/participation", matchingHandler.CancelParticipation)

		// Teams
		api.POST("/projects/:id/teams", matchingHandler.CreateTeam)
		api.GET("/projects/:id/teams", matchingHandler.ListOpenTeams)
		api.POST("/teams/:id/applications", matchingHandler.ApplyToTeam)
		api.POST("/teams/:id/accept/:userId", matchingHandler.AcceptApplicant)
		api.POST("/teams/:id/reject/:userId", matchingHandler.RejectApplicant)
		api.POST("/teams/:id/confirm", matchingHandler.ConfirmTeam)
		api.DELETE("/teams/:id/membership", matchingHandler.LeaveTeam)
		api.GET("/teams/applications", matchingHandler.ListApplicantsForLeader)
		api.GET("/applications/mine", matchingHandler.ListMyApplications)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

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
