package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/auth"
	"github.com/SAP-F-2025/practice-service/internal/cache"
	"github.com/SAP-F-2025/practice-service/internal/config"
	"github.com/SAP-F-2025/practice-service/internal/events"
	"github.com/SAP-F-2025/practice-service/internal/handlers"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/repositories/memory"
	"github.com/SAP-F-2025/practice-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/practice-service/internal/seed"
	"github.com/SAP-F-2025/practice-service/internal/services"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/SAP-F-2025/practice-service/internal/validator"
	"github.com/SAP-F-2025/practice-service/pkg"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.NopLogger,

		// Core
		fx.Provide(
			config.LoadConfig,
			NewLogger,
			utils.ToSlogLogger,
			validator.New,
			NewGinEngine,
		),

		// Infrastructure
		fx.Provide(
			NewRepository,
			NewCache,
			NewEventPublisher,
		),

		// Services
		fx.Provide(
			func(cfg *config.Config, repo repositories.Repository, c cache.CacheService, p events.EventPublisher, l *slog.Logger, v *validator.Validator) services.QuestionService {
				return services.NewQuestionService(repo, c, p, l, v, cfg.CacheTTL)
			},
			services.NewGradingService,
			services.NewStatsService,
			NewAuthService,
			services.NewImportExportService,
			services.NewServiceManager,
		),

		// HTTP
		fx.Provide(
			func(sm services.ServiceManager, repo repositories.Repository, l utils.Logger) *handlers.HandlerManager {
				return handlers.NewHandlerManager(sm, repo, l)
			},
		),

		fx.Invoke(SeedQuestions, ResetQuestionCache, RegisterRoutesAndStartServer),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		slog.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	<-app.Done()
	slog.Info("Application shutting down")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		slog.Error("Failed to stop application cleanly", "error", err)
	}
}

func NewLogger(cfg *config.Config) utils.Logger {
	logger := utils.NewLogger(cfg.Environment)
	slog.SetDefault(utils.ToSlogLogger(logger))
	return logger
}

// NewRepository opens the configured store. The memory driver keeps all data
// in process and is meant for local runs.
func NewRepository(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (repositories.Repository, error) {
	if cfg.DatabaseDriver == "memory" {
		logger.Info("Using in-memory store")
		return memory.NewRepository(), nil
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := pkg.AutoMigrate(db); err != nil {
		return nil, err
	}

	repo := postgres.NewRepository(db)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return repo.Close()
		},
	})
	logger.Info("Connected to postgres")
	return repo, nil
}

func NewCache(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (cache.CacheService, error) {
	if !cfg.CacheEnabled {
		return cache.NewNoopCache(), nil
	}

	client, err := pkg.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	logger.Info("Question cache enabled", "ttl", cfg.CacheTTL)
	return cache.NewRedisCache(client, logger), nil
}

func NewEventPublisher(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (events.EventPublisher, error) {
	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

// NewAuthService issues local HS256 tokens unless AUTH_PROVIDER=casdoor, in
// which case tokens come from Casdoor and users are mirrored on first use.
func NewAuthService(cfg *config.Config, repo repositories.Repository, logger *slog.Logger, v *validator.Validator) services.AuthService {
	if cfg.AuthProvider == "casdoor" {
		verifier := auth.NewUserSyncVerifier(auth.NewCasdoorVerifier(cfg.Casdoor), repo.User())
		logger.Info("Using Casdoor token verification", "endpoint", cfg.Casdoor.Endpoint)
		return services.NewAuthService(repo, nil, verifier, cfg.AdminEmails, logger, v)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenExpire)
	return services.NewAuthService(repo, jwtManager, jwtManager, cfg.AdminEmails, logger, v)
}

func NewGinEngine(cfg *config.Config, logger utils.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.ContextLogger(logger))
	r.Use(utils.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	return r
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", utils.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", utils.RequestIDHeader},
		MaxAge:           12 * time.Hour,
		AllowCredentials: true,
	}

	if slices.Contains(origins, "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
		return corsCfg
	}

	corsCfg.AllowOrigins = origins
	corsCfg.AllowWildcard = true
	corsCfg.AllowBrowserExtensions = true
	return corsCfg
}

func SeedQuestions(lc fx.Lifecycle, cfg *config.Config, repo repositories.Repository, v *validator.Validator, logger *slog.Logger) {
	if !cfg.SeedOnStartup {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return seed.Questions(ctx, repo, v, logger)
		},
	})
}

// ResetQuestionCache drops cached questions left by a previous process. The
// memory store restarts ids at 1, so old entries would shadow new rows.
func ResetQuestionCache(lc fx.Lifecycle, c cache.CacheService, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := c.DeletePattern(ctx, cache.QuestionPattern()); err != nil {
				logger.Warn("Failed to reset question cache", "error", err)
			}
			return nil
		},
	})
}

// RegisterRoutesAndStartServer wires the routes and ties the HTTP server to
// the application lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	router *gin.Engine,
	hm *handlers.HandlerManager,
	logger utils.Logger,
) {
	hm.SetupRoutes(router, cfg.APIPrefix)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Server starting", "name", cfg.ProjectName, "port", cfg.Port, "environment", cfg.Environment)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.LogError(err, "Server ListenAndServe failed")
					os.Exit(1)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Server shutting down")
			return server.Shutdown(ctx)
		},
	})
}
