package router

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/newsfeed/backend/internal/fanout"
	"github.com/anonto42/newsfeed/backend/internal/handlers"
	"github.com/anonto42/newsfeed/backend/internal/middleware"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the handles SetupRoutes wires into repositories and services
type Deps struct {
	Postgres *gorm.DB
	Mongo    *mongo.Database
	Redis    *redis.Client // optional, enables the trending cache

	// FirebaseAuth verifies Firebase ID tokens; nil disables Firebase login.
	FirebaseAuth services.TokenVerifier

	Queue    fanout.Queue
	Metrics  *telemetry.Metrics
	Gatherer prometheus.Gatherer
	Log      *zap.Logger

	ServiceName      string
	JWTSecret        string
	JWTTTL           time.Duration
	TrendingCacheTTL time.Duration
}

// Migrate creates the PostgreSQL tables and the MongoDB indexes
func Migrate(ctx context.Context, pgdb *gorm.DB, mdb *mongo.Database) error {
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := repositories.NewMongoContentRepository(mdb).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure content indexes: %w", err)
	}
	return nil
}

// SetupRoutes configures all application routes and injects dependencies. It
// returns the notification dispatcher so the caller can attach it to the queue consumer.
func SetupRoutes(e *echo.Echo, deps Deps) *services.Dispatcher {
	log := deps.Log

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)
	contentRepo := repositories.NewMongoContentRepository(deps.Mongo)

	var trendingCache repositories.TrendingCache
	if deps.Redis != nil {
		trendingCache = repositories.NewRedisTrendingCache(deps.Redis)
	}

	// --- Services ---
	dispatcher := services.NewDispatcher(notificationRepo, userRepo, deps.Queue, log, deps.Metrics)
	authService := services.NewAuthService(userRepo, deps.FirebaseAuth, deps.JWTSecret, deps.JWTTTL, log)
	userService := services.NewUserService(userRepo, followRepo, log)
	followService := services.NewFollowService(followRepo, userRepo, dispatcher, log)
	contentService := services.NewContentService(contentRepo, commentRepo, userRepo, followRepo, dispatcher, log)
	engagementService := services.NewEngagementService(contentRepo, dispatcher, log, deps.Metrics)
	commentService := services.NewCommentService(commentRepo, commentLikeRepo, contentRepo, userRepo, dispatcher, log)
	trendingService := services.NewTrendingService(contentRepo, trendingCache, deps.TrendingCacheTTL, log, deps.Metrics)
	adminService := services.NewAdminService(userRepo, contentRepo, commentRepo, notificationRepo)

	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck(deps.ServiceName, healthChecks(deps)))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(authService).RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(authService, log))

	handlers.NewUserHandler(userService).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(followService).RegisterFollowRoutes(api)
	handlers.NewContentHandler(contentService).RegisterContentRoutes(api)
	handlers.NewEngagementHandler(engagementService).RegisterEngagementRoutes(api)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api)
	handlers.NewFeedHandler(contentService, trendingService).RegisterFeedRoutes(api)
	handlers.NewNotificationHandler(dispatcher, userRepo).RegisterNotificationRoutes(api)

	admin := api.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	handlers.NewAdminHandler(adminService).RegisterAdminRoutes(admin)

	log.Info("routes configured", zap.Int("count", len(e.Routes())))
	return dispatcher
}

func healthChecks(deps Deps) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := deps.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"mongo": func(ctx context.Context) error {
			return deps.Mongo.Client().Ping(ctx, nil)
		},
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
