package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minbar-platform/backend/internal/cache"
	"github.com/minbar-platform/backend/internal/handlers"
	"github.com/minbar-platform/backend/internal/middleware"
	"github.com/minbar-platform/backend/internal/models"
	"github.com/minbar-platform/backend/internal/notifications"
	"github.com/minbar-platform/backend/internal/ranking"
	"github.com/minbar-platform/backend/internal/repositories"
	"github.com/minbar-platform/backend/internal/taxonomy"
	"github.com/minbar-platform/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware and the error handler
// that renders every failure as {"error": "..."}.
func SetupMiddleware(e *echo.Echo, logger *zap.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.HTTPErrorHandler = errorHandler(logger)
}

// errorHandler maps errors onto the {"error": message} body. 5xx details are
// logged server-side and replaced with a generic client message.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		status := http.StatusInternalServerError
		message := "Internal server error"

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
			message = "Internal server error"
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"error": message})
	}
}

// SetupRoutes configures all application routes and injects dependencies.
// Background loops started here stop when ctx is cancelled.
func SetupRoutes(ctx context.Context, e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, rdb *redis.Client, logger *zap.Logger) error {
	if err := pgdb.AutoMigrate(
		&models.User{},
		&models.ContentType{},
		&models.Category{},
		&models.Notification{},
	); err != nil {
		return err
	}

	mongoDB := mgClient.Database(cfg.MongoDatabase)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	taxonomyRepo := repositories.NewPostgresTaxonomyRepository(pgdb)
	contentRepo := repositories.NewMongoContentRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mgClient, mongoDB)
	reactionRepo := repositories.NewMongoReactionRepository(mgClient, mongoDB)
	if err := reactionRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Core components ---
	lookup := cache.NewLookup(rdb, cfg.LookupTTL)
	taxonomyService := taxonomy.NewService(taxonomyRepo, lookup)
	fanout := notifications.NewFanout(notificationRepo, userRepo, logger)
	ranker := ranking.NewRanker(ranking.DefaultWeights)

	// Unread backlog gauge. A growing total means recipients are not catching
	// up with what the fan-out produces.
	backlog := notifications.NewPoller(0,
		func(context.Context) (int64, error) { return notificationRepo.GetTotalUnread() },
		func(n int64) { logger.Debug("unread notification backlog", zap.Int64("count", n)) },
		logger,
	)
	go backlog.Run(ctx)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	reactionHandler := handlers.NewReactionHandler(reactionRepo, contentRepo, commentRepo, fanout)
	reactionHandler.RegisterReactionRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, contentRepo, fanout)
	commentHandler.RegisterCommentRoutes(api)

	contentHandler := handlers.NewContentHandler(contentRepo, taxonomyService, ranker)
	contentHandler.RegisterContentRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyService)
	taxonomyHandler.RegisterTaxonomyRoutes(api)

	admin := api.Group("/admin")
	taxonomyHandler.RegisterAdminTaxonomyRoutes(admin)
	contentHandler.RegisterAdminContentRoutes(admin)

	logger.Info("all routes configured")
	return nil
}
