package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"momentum/config"
	"momentum/handler"
	"momentum/middleware"
	"momentum/repository"
	"momentum/services"
	"momentum/usecase"
	"momentum/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// app holds everything the router needs.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	notes      handler.NotesService
	auth       handler.AuthService
	dispatcher handler.Dispatcher
	tokens     middleware.TokenParser
	revoker    middleware.RevocationChecker
	health     []handler.Dependency
}

func setupRouter(a *app) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.EnhancedRecoveryMiddleware(a.logger))
	router.Use(middleware.RequestLogger(a.logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestSizeLimiter(a.cfg.MaxRequestBytes))

	router.GET("/health", func(c *gin.Context) {
		handler.HealthHandler(c, a.health...)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.NoStoreMiddleware())

	// Public routes (no authentication required)
	user := api.Group("/user")
	{
		user.POST("/signup", func(c *gin.Context) {
			handler.SignUpHandler(c, a.auth)
		})
		user.POST("/signin", func(c *gin.Context) {
			handler.SignInHandler(c, a.auth)
		})
	}

	authenticate := middleware.Authenticate(a.tokens, a.revoker, a.cfg.Auth.Mode, a.logger)

	// Sign-out needs somewhere to remember revoked tokens.
	if a.revoker != nil {
		user.POST("/signout", authenticate, middleware.RequireIdentity(), func(c *gin.Context) {
			handler.SignOutHandler(c, a.auth)
		})
	}

	notes := api.Group("/notes")
	notes.Use(authenticate)
	{
		notes.GET("", func(c *gin.Context) {
			handler.GetNotesHandler(c, a.notes)
		})
		notes.POST("", middleware.RequireIdentity(), func(c *gin.Context) {
			handler.CreateNoteHandler(c, a.notes)
		})

		byID := notes.Group("/:id", middleware.ValidateNoteID("id"))
		byID.GET("", func(c *gin.Context) {
			handler.GetNoteHandler(c, a.notes)
		})
		byID.PATCH("", func(c *gin.Context) {
			handler.UpdateNoteHandler(c, a.notes)
		})
		byID.DELETE("", func(c *gin.Context) {
			handler.DeleteNoteHandler(c, a.notes)
		})
		byID.PATCH("/toggle", func(c *gin.Context) {
			handler.ToggleNoteDoneHandler(c, a.notes)
		})
	}

	notifications := api.Group("/notifications")
	notifications.Use(authenticate)
	{
		notifications.POST("/sms", func(c *gin.Context) {
			handler.SendSMSHandler(c, a.dispatcher)
		})
		notifications.POST("/email", func(c *gin.Context) {
			handler.SendEmailHandler(c, a.dispatcher)
		})
		notifications.POST("/delete", func(c *gin.Context) {
			handler.DeleteNotificationHandler(c, a.dispatcher)
		})
		notifications.POST("/subscribers", func(c *gin.Context) {
			handler.CreateSubscriberHandler(c, a.dispatcher)
		})

		topics := notifications.Group("/topics")
		topics.POST("", func(c *gin.Context) {
			handler.CreateTopicHandler(c, a.dispatcher)
		})
		topics.GET("/:key", func(c *gin.Context) {
			handler.GetTopicHandler(c, a.dispatcher)
		})
		topics.POST("/:key/subscribers", func(c *gin.Context) {
			handler.AddTopicSubscribersHandler(c, a.dispatcher)
		})
		topics.POST("/:key/trigger", func(c *gin.Context) {
			handler.NotifyTopicHandler(c, a.dispatcher)
		})
	}

	return router
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Could not load .env file", slog.Any("error", err))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	gin.SetMode(cfg.GinMode)
	if err := utils.InitValidator(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	ctx := context.Background()

	client, err := utils.NewMongoClient(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warn("MongoDB disconnect failed", slog.Any("error", err))
		}
	}()

	indexes, err := repository.SetupIndexes(ctx, client.Database(cfg.Database.DatabaseName))
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	logger.Info("MongoDB indexes ready", slog.Any("indexes", indexes))

	tokens, err := services.NewTokenManager(cfg.Auth.JWTSecretKey, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	novu, err := services.NewNovuClient(cfg.Novu, logger)
	if err != nil {
		return err
	}

	a := &app{
		cfg:        cfg,
		logger:     logger,
		dispatcher: novu,
		tokens:     tokens,
		health: []handler.Dependency{{
			Name: "mongo",
			Ping: func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		}},
	}

	authService := &usecase.AuthService{
		Users:      repository.GetUserRepo(client, cfg.Database),
		Tokens:     tokens,
		BcryptCost: cfg.Auth.BcryptCost,
	}

	redisDependency := handler.Dependency{Name: "redis"}
	if cfg.Redis.URL != "" {
		blacklist, err := services.NewTokenBlacklist(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer blacklist.Close()

		authService.Revoker = blacklist
		a.revoker = blacklist
		redisDependency.Ping = blacklist.Ping
	} else {
		logger.Info("REDIS_URL not set, sign-out is disabled")
	}
	a.health = append(a.health, redisDependency)
	a.auth = authService

	a.notes = &usecase.NoteService{
		Notes:            repository.GetNotesRepo(client, cfg.Database),
		Notifier:         novu,
		Logger:           logger,
		EnforceOwnership: cfg.Notes.EnforceOwnership,
		NotifyOnDelete:   cfg.Notes.NotifyOnDelete,
	}

	return serve(":"+cfg.Port, setupRouter(a), logger)
}
