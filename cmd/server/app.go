// File: cmd/server/app.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/iyunix/go-chatnest/internal/auth"
	"github.com/iyunix/go-chatnest/internal/config"
	"github.com/iyunix/go-chatnest/internal/database"
	"github.com/iyunix/go-chatnest/internal/handlers"
	"github.com/iyunix/go-chatnest/internal/ratelimit"
	attachmentrepo "github.com/iyunix/go-chatnest/internal/repository/attachment"
	chatrepo "github.com/iyunix/go-chatnest/internal/repository/chat"
	"github.com/iyunix/go-chatnest/internal/repository/message"
	"github.com/iyunix/go-chatnest/internal/repository/user"
	"github.com/iyunix/go-chatnest/internal/services"
	"github.com/iyunix/go-chatnest/internal/services/ai"
	"github.com/iyunix/go-chatnest/internal/services/attachment"
	"github.com/iyunix/go-chatnest/internal/services/chat"
	"github.com/iyunix/go-chatnest/internal/services/storage"
	"github.com/iyunix/go-chatnest/internal/services/user_services"
	"github.com/iyunix/go-chatnest/web"
)

// Application aggregates all services and handlers
type Application struct {
	Config *config.Config
	Logger services.Logger

	DB    *gorm.DB
	Redis *redis.Client

	AuthService       *user_services.AuthService
	ChatService       *chat.Service
	AttachmentService *attachment.Service
	Models            ai.ModelLister

	AuthHandler       *handlers.AuthHandler
	ChatHandler       *handlers.ChatHandler
	AttachmentHandler *handlers.AttachmentHandler
	ModelHandler      *handlers.ModelHandler
	PageHandler       *handlers.PageHandler

	AuthLimiter *ratelimit.MemoryRateLimiter
}

// NewApplication connects every external collaborator and wires the
// services and handlers on top of them.
func NewApplication(ctx context.Context, cfg *config.Config, logger services.Logger) (*Application, error) {
	app := &Application{Config: cfg, Logger: logger}

	db, err := ProvideDatabase(cfg)
	if err != nil {
		return nil, err
	}
	app.DB = db

	blobs, err := ProvideStorage(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	provider, err := ProvideCompletionProvider(cfg, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Redis = ProvideRedis(ctx, cfg, logger)
	app.Models = ai.NewCachedModelLister(provider, ai.NewRedisStore(app.Redis), completionConfig(cfg), logger)

	chatRepo := chatrepo.NewChatRepository(db)
	messageRepo := message.NewMessageRepository(db)
	attachmentRepo := attachmentrepo.NewAttachmentRepository(db)
	userRepo := user.NewGormUserRepository(db)

	chatConfig := chat.DefaultConfig()
	chatConfig.DefaultModel = cfg.DefaultModel
	chatConfig.CompletionTimeout = cfg.CompletionTimeout
	app.ChatService, err = chat.NewService(chatConfig, chatRepo, messageRepo, attachmentRepo, blobs, provider, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("chat service: %w", err)
	}

	app.AttachmentService, err = attachment.NewService(attachment.DefaultConfig(), attachmentRepo, blobs, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("attachment service: %w", err)
	}

	app.AuthService = user_services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)

	app.AuthHandler = handlers.NewAuthHandler(app.AuthService, logger, auth.TokenTTL, cfg.IsProduction())
	app.ChatHandler = handlers.NewChatHandler(app.ChatService, logger)
	app.AttachmentHandler = handlers.NewAttachmentHandler(app.AttachmentService, logger, cfg.MaxUploadBytes)
	app.ModelHandler = handlers.NewModelHandler(app.Models, logger)
	app.PageHandler, err = handlers.NewPageHandler(web.Templates(), app.ChatService, app.Models, app.AttachmentService, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("page templates: %w", err)
	}

	app.AuthLimiter = ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	return app, nil
}

// Routes builds the HTTP handler for the application.
func (a *Application) Routes() http.Handler {
	return NewRouter(RouterDeps{
		Tokens:      a.AuthService,
		Limiter:     a.AuthLimiter,
		Logger:      a.Logger,
		Auth:        a.AuthHandler,
		Chats:       a.ChatHandler,
		Attachments: a.AttachmentHandler,
		Models:      a.ModelHandler,
		Pages:       a.PageHandler,
		Static:      web.Static(),
		Health:      a.Health,
	})
}

// Health reports whether the database answers.
func (a *Application) Health(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases connections in reverse order of acquisition.
func (a *Application) Close() {
	if a.AuthLimiter != nil {
		a.AuthLimiter.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("redis close failed", "error", err.Error())
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

// ProvideDatabase opens and migrates the configured database.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// ProvideStorage connects to object storage and makes sure the bucket exists.
func ProvideStorage(ctx context.Context, cfg *config.Config) (*storage.MinioProvider, error) {
	storageConfig := &storage.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		UseSSL:    cfg.S3UseSSL,
		PublicURL: cfg.S3PublicURL,
	}
	blobs, err := storage.NewMinioProvider(storageConfig)
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := blobs.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("object storage bucket: %w", err)
	}
	return blobs, nil
}

// ProvideCompletionProvider builds the configured completion client.
func ProvideCompletionProvider(cfg *config.Config, logger services.Logger) (ai.Provider, error) {
	provider, err := ai.NewProvider(completionConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("completion provider: %w", err)
	}
	return provider, nil
}

// ProvideRedis returns a client for the model cache, or nil when Redis is not
// configured or not reachable at startup.
func ProvideRedis(ctx context.Context, cfg *config.Config, logger services.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, model list will not be cached", "addr", cfg.RedisAddr, "error", err.Error())
		rdb.Close()
		return nil
	}
	return rdb
}

func completionConfig(cfg *config.Config) *ai.Config {
	aiConfig := ai.DefaultConfig()
	aiConfig.Provider = cfg.CompletionProvider
	aiConfig.APIKey = cfg.CompletionAPIKey
	aiConfig.BaseURL = cfg.CompletionBaseURL
	aiConfig.Timeout = cfg.CompletionTimeout
	aiConfig.ModelsCacheTTL = cfg.ModelsCacheTTL
	return aiConfig
}
