package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/academy/internal/app/controllers"
	appJobs "github.com/yigit/academy/internal/app/jobs"
	appMigrations "github.com/yigit/academy/internal/app/migrations"
	appRepos "github.com/yigit/academy/internal/app/repositories"
	appRoutes "github.com/yigit/academy/internal/app/routes"
	appServices "github.com/yigit/academy/internal/app/services"
	"github.com/yigit/academy/internal/config"
	"github.com/yigit/academy/internal/db"
	appMiddleware "github.com/yigit/academy/internal/middleware"
	pkgAuth "github.com/yigit/academy/internal/pkg/auth"
	"github.com/yigit/academy/internal/pkg/email"
	"github.com/yigit/academy/internal/pkg/filestorage"
	"github.com/yigit/academy/internal/pkg/helpers"
	"github.com/yigit/academy/internal/pkg/idempotency"
	"github.com/yigit/academy/internal/pkg/logger"
	"github.com/yigit/academy/internal/pkg/push"
	"github.com/yigit/academy/internal/pkg/validation"
	"github.com/yigit/academy/internal/pkg/websocket"
	"github.com/yigit/academy/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Redis       *redis.Client
	Hub         *websocket.Hub
	Scheduler   *appJobs.Scheduler

	AuthService    appServices.AuthService
	PushTokens     appServices.PushTokenService
	RoutingService appServices.RoutingService
	CourseService  appServices.CourseService
	ClassService   appServices.ClassService
	VideoService   appServices.VideoService
	CommentService appServices.CommentService
	EBookService   appServices.EBookService

	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	if err := migrator.RunGoMigrations(ctx, appMigrations.TaggedEnrollments(lgr)); err != nil {
		database.Close()
		return nil, fmt.Errorf("data migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.AdminAccount{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		Name:     cfg.Seed.AdminName,
	}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(database.Pool), admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// setupGuard connects to redis for the double-submit guard. Without redis the guard is a no-op.
func setupGuard(cfg *config.Config, lgr zerolog.Logger) (idempotency.Guard, *redis.Client) {
	client, err := idempotency.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, duplicate submissions will not be suppressed")
		return idempotency.NoopGuard{}, nil
	}
	if client == nil {
		lgr.Info().Msg("Redis not configured, duplicate submissions will not be suppressed")
		return idempotency.NoopGuard{}, nil
	}
	ttl := helpers.ParseDuration(cfg.Redis.DedupeTTL, 10*time.Second)
	return idempotency.NewRedisGuard(client, ttl, lgr), client
}

// BuildDependencies initializes application repositories, services, jobs and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	loc := cfg.Location()

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	fileStorageBaseURL := strings.TrimRight(cfg.Server.PublicURL, "/") + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	pushClient := push.NewClient(push.Config{
		URL:         cfg.Push.ExpoURL,
		AccessToken: cfg.Push.AccessToken,
		Timeout:     helpers.ParseDuration(cfg.Push.Timeout, 10*time.Second),
		BatchSize:   cfg.Push.BatchSize,
	}, lgr)

	mailer := email.NewEmailService(email.Config{
		APIKey:    cfg.Email.SendgridAPIKey,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
	}, lgr)

	var guard idempotency.Guard
	guard, deps.Redis = setupGuard(cfg, lgr)

	deps.Hub = websocket.NewHub(lgr)

	users := deps.Repos.UserRepository
	courses := deps.Repos.CourseRepository
	comments := deps.Repos.CommentRepository
	outbox := deps.Repos.OutboxRepository

	deps.PushTokens = appServices.NewPushTokenService(users, lgr)
	deps.AuthService = appServices.NewAuthService(users, deps.JWTService, deps.PushTokens, lgr)
	deps.RoutingService = appServices.NewRoutingService(users, lgr)
	deps.CourseService = appServices.NewCourseService(database, courses, users, comments, outbox, deps.FileStorage, mailer, lgr)
	deps.ClassService = appServices.NewClassService(database, courses, users, outbox, guard, deps.Hub,
		appServices.ClassServiceConfig{
			Location:     loc,
			ReminderLead: helpers.ParseDuration(cfg.Scheduler.ReminderLead, 15*time.Minute),
		}, lgr)
	deps.VideoService = appServices.NewVideoService(database, courses, comments, lgr)
	deps.CommentService = appServices.NewCommentService(database, courses, users, comments, lgr)
	deps.EBookService = appServices.NewEBookService(database, courses, deps.FileStorage, lgr)

	worker := appJobs.NewOutboxWorker(outbox, pushClient, appJobs.OutboxWorkerConfig{
		BatchSize:   cfg.Outbox.BatchSize,
		MaxAttempts: cfg.Outbox.MaxAttempts,
		BaseBackoff: helpers.ParseDuration(cfg.Outbox.BaseBackoff, 30*time.Second),
		Lease:       2 * time.Minute,
	}, lgr)

	deps.Scheduler, err = appJobs.NewScheduler(appJobs.SchedulerConfig{
		Location:       loc,
		CompletionSpec: cfg.Scheduler.CompletionSpec,
		OutboxInterval: helpers.ParseDuration(cfg.Outbox.PollInterval, 30*time.Second),
	}, deps.CourseService, worker, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, users)

	deps.Controllers = appRoutes.Controllers{
		Auth:    appControllers.NewAuthController(deps.AuthService, lgr),
		User:    appControllers.NewUserController(deps.PushTokens, deps.RoutingService, lgr),
		Course:  appControllers.NewCourseController(deps.CourseService, lgr),
		Class:   appControllers.NewClassController(deps.ClassService, lgr),
		Video:   appControllers.NewVideoController(deps.VideoService),
		Comment: appControllers.NewCommentController(deps.CommentService),
		EBook:   appControllers.NewEBookController(deps.EBookService),
		Health:  appControllers.NewHealthController(database.Pool),
		Live:    websocket.NewHandler(deps.Hub, deps.CourseService, cfg.Server.AllowedOrigins, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterGinValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))
	appRoutes.SetupCORS(router, cfg.Server.AllowedOrigins)
	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.FileStorage.BasePath())

	return router, nil
}
