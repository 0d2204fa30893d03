package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/projecttracker/internal/app/controllers"
	appMigrations "github.com/yigit/projecttracker/internal/app/migrations"
	appRepos "github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/app/repositories/mongodb"
	"github.com/yigit/projecttracker/internal/app/repositories/postgres"
	appRoutes "github.com/yigit/projecttracker/internal/app/routes"
	appServices "github.com/yigit/projecttracker/internal/app/services"
	"github.com/yigit/projecttracker/internal/config"
	"github.com/yigit/projecttracker/internal/db"
	appMiddleware "github.com/yigit/projecttracker/internal/middleware"
	pkgAuth "github.com/yigit/projecttracker/internal/pkg/auth"
	"github.com/yigit/projecttracker/internal/pkg/helpers"
	"github.com/yigit/projecttracker/internal/pkg/logger"
	"github.com/yigit/projecttracker/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is not set
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services             *appServices.Services
	AuthController       *appControllers.AuthController
	ProjectController    *appControllers.ProjectController
	StudentController    *appControllers.StudentController
	SupervisorController *appControllers.SupervisorController
	AdminController      *appControllers.AdminController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Logger               zerolog.Logger
}

// Storage is an open storage backend together with its repositories
type Storage struct {
	Repos *appRepos.Repositories
	Close func(ctx context.Context) error
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage connects the configured backend and prepares its schema.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return setupPostgres(ctx, cfg, lgr)
	default:
		return setupMongo(ctx, cfg, lgr)
	}
}

func setupMongo(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	lgr.Info().Str("database", cfg.Database.Mongo.Database).Msg("Connecting to MongoDB...")
	mongoDB, err := db.NewMongoDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
		return nil, err
	}

	if err := mongodb.EnsureIndexes(ctx, mongoDB.Database); err != nil {
		_ = mongoDB.Close(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	lgr.Info().Msg("MongoDB connection established, indexes ensured.")

	return &Storage{
		Repos: mongodb.NewRepositories(mongoDB.Database),
		Close: mongoDB.Close,
	}, nil
}

func setupPostgres(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.Postgres.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		_ = database.Close(ctx)
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		_ = database.Close(ctx)
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return &Storage{
		Repos: postgres.NewRepositories(database.Pool),
		Close: database.Close,
	}, nil
}

// BuildDependencies initializes services, middleware and controllers over repos.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.Expiration, pkgAuth.DefaultTokenExpiration),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(repos, deps.JWTService, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	controllerLogger := func(name string) zerolog.Logger {
		return lgr.With().Str("component", name).Logger()
	}
	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth, controllerLogger("auth_controller"))
	deps.ProjectController = appControllers.NewProjectController(deps.Services.Projects, controllerLogger("project_controller"))
	deps.StudentController = appControllers.NewStudentController(deps.Services.Users, controllerLogger("student_controller"))
	deps.SupervisorController = appControllers.NewSupervisorController(deps.Services.Users, controllerLogger("supervisor_controller"))
	deps.AdminController = appControllers.NewAdminController(deps.Services, controllerLogger("admin_controller"))

	return deps
}

// SeedDefaults creates the configured admin account. Failures are logged, not fatal.
func SeedDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := seed.CreateDefaultData(ctx, cfg, deps.Services.Auth, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr.With().Str("component", "http").Logger()))
	router.Use(appMiddleware.Recovery())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ProjectController,
		deps.StudentController,
		deps.SupervisorController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	return router
}
