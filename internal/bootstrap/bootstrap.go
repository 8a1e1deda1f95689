package bootstrap

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appControllers "github.com/obetrack/outcometrics/internal/app/controllers"
	appMigrations "github.com/obetrack/outcometrics/internal/app/migrations"
	appRepos "github.com/obetrack/outcometrics/internal/app/repositories"
	appRoutes "github.com/obetrack/outcometrics/internal/app/routes"
	appServices "github.com/obetrack/outcometrics/internal/app/services"
	"github.com/obetrack/outcometrics/internal/config"
	"github.com/obetrack/outcometrics/internal/db"
	appMiddleware "github.com/obetrack/outcometrics/internal/middleware"
	"github.com/obetrack/outcometrics/internal/pkg/backup"
	"github.com/obetrack/outcometrics/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos               *appRepos.Repositories
	Services            *appServices.Services
	Snapshotter         backup.Snapshotter
	CourseController    *appControllers.CourseController
	OutcomeController   *appControllers.OutcomeController
	ComponentController *appControllers.ComponentController
	GradeController     *appControllers.GradeController
	StudentController   *appControllers.StudentController
	AnalyticsController *appControllers.AnalyticsController
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return database, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	if cfg.Backup.Enabled {
		snapshotter, err := backup.NewFileSnapshotter(cfg.Backup.StorePath, cfg.Backup.Dir)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize backup snapshotter")
			return nil, fmt.Errorf("failed to initialize backup snapshotter: %w", err)
		}
		deps.Snapshotter = snapshotter
	} else {
		deps.Snapshotter = backup.Noop{}
	}

	deps.Services = appServices.NewServices(database, deps.Repos, deps.Snapshotter, cfg)

	deps.CourseController = appControllers.NewCourseController(deps.Services.Course)
	deps.OutcomeController = appControllers.NewOutcomeController(deps.Services.Outcome)
	deps.ComponentController = appControllers.NewComponentController(deps.Services.Component)
	deps.GradeController = appControllers.NewGradeController(deps.Services.Gradebook)
	deps.StudentController = appControllers.NewStudentController(deps.Services.Student, deps.Services.Planner)
	deps.AnalyticsController = appControllers.NewAnalyticsController(
		deps.Services.Heatmap,
		deps.Services.Outcome,
		deps.Services.Component,
		deps.Services.Difficulty,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.OutcomeController,
		deps.ComponentController,
		deps.GradeController,
		deps.StudentController,
		deps.AnalyticsController,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
