// Package bootstrap wires configuration, storage, repositories, services and
// the HTTP layer together at startup.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmorales/aulago/internal/app/auth"
	"github.com/dmorales/aulago/internal/app/controllers"
	"github.com/dmorales/aulago/internal/app/migrations"
	"github.com/dmorales/aulago/internal/app/repositories"
	"github.com/dmorales/aulago/internal/app/routes"
	"github.com/dmorales/aulago/internal/app/services"
	"github.com/dmorales/aulago/internal/config"
	"github.com/dmorales/aulago/internal/db"
	"github.com/dmorales/aulago/internal/middleware"
	pkgauth "github.com/dmorales/aulago/internal/pkg/auth"
	"github.com/dmorales/aulago/internal/pkg/filestorage"
	"github.com/dmorales/aulago/internal/pkg/helpers"
	"github.com/dmorales/aulago/internal/pkg/logger"
	"github.com/dmorales/aulago/internal/pkg/validation"
	"github.com/dmorales/aulago/internal/seed"
)

// Dependencies holds everything the server needs after wiring
type Dependencies struct {
	Config  *config.Config
	DB      *db.PostgresDB
	Cleaner *filestorage.Cleaner

	AuthController       *controllers.AuthController
	CourseController     *controllers.CourseController
	LessonController     *controllers.LessonController
	ProgressController   *controllers.ProgressController
	EnrollmentController *controllers.EnrollmentController
	CommentController    *controllers.CommentController

	AuthMiddleware *middleware.AuthMiddleware
}

// LoadConfigAndSetupLogger reads configuration and configures the logger
// before anything else runs.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "console" || cfg.Server.Mode == "development",
	})

	logger.Info().
		Str("mode", cfg.Server.Mode).
		Str("port", cfg.Server.Port).
		Msg("Configuration loaded")

	return cfg, nil
}

// SetupDatabase connects to Postgres, applies pending migrations and seeds
// default data.
func SetupDatabase(cfg *config.Config) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory("migrations"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := seed.CreateDefaultData(ctx, repositories.NewRepositories(database)); err != nil {
		logger.Warn().Err(err).Msg("Seeding default data failed")
	}

	return database, nil
}

// BuildDependencies constructs repositories, services, controllers and
// middleware on top of an open database connection.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB) (*Dependencies, error) {
	repos := repositories.NewRepositories(database)

	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to set up file storage: %w", err)
	}
	cleaner := filestorage.NewCleaner(storage)

	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	authz := auth.NewAuthorizationService(repos.EnrollmentRepository)

	limits := validation.AttachmentLimits{
		MaxVideoSize: cfg.Upload.MaxVideoSizeMB * 1024 * 1024,
		MaxImageSize: cfg.Upload.MaxImageSizeMB * 1024 * 1024,
		MaxFileSize:  cfg.Upload.MaxFileSizeMB * 1024 * 1024,
	}

	authService := services.NewAuthService(repos.UserRepository, jwtService)
	courseService := services.NewCourseService(
		repos.CourseRepository,
		repos.LessonRepository,
		repos.ProgressRepository,
		repos.CommentRepository,
		repos.RatingRepository,
		repos.EnrollmentRepository,
		authz,
	)
	lessonService := services.NewLessonService(
		repos.LessonRepository,
		repos.CourseRepository,
		repos.ProgressRepository,
		storage,
		cleaner,
		limits,
		authz,
	)
	progressService := services.NewProgressService(
		repos.ProgressRepository,
		repos.LessonRepository,
		repos.CourseRepository,
		authz,
	)
	enrollmentService := services.NewEnrollmentService(repos.CourseRepository, repos.EnrollmentRepository)
	commentService := services.NewCommentService(repos.CommentRepository, repos.CourseRepository, authz)

	return &Dependencies{
		Config:  cfg,
		DB:      database,
		Cleaner: cleaner,

		AuthController:       controllers.NewAuthController(authService),
		CourseController:     controllers.NewCourseController(courseService, authService),
		LessonController:     controllers.NewLessonController(lessonService, authService),
		ProgressController:   controllers.NewProgressController(progressService, authService),
		EnrollmentController: controllers.NewEnrollmentController(enrollmentService, authService),
		CommentController:    controllers.NewCommentController(commentService, authService),

		AuthMiddleware: middleware.NewAuthMiddleware(jwtService),
	}, nil
}

// SetupRouter builds the gin engine with global middleware and all routes
func SetupRouter(deps *Dependencies) *gin.Engine {
	if deps.Config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	routes.SetupRouter(
		router,
		deps.AuthController,
		deps.CourseController,
		deps.LessonController,
		deps.ProgressController,
		deps.EnrollmentController,
		deps.CommentController,
		deps.AuthMiddleware,
	)
	routes.SetupSwagger(router)

	return router
}
