package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	appAuth "github.com/empatecerca/api/internal/app/auth"
	appControllers "github.com/empatecerca/api/internal/app/controllers"
	appMigrations "github.com/empatecerca/api/internal/app/migrations"
	appRepos "github.com/empatecerca/api/internal/app/repositories"
	appRoutes "github.com/empatecerca/api/internal/app/routes"
	appServices "github.com/empatecerca/api/internal/app/services"
	"github.com/empatecerca/api/internal/config"
	"github.com/empatecerca/api/internal/db"
	appMiddleware "github.com/empatecerca/api/internal/middleware"
	pkgAuth "github.com/empatecerca/api/internal/pkg/auth"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/empatecerca/api/internal/pkg/validation"
	"github.com/empatecerca/api/internal/seed"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    *appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Component("api")
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects, applies the embedded migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, appMigrations.Files()).Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, cfg,
		appRepos.NewDisciplineRepository(dbPool),
		appRepos.NewUserRepository(dbPool),
		logger.Component("seed"),
	); err != nil {
		// Startup continues; the data can be created through the API
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	repos := appRepos.NewRepositories(dbPool)
	deps.Repos = repos

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  config.Duration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: config.Duration(cfg.JWT.RefreshTokenExpiration, 168*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(repos.ScopeRepository)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)

	authService := appServices.NewAuthService(
		repos.UserRepository,
		repos.TokenRepository,
		repos.VolunteerRepository,
		repos.TutorRepository,
		deps.JWTService,
		logger.Component("auth"),
	)
	disciplineService := appServices.NewDisciplineService(repos.DisciplineRepository, logger.Component("disciplines"))
	volunteerService := appServices.NewVolunteerService(
		repos.VolunteerRepository,
		repos.GroupRepository,
		repos.RatingRepository,
		deps.AuthzService,
		logger.Component("volunteers"),
	)
	tutorService := appServices.NewTutorService(repos.TutorRepository, logger.Component("tutors"))
	studentService := appServices.NewStudentService(
		repos.StudentRepository,
		repos.ProgressRepository,
		deps.AuthzService,
		logger.Component("students"),
	)
	groupService := appServices.NewGroupService(
		repos.GroupRepository,
		repos.VolunteerRepository,
		repos.StudentRepository,
		deps.AuthzService,
		logger.Component("groups"),
	)
	progressService := appServices.NewProgressService(repos.ProgressRepository, deps.AuthzService, logger.Component("progress"))
	ratingService := appServices.NewRatingService(repos.RatingRepository, deps.AuthzService, logger.Component("ratings"))
	announcementService := appServices.NewAnnouncementService(repos.AnnouncementRepository, logger.Component("announcements"))
	messageService := appServices.NewMessageService(
		repos.MessageRepository,
		repos.UserRepository,
		deps.AuthzService,
		logger.Component("messages"),
	)
	dashboardService := appServices.NewDashboardService(repos.DashboardRepository, logger.Component("dashboard"))

	deps.Controllers = &appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(authService, logger.Component("auth")),
		Discipline:   appControllers.NewDisciplineController(disciplineService),
		Volunteer:    appControllers.NewVolunteerController(volunteerService, logger.Component("volunteers")),
		Tutor:        appControllers.NewTutorController(tutorService),
		Student:      appControllers.NewStudentController(studentService),
		Group:        appControllers.NewGroupController(groupService),
		Progress:     appControllers.NewProgressController(progressService),
		Rating:       appControllers.NewRatingController(ratingService),
		Announcement: appControllers.NewAnnouncementController(announcementService),
		Message:      appControllers.NewMessageController(messageService, logger.Component("messages")),
		Dashboard:    appControllers.NewDashboardController(dashboardService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	validation.RegisterGinValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
