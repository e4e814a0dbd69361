package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alshifa/hospital-management/internal"
	"github.com/alshifa/hospital-management/internal/auth"
	authPostgres "github.com/alshifa/hospital-management/internal/auth/postgres"
	"github.com/alshifa/hospital-management/internal/core/events"
	"github.com/alshifa/hospital-management/internal/department"
	departmentPostgres "github.com/alshifa/hospital-management/internal/department/postgres"
	"github.com/alshifa/hospital-management/internal/rbac"
	"github.com/alshifa/hospital-management/internal/transport"
	"github.com/alshifa/hospital-management/internal/transport/middleware"
	"github.com/alshifa/hospital-management/internal/transport/rest"
	"github.com/alshifa/hospital-management/internal/transport/swagger"
	"github.com/alshifa/hospital-management/internal/user"
	userPostgres "github.com/alshifa/hospital-management/internal/user/postgres"
	"github.com/alshifa/hospital-management/pkg/logger"
)

const openAPISpecPath = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "env", deps.Config.Env)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Env, config.Observability.Logging.Level)
	appLogger := logger.LoggerWrapper()

	if err := swagger.ValidateSpec(openAPISpecPath); err != nil {
		return nil, fmt.Errorf("openapi spec check failed: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the pgx pool instead of opening a second one.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(appLogger)

	authRepo := authPostgres.NewRepository(gormDB)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, bus, appLogger)
	authHandler := auth.NewHandler(authService)

	bus.Subscribe(auth.EventUserLoggedIn, auth.LastLoginRecorder(authRepo, appLogger))

	registry := rbac.NewRegistry()
	authorizer := rbac.NewAuthorizer(registry, appLogger)

	baseHandler := transport.NewBaseHandler(appLogger)

	departmentRepo := departmentPostgres.NewDepartmentRepository(gormDB)
	departmentService := department.NewService(departmentRepo, appLogger)
	departmentHandler := department.NewHandler(baseHandler, departmentService)

	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, departmentService, appLogger, config.Security.BCryptCost)
	userHandler := user.NewHandler(baseHandler, userService)

	rateLimiter := middleware.NewRateLimiter(
		config.Server.AuthRateLimit,
		config.Server.AuthRateBurst,
		appLogger,
	)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterDeps{
		DB:                db.DB,
		AuthHandler:       authHandler,
		Authorizer:        authorizer,
		UserHandler:       userHandler,
		DepartmentHandler: departmentHandler,
		AuthRateLimiter:   rateLimiter,
		Logger:            appLogger,
	})

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: appLogger,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.ConnMaxLifetime > 0 {
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
