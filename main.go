package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/config"
	"github.com/tiangong-ops/opshub/pkg/crypto"
	"github.com/tiangong-ops/opshub/pkg/database"
	"github.com/tiangong-ops/opshub/pkg/handlers"
	"github.com/tiangong-ops/opshub/pkg/middleware"
	"github.com/tiangong-ops/opshub/pkg/probe"
	_ "github.com/tiangong-ops/opshub/pkg/probe/mysql" // registers the mysql prober
	"github.com/tiangong-ops/opshub/pkg/repositories"
	"github.com/tiangong-ops/opshub/pkg/services"
	"github.com/tiangong-ops/opshub/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

const migrationsPath = "migrations"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", cfg.Database.Host),
		zap.Duration("probe_timeout", cfg.Probe.Timeout()),
		zap.Bool("report_model", cfg.Report.IsAvailable()),
	)

	ctx := context.Background()

	// The pool is created lazily so a down store does not abort startup;
	// the portal serves in degraded mode until the store comes back.
	db, err := database.Connect(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Invalid database configuration", zap.Error(err))
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := db.Ping(pingCtx); err != nil {
		logger.Warn("Metadata store unreachable at startup, serving degraded", zap.Error(err))
	} else if err := runMigrations(cfg, logger); err != nil {
		logger.Warn("Migrations failed, serving with existing schema", zap.Error(err))
	}
	cancel()

	cipher, err := crypto.NewSecretCipher(cfg.SourceCredentialsKey)
	if err != nil {
		logger.Fatal("Invalid credentials key", zap.Error(err))
	}

	sourceRepo := repositories.NewSourceRepository(db)
	serverRepo := repositories.NewServerRepository(db)
	portalRepo := repositories.NewPortalRepository(db)
	userRepo := repositories.NewUserRepository(db)

	runner := probe.NewRunner(cfg.Probe.Timeout())
	sourceService := services.NewSourceService(sourceRepo, cipher, runner, logger)
	reportService := services.NewReportService(cfg.Report, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(db, cfg.Version, logger).RegisterRoutes(mux)
	handlers.NewSourcesHandler(sourceService, logger).RegisterRoutes(mux)
	handlers.NewServersHandler(serverRepo, logger).RegisterRoutes(mux)
	handlers.NewPortalHandler(portalRepo, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(userRepo, cfg.SessionSecret, logger).RegisterRoutes(mux)
	handlers.NewReportsHandler(reportService, logger).RegisterRoutes(mux)

	mux.Handle("/", uiHandler(cfg, logger))

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting opshub", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// runMigrations applies pending migrations over database/sql, which is
// what golang-migrate requires.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, migrationsPath, logger)
}

// uiHandler serves the portal shell: from UIDir when configured, from
// the compiled-in bundle otherwise.
func uiHandler(cfg *config.Config, logger *zap.Logger) http.Handler {
	if cfg.UIDir != "" {
		logger.Info("Serving UI from directory", zap.String("dir", cfg.UIDir))
		return http.FileServer(http.Dir(cfg.UIDir))
	}

	dist, err := fs.Sub(ui.DistFS(), "dist")
	if err != nil {
		logger.Fatal("Embedded UI bundle is missing", zap.Error(err))
	}
	return http.FileServer(http.FS(dist))
}
