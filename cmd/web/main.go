package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/mkarvo/coachapp/internal/client"
	"github.com/mkarvo/coachapp/internal/e2etest"
	"github.com/mkarvo/coachapp/internal/envstruct"
	"github.com/mkarvo/coachapp/internal/errors"
	"github.com/mkarvo/coachapp/internal/flightrecorder"
	"github.com/mkarvo/coachapp/internal/logging"
	"github.com/mkarvo/coachapp/internal/nutrition"
	"github.com/mkarvo/coachapp/internal/pprofserver"
	"github.com/mkarvo/coachapp/internal/sqlite"
	"github.com/mkarvo/coachapp/internal/workout"
)

type application struct {
	logger           *slog.Logger
	db               *sqlite.Database
	sessionManager   *scs.SessionManager
	clientService    *client.Service
	nutritionService *nutrition.Service
	workoutService   *workout.Service
	flightRecorder   *flightrecorder.Service
	exportDir        string
	allowedOrigins   []string
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"COACHAPP_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"COACHAPP_SQLITE_URL" envDefault:"./coachapp.sqlite3"`
	// PProfAddr is the optional address to listen on for the pprof server.
	PProfAddr string `env:"COACHAPP_PPROF_ADDR" envDefault:""`
	// OpenAIAPIKey enables AI coaching-note generation when set.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	// ExportDir is where client data exports are written.
	ExportDir string `env:"COACHAPP_EXPORT_DIR" envDefault:""`
	// AllowedOrigin is the origin the mobile client calls from. Empty allows any origin.
	AllowedOrigin string `env:"COACHAPP_ALLOWED_ORIGIN" envDefault:""`
	// TracesDirectory enables flight recording when set. Runtime traces are written
	// there when a request times out.
	TracesDirectory string `env:"COACHAPP_TRACES_DIRECTORY" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if cfg.PProfAddr != "" {
		pprofserver.Launch(ctx, cfg.PProfAddr, logger)
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db", slog.String(e2etest.LogDsnKey, cfg.SqliteURL))

	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = os.TempDir()
	}

	var allowedOrigins []string
	if cfg.AllowedOrigin != "" {
		allowedOrigins = []string{cfg.AllowedOrigin}
	}

	var flightRecorder *flightrecorder.Service
	if cfg.TracesDirectory != "" {
		flightRecorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:          logger,
			MinAge:          0,
			MaxBytes:        0,
			TracesDirectory: cfg.TracesDirectory,
		})
		if err != nil {
			return errors.Wrap(err, "create flight recorder")
		}
		if err = flightRecorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer flightRecorder.Stop(ctx)
	}

	app := application{
		logger:           logger,
		db:               db,
		sessionManager:   initializeSessionManager(db),
		clientService:    client.NewService(db, cfg.OpenAIAPIKey, logger),
		nutritionService: nutrition.NewService(db, logger),
		workoutService:   workout.NewService(db, logger),
		flightRecorder:   flightRecorder,
		exportDir:        exportDir,
		allowedOrigins:   allowedOrigins,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func initializeSessionManager(dbs *sqlite.Database) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = 30 * 24 * time.Hour                                           //nolint:mnd // month
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
