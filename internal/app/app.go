package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/proofhq/proof/internal/activity"
	"github.com/proofhq/proof/internal/activitylog"
	"github.com/proofhq/proof/internal/ai"
	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/internal/auth"
	"github.com/proofhq/proof/internal/catalog"
	"github.com/proofhq/proof/internal/config"
	"github.com/proofhq/proof/internal/database"
	"github.com/proofhq/proof/internal/export"
	"github.com/proofhq/proof/internal/mood"
	"github.com/proofhq/proof/internal/querycache"
	"github.com/proofhq/proof/internal/reflection"
	"github.com/proofhq/proof/internal/session"
	"github.com/proofhq/proof/internal/space"
	"github.com/proofhq/proof/internal/story"
	"github.com/proofhq/proof/internal/survey"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App is the dependency container for the CLI application
type App struct {
	DB      *sql.DB
	Repo    *database.Repository
	Config  *config.Config
	Logger  *zap.Logger
	Session *session.Session
	API     *api.Client
	Catalog *catalog.Catalog
	Cache   *querycache.Cache

	Auth        *auth.Service
	Reflections *reflection.Service
	Surveys     *survey.Service
	Stories     *story.Service
	Spaces      *space.Service
	Activities  *activity.Service
	Logs        *activitylog.Service
	Mood        *mood.Service
	Printer     *export.Printer

	nav       *navigator
	closeOnce sync.Once
}

// Options tune NewApp.
type Options struct {
	Verbose bool
	// Navigate receives every route a flow moves to. Nil discards them.
	Navigate func(route string)
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(filepath.Join(dir, "proof.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	repo := database.NewRepository(db)

	sess, err := session.Open(ctx, session.DBStore{Repo: repo})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	cat, err := catalog.Load(cfg.TemplatesFile)
	if err != nil {
		db.Close()
		return nil, err
	}

	client := api.New(cfg.APIBaseURL, sess,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout()}),
		api.WithLogger(logger.Named("api")),
	)
	cache := querycache.New(repo)
	nav := &navigator{fn: opts.Navigate, logger: logger}

	return &App{
		DB:      db,
		Repo:    repo,
		Config:  cfg,
		Logger:  logger,
		Session: sess,
		API:     client,
		Catalog: cat,
		Cache:   cache,

		Auth:        auth.NewService(client, sess, nav, cfg.RedirectDelay(), logger.Named("auth")),
		Reflections: reflection.NewService(client, repo, cat, nav, logger.Named("reflection")),
		Surveys:     survey.NewService(client, sess, logger.Named("survey")),
		Stories:     story.NewService(client, cache, logger.Named("story")),
		Spaces:      space.NewService(client, cache, sess, logger.Named("space")),
		Activities:  activity.NewService(client),
		Logs:        activitylog.NewService(client),
		Mood:        mood.NewService(client, sess, logger.Named("mood")),
		Printer:     export.NewPrinter(export.WithLogger(logger.Named("chrome"))),
		nav:         nav,
	}, nil
}

// Analyzer builds the AI analyzer on demand; a missing API key is only an
// error for the commands that need it.
func (a *App) Analyzer(ctx context.Context) (*ai.Analyzer, error) {
	if a.Config.GeminiAPIKey == "" {
		return nil, ai.ErrNoAPIKey
	}
	gen, err := ai.NewGemini(ctx, a.Config.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	return ai.NewAnalyzer(gen, a.Config.GeminiModel, a.Logger.Named("ai")), nil
}

// Close closes all resources
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		if a.Spaces != nil {
			a.Spaces.Close()
		}
		if a.Session != nil {
			a.Session.Close()
		}
		if a.Logger != nil {
			_ = a.Logger.Sync()
		}
		if a.DB != nil {
			err = a.DB.Close()
		}
	})
	return err
}

// newLogger builds a console logger on stderr. verbose forces debug level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log_level %q: %w", level, err)
		}
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// navigator forwards routes chosen by the flows to the CLI.
type navigator struct {
	fn     func(string)
	logger *zap.Logger
}

func (n *navigator) Navigate(route string) {
	n.logger.Debug("navigate", zap.String("route", route))
	if n.fn != nil {
		n.fn(route)
	}
}
