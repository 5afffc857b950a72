package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/folio/internal/access"
	"github.com/five82/folio/internal/config"
	"github.com/five82/folio/internal/library"
	"github.com/five82/folio/internal/logging"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/session"
	"github.com/five82/folio/internal/ui"
)

// Options configure the folio application. Non-empty fields override the
// config file and environment.
type Options struct {
	ConfigPath string
	EnvFile    string
	APIURL     string
	LogFile    string
}

// Env holds the wired dependencies shared by the TUI and the CLI commands.
type Env struct {
	Config  config.Config
	Logger  *slog.Logger
	Session *session.Store
	Client  *library.Client
	Prefs   prefs.Prefs
	Policy  access.Policy
	// Now is the clock used to classify borrowings.
	Now     func() time.Time

	closeLog func()
}

// Bootstrap loads configuration, opens the log file and session store, and
// builds the library client. Callers must Close the returned Env.
func Bootstrap(opts Options) (*Env, error) {
	var envFiles []string
	if strings.TrimSpace(opts.EnvFile) != "" {
		envFiles = append(envFiles, opts.EnvFile)
	}
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(opts.LogFile); v != "" {
		expanded, err := config.ExpandPath(v)
		if err != nil {
			return nil, fmt.Errorf("resolve log file: %w", err)
		}
		cfg.LogFile = expanded
	}

	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := session.Open(cfg.SessionFile, session.WithLogger(logger))
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open session: %w", err)
	}

	client, err := library.NewClient(library.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout(),
		Tokens:  store,
		Logger:  logger,
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("init library client: %w", err)
	}

	userPrefs, err := prefs.Load(cfg.PrefsFile)
	if err != nil {
		logger.Warn("failed to load preferences", "path", cfg.PrefsFile, "error", err)
		userPrefs = prefs.Defaults()
	}

	logger.Info("folio started",
		"api_url", cfg.APIURL,
		"session_file", cfg.SessionFile,
		"signed_in", store.Current().Authenticated(),
		"strict_borrow", cfg.StrictBorrow,
	)

	return &Env{
		Config:   cfg,
		Logger:   logger,
		Session:  store,
		Client:   client,
		Prefs:    userPrefs,
		Policy:   access.Policy{StrictBorrow: cfg.StrictBorrow},
		Now:      time.Now,
		closeLog: closeLog,
	}, nil
}

// Close flushes and closes the log file.
func (e *Env) Close() {
	if e == nil || e.closeLog == nil {
		return
	}
	e.closeLog()
	e.closeLog = nil
}

// Permissions evaluates the access policy for the stored session.
func (e *Env) Permissions() access.Permissions {
	return e.Policy.Evaluate(e.Session.Subject())
}

// Run boots the folio TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	err = ui.Run(ui.Options{
		Context:      ctx,
		Service:      env.Client,
		Session:      env.Session,
		Policy:       env.Policy,
		Logger:       env.Logger,
		Prefs:        env.Prefs,
		PrefsPath:    env.Config.PrefsFile,
		FetchTimeout: env.Config.Timeout(),
		Now:          env.Now,
	})
	if err != nil {
		env.Logger.Error("ui exited with error", "error", err)
		return fmt.Errorf("run ui: %w", err)
	}
	env.Logger.Info("folio stopped")
	return nil
}
