package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scenetic/cli/internal/api"
	"github.com/scenetic/cli/internal/auth"
	"github.com/scenetic/cli/internal/config"
	"github.com/scenetic/cli/internal/scan"
	"github.com/scenetic/cli/internal/store"
)

var logger = zap.NewNop()

// SetLogger installs the logger the subcommands log through.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// NewLogger builds the console logger for subcommands.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// NewFileLogger builds a JSON logger that writes only to path. The TUI owns
// the terminal, so it logs here instead.
func NewFileLogger(path, level string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		cfg.Level = lvl
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// Env is what a command builds from the saved config.
type Env struct {
	Config   *config.Config
	Client   *api.Client
	Identity *auth.Identity
}

// LoadEnv reads the config file and wires clients from it.
func LoadEnv() (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewEnv(cfg), nil
}

// NewEnv wires clients from cfg.
func NewEnv(cfg *config.Config) *Env {
	return &Env{
		Config: cfg,
		Client: api.NewClient(cfg.TagServiceURL(), cfg.HardwareServiceURL()),
		Identity: auth.NewIdentity(cfg.IdentityAPIKey(),
			auth.WithBaseURL(cfg.IdentityURL),
			auth.WithLogger(logger.Named("auth")),
			auth.WithSession(cfg.Session),
		),
	}
}

// FetchOptions applies the configured retry delay to preset fetches.
func (e *Env) FetchOptions() []scan.FetcherOption {
	opts := []scan.FetcherOption{scan.WithLogger(logger.Named("presets"))}
	if e.Config.RetryDelay > 0 {
		opts = append(opts, scan.WithRetryDelay(e.Config.RetryDelay))
	}
	return opts
}

// RequireAccounts fails when no identity API key is configured.
func (e *Env) RequireAccounts() error {
	if e.Config.IdentityAPIKey() == "" {
		return fmt.Errorf("no identity API key: set %s or api_key in %s", config.EnvAPIKey, config.Path())
	}
	return nil
}

// Stores are the opened match and image stores.
type Stores struct {
	Docs    *store.SQLiteDocuments
	Objects store.ObjectStore
}

// OpenStores opens the local match database and the configured image store:
// S3 when a bucket is set, a directory under the data dir otherwise.
func (e *Env) OpenStores(ctx context.Context) (*Stores, error) {
	docs, err := store.OpenSQLite(ctx, e.Config.DatabasePath())
	if err != nil {
		return nil, err
	}

	var objects store.ObjectStore
	if e.Config.S3.Bucket != "" {
		objects, err = store.NewS3Objects(ctx, store.S3Config{
			Bucket:   e.Config.S3.Bucket,
			Region:   e.Config.S3.Region,
			Endpoint: e.Config.S3.Endpoint,
			Prefix:   e.Config.S3.Prefix,
		})
	} else {
		objects, err = store.NewDirObjects(filepath.Join(e.Config.DataPath(), "snapshots"))
	}
	if err != nil {
		return nil, errors.Join(err, docs.Close())
	}
	logger.Debug("stores opened",
		zap.String("db", e.Config.DatabasePath()),
		zap.Bool("s3", e.Config.S3.Bucket != ""))
	return &Stores{Docs: docs, Objects: objects}, nil
}

// Close releases the database.
func (s *Stores) Close() error {
	return s.Docs.Close()
}
