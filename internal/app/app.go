// Package app assembles the client: local store, catalog client, state
// containers and the catalog service, from a loaded configuration.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mmcdole/boxoffice/internal/config"
	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/service"
	"github.com/mmcdole/boxoffice/internal/state"
	"github.com/mmcdole/boxoffice/internal/store"
	"github.com/mmcdole/boxoffice/internal/store/sqlite"
	"github.com/mmcdole/boxoffice/internal/tvmaze"
)

// SessionEnv overrides the session id used by one-shot commands
const SessionEnv = "BOXOFFICE_SESSION"

// App holds the wired components
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   store.Backend
	Client  *tvmaze.Client
	Catalog *service.CatalogService
}

// Option configures New
type Option func(*options)

type options struct {
	session store.Options
	repo    domain.CatalogRepository
	backend store.Backend
}

// WithSession sets the session id and whether the session ends on Close
func WithSession(id string, endOnClose bool) Option {
	return func(o *options) {
		o.session.SessionID = id
		o.session.EndSessionOnClose = endOnClose
	}
}

// WithRepository replaces the remote catalog (used by tests)
func WithRepository(repo domain.CatalogRepository) Option {
	return func(o *options) { o.repo = repo }
}

// WithBackend uses an already opened store instead of the configured one
func WithBackend(b store.Backend) Option {
	return func(o *options) { o.backend = b }
}

// New opens the configured store and wires the catalog service on top of it
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.session.SessionTTL = cfg.Storage.SessionTTL

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = OpenStore(cfg.Storage, o.session)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
	}

	client := tvmaze.NewClient(cfg.API.BaseURL,
		tvmaze.WithTimeout(cfg.API.Timeout),
		tvmaze.WithLogger(logger),
	)

	var repo domain.CatalogRepository = client
	if o.repo != nil {
		repo = o.repo
	}

	starred := state.NewStarred(store.Persistent(backend), state.WithLogger(logger))
	lastQuery := state.LastQuery(store.Session(backend), state.WithLogger(logger))

	logger.Info("store opened",
		"backend", cfg.Storage.Backend,
		"session", o.session.SessionID,
		"starred", len(starred.IDs()),
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   backend,
		Client:  client,
		Catalog: service.NewCatalogService(repo, starred, lastQuery, logger),
	}, nil
}

// Close releases the store. Sessions opened with endOnClose are deleted.
func (a *App) Close() error {
	return a.Store.Close()
}

// OpenStore opens the backend named by cfg
func OpenStore(cfg config.StorageConfig, opts store.Options) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendSQLite:
		s, err := sqlite.Open(expandHome(cfg.Path), opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendBolt, "":
		b, err := store.OpenBolt(expandHome(cfg.Path), opts)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}

// CommandSessionID returns the session shared by one-shot commands run from
// the same shell: $BOXOFFICE_SESSION, else the parent process id.
func CommandSessionID() string {
	if id := strings.TrimSpace(os.Getenv(SessionEnv)); id != "" {
		return id
	}
	return "ppid-" + strconv.Itoa(os.Getppid())
}

// InteractiveSessionID returns a fresh session id for one TUI run
func InteractiveSessionID() string {
	return "tui-" + uuid.NewString()
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
