// Package server initializes and runs the rosterkeeper server: storage,
// signing keys, the domain services and the HTTP API, with graceful shutdown
// on OS signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/rosterkeeper/internal/cryptox"
	"github.com/dmitrijs2005/rosterkeeper/internal/logging"
	"github.com/dmitrijs2005/rosterkeeper/internal/server/config"
	"github.com/dmitrijs2005/rosterkeeper/internal/server/exports"
	"github.com/dmitrijs2005/rosterkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/rosterkeeper/internal/server/shared/db"
	"github.com/dmitrijs2005/rosterkeeper/internal/server/users"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	repoManager   db.RepositoryManager
	keyManager    *cryptox.KeyManager
	userService   *users.Service
	exportService *exports.Service
}

// NewApp wires the application together. Key material is loaded (or
// generated) before anything is served; a key failure aborts startup.
func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	rm, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	km := cryptox.NewKeyManager(cfg.KeyDir)
	if err := km.EnsureKeys(); err != nil {
		return nil, fmt.Errorf("key init error: %w", err)
	}

	us := users.NewService(rm.Users(), km)
	es := exports.NewService(us, exports.NewArchiver(cfg), logger)

	return &App{
		config:        cfg,
		logger:        logger,
		repoManager:   rm,
		keyManager:    km,
		userService:   us,
		exportService: es,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config, app.userService, app.exportService, app.keyManager, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repoManager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
