// Package server initializes and runs the todo application: it opens the
// configured storage backend, applies migrations, builds the services and
// serves the REST API until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/ruchidavda1/todoapp/internal/logging"
	"github.com/ruchidavda1/todoapp/internal/server/config"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/repomanager"
	"github.com/ruchidavda1/todoapp/internal/server/rest"
	"github.com/ruchidavda1/todoapp/internal/server/services"
)

type App struct {
	config      *config.Config
	base        logging.Logger
	logger      logging.Logger
	manager     repomanager.RepositoryManager
	registry    *prometheus.Registry
	userService *services.UserService
	todoService *services.TodoService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	base := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	rm, err := repomanager.New(c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if pm, ok := rm.(*repomanager.PostgresRepositoryManager); ok {
		reg.MustRegister(collectors.NewDBStatsCollector(pm.DB(), "todoapp"))
	}

	return &App{
		config:      c,
		base:        base,
		logger:      base.With("module", "app"),
		manager:     rm,
		registry:    reg,
		userService: services.NewUserService(rm, c),
		todoService: services.NewTodoService(rm),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s, err := rest.NewRESTServer(app.config.EndpointAddrHTTP, app.base,
		app.userService, app.todoService, app.manager, app.registry, app.config.RequestTimeout)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is canceled, a termination signal arrives or the
// server fails, then releases the storage backend.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
