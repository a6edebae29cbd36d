// Package server wires the dev server: in-memory users, refresh tokens and
// records behind the HTTP API, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/server/config"
	"github.com/dmitrijs2005/propkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/propkeeper/internal/server/refreshtokens"
	"github.com/dmitrijs2005/propkeeper/internal/server/resources"
	"github.com/dmitrijs2005/propkeeper/internal/server/users"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	userService     *users.Service
	resourceService *resources.Service
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewJSONLogger(os.Stdout)
	}

	us := users.NewService(users.NewMemoryRepository(), refreshtokens.NewMemoryRepository(), c)
	rs := resources.NewService(resources.NewMemoryRepository(), c.PageSize)

	app := &App{config: c, logger: logger, userService: us, resourceService: rs}

	if c.SeedDemoData {
		if err := Seed(context.Background(), us, rs); err != nil {
			return nil, fmt.Errorf("seed error: %w", err)
		}
		logger.Info(context.Background(), "demo data seeded", "user", DemoUsername)
	}

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *App) Handler() http.Handler {
	h := httpapi.NewHandlers(app.userService, app.resourceService, app.logger)
	return httpapi.NewRouter(h, app.userService, app.logger)
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
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.Handler())

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
