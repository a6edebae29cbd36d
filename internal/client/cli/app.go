package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/client/client"
	"github.com/dmitrijs2005/propkeeper/internal/client/config"
	clientdb "github.com/dmitrijs2005/propkeeper/internal/client/db"
	"github.com/dmitrijs2005/propkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/propkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/propkeeper/internal/client/services"
	"github.com/dmitrijs2005/propkeeper/internal/client/session"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const sessionExpiredNotice = "session expired, please login again"

type App struct {
	config      *config.Config
	authService services.AuthService
	resources   services.ResourceService
	session     *session.Session
	db          *sql.DB
	logger      logging.Logger
	reader      *bufio.Reader
	out         io.Writer

	mu       sync.Mutex
	mode     Mode
	userName string
	notice   string
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := clientdb.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	sess, err := session.New(ctx, session.NewSQLiteStore(db), logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	apiClient, err := client.NewRESTClient(client.Options{
		BaseURL: c.APIBaseURL,
		Timeout: c.RequestTimeout,
		Logger:  logger,
	}, sess)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config:      c,
		authService: services.NewAuthService(apiClient, sess, metadata.NewSQLiteRepository(db), records.NewSQLiteRepository(db), logger),
		resources:   services.NewResourceService(apiClient, db, logger),
		session:     sess,
		db:          db,
		logger:      logger,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}
	sess.OnTerminated(a.onSessionTerminated)
	if sess.Active() {
		a.userName = a.authService.LastUsername(ctx)
	}
	return a, nil
}

// Close releases the local database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Run starts the connectivity watcher and blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to propkeeper CLI (type 'help' for commands)")
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Session restored")
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) isLoggedIn() bool {
	return a.session != nil && a.session.Active()
}

// onSessionTerminated runs when a token refresh is refused.
func (a *App) onSessionTerminated(ctx context.Context, cause error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = ""
	a.notice = sessionExpiredNotice
}

// takeNotice returns and clears the pending notice.
func (a *App) takeNotice() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := a.notice
	a.notice = ""
	return n
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed && a.logger != nil {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the server every interval and switches the
// mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
