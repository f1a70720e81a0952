package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/pictofold/pictofold-cli/internal/client/api"
	"github.com/pictofold/pictofold-cli/internal/client/config"
	"github.com/pictofold/pictofold-cli/internal/client/flows/login"
	"github.com/pictofold/pictofold-cli/internal/client/preview"
	"github.com/pictofold/pictofold-cli/internal/client/session"
	"github.com/pictofold/pictofold-cli/internal/client/storage"
	"github.com/pictofold/pictofold-cli/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the client pieces together and carries the state shared
// between REPL commands.
type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	sessions  *session.Store
	gateway   api.Gateway
	loginCtrl *login.Controller
	previews  *preview.Manager
	reader    *bufio.Reader
	out       io.Writer
}

// NewApp opens the local state database, restores any persisted session,
// and builds the gateway and controllers on top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	sessions := session.NewStore(db, log)
	sessions.Bootstrap(ctx)

	gateway := api.NewHTTPGateway(c.BaseURL, sessions, c.RequestTimeout, log)

	previews, err := preview.NewManager(c.PreviewDir)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		config:    c,
		log:       log,
		db:        db,
		sessions:  sessions,
		gateway:   gateway,
		loginCtrl: login.New(gateway, sessions),
		previews:  previews,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return "signed in"
	}
	return "signed out"
}
