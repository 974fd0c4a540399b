package cli

import (
	"context"
	"fmt"

	"github.com/existflow/controlcentre/internal/auth"
	"github.com/existflow/controlcentre/internal/config"
	"github.com/existflow/controlcentre/internal/discord"
	"github.com/existflow/controlcentre/internal/github"
	"github.com/existflow/controlcentre/internal/localstore"
	"github.com/existflow/controlcentre/internal/remote"
	"github.com/existflow/controlcentre/internal/settings"
	"github.com/existflow/controlcentre/internal/store"
	"github.com/existflow/controlcentre/internal/syncer"
)

// App wires the store, adapters, and collaborators for one invocation.
// Everything is constructed here and passed down explicitly; nothing hangs
// off package globals.
type App struct {
	Config   *config.Config
	Settings *settings.Service
	Session  *auth.Session
	Local    *localstore.Adapter
	Remote   *remote.Client
	Store    *store.Store
	Syncer   *syncer.Controller
	Notifier *discord.Notifier
}

// openApp builds the app and runs the initial sync: seed the store from
// the local snapshot, hydrate from the remote when reachable, then keep
// pushing local edits for the rest of the invocation.
func openApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("no data directory configured")
	}

	svc := settings.NewService(cfg.DataDir)
	session := auth.NewSession(cfg.DataDir)
	local := localstore.New(cfg.DataDir)
	remoteClient := remote.NewClient(cfg.ServerURL, cfg.ServerToken)

	st := store.New(local.Load())
	ctrl := syncer.New(st, local, remoteClient)
	ctrl.Start(ctx)

	app := &App{
		Config:   cfg,
		Settings: svc,
		Session:  session,
		Local:    local,
		Remote:   remoteClient,
		Store:    st,
		Syncer:   ctrl,
		Notifier: discord.New(svc, github.NewClient()),
	}
	return app, nil
}

// Close tears down the sync controller.
func (a *App) Close() {
	a.Syncer.Stop()
}
