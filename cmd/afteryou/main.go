package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/afteryou/internal/client/api"
	"github.com/dmitrijs2005/afteryou/internal/client/cli"
	"github.com/dmitrijs2005/afteryou/internal/client/config"
	"github.com/dmitrijs2005/afteryou/internal/client/session"
	"github.com/dmitrijs2005/afteryou/internal/client/storage"
	"github.com/dmitrijs2005/afteryou/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Execute(ctx, newEnv, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()

	if err != nil {
		os.Exit(1)
	}

}

// newEnv opens the session database and wires the API client to it.
func newEnv(ctx context.Context, cfg *config.Config) (cli.Env, error) {
	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cli.Env{}, err
	}

	db, err := storage.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return cli.Env{}, err
	}

	store := session.NewTokenStore(db)
	client, err := api.New(cfg.ServerURL, store, api.WithTimeout(cfg.RequestTimeout), api.WithLogger(log))
	if err != nil {
		_ = db.Close()
		return cli.Env{}, err
	}

	sess := session.New(client, store, log)
	client.OnLoggedOut(sess.HandleLoggedOut)

	return cli.Env{
		Config:  cfg,
		Backend: client,
		Session: sess,
		Log:     log,
		Close:   db.Close,
	}, nil
}
