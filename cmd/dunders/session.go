package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mcoding/dunders/internal/debug"
	gh "github.com/mcoding/dunders/internal/github"
	"github.com/mcoding/dunders/internal/reconcile"
	"github.com/mcoding/dunders/internal/snapshot"
	"github.com/mcoding/dunders/internal/telemetry"
	"github.com/mcoding/dunders/internal/types"
	"github.com/mcoding/dunders/internal/ui"
)

// withSnapshot locks and loads the snapshot, runs fn on its records and
// saves them afterwards, also when fn fails part way so that progress made
// against GitHub is never lost. A missing snapshot is an error unless
// allowMissing is set, in which case fn starts from an empty list.
func withSnapshot(path string, allowMissing bool, fn func([]*types.Dunder) ([]*types.Dunder, error)) error {
	lock, err := snapshot.Lock(path)
	if err != nil {
		return fmt.Errorf("failed to lock snapshot: %w", err)
	}
	defer func() { _ = lock.Release() }()

	dunders, err := snapshot.Load(path)
	if err != nil {
		if !allowMissing || !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		dunders = nil
	}

	result, runErr := fn(dunders)
	if result == nil {
		return runErr
	}
	if err := snapshot.Save(path, result); err != nil {
		return errors.Join(runErr, err)
	}
	logger.Debug("snapshot saved", "path", path, "dunders", len(result))
	return runErr
}

// newClient builds the GitHub client from the current settings.
func newClient() (*gh.Client, error) {
	if err := settings.RequireGitHub(); err != nil {
		return nil, err
	}
	client := gh.NewClient(settings.Token, settings.Owner, settings.Repo)
	if settings.APIURL != "" && settings.APIURL != gh.DefaultAPIEndpoint {
		client = client.WithBaseURL(settings.APIURL)
	}
	return client, nil
}

// newReconciler connects to the configured repository and resolves the root
// URL used for links in issue bodies.
func newReconciler(ctx context.Context) (*reconcile.Reconciler, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	repo, err := client.GetRepository(ctx)
	if err != nil {
		return nil, err
	}

	r := reconcile.New(telemetry.WrapTracker(client), repo.BlobURL(), settings.Delay)
	r.Logger = logger
	r.OnMessage = func(msg string) { debug.PrintlnNormal(msg) }
	r.OnWarning = func(msg string) { logger.Warn(msg) }
	logger.Debug("connected", "repo", repo.HTMLURL, "root", repo.BlobURL(), "delay", settings.Delay)
	return r, nil
}

// resultIcon picks the summary icon for a command that may have stopped early.
func resultIcon(err error) string {
	if err != nil {
		return ui.RenderFailIcon()
	}
	return ui.RenderPassIcon()
}
