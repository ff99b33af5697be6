package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/tfx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin forces the interactive OAuth2 authorization flow and caches the
// resulting token pair, regardless of cache state.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	shared.SetVerbosity(r.logger, cmd.Bool("verbose"))

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	provider, err := r.providerFor(config)
	if err != nil {
		return err
	}

	token, err := provider.Login(ctx)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", r.palette.OK("Authorization successful"))
	if !token.Expiry.IsZero() {
		r.writePlain("  Access token valid until %s\n", token.Expiry.Format(time.RFC1123))
	}

	return nil
}

// AuthStatus reports the state of the token cache without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	provider, err := r.providerFor(config)
	if err != nil {
		return err
	}

	token, err := provider.Cached()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	switch {
	case token == nil:
		r.writePlain("%s\n", r.palette.Warn("Not authenticated"))
		r.writePlain("%s\n", r.palette.Help("Run: tfx auth login"))
	case token.Valid():
		r.writePlain("%s\n", r.palette.OK("Authenticated"))
		r.writePlain("  Access token valid until %s\n", token.Expiry.Format(time.RFC1123))
	case token.RefreshToken != "":
		r.writePlain("%s\n", r.palette.Warn("Access token expired; will refresh on next fetch"))
	default:
		r.writePlain("%s\n", r.palette.Warn("Access token expired and no refresh token cached"))
		r.writePlain("%s\n", r.palette.Help("Run: tfx auth login"))
	}

	return nil
}

// AuthLogout deletes the cached token pair.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	provider, err := r.providerFor(config)
	if err != nil {
		return err
	}

	if err := provider.Logout(); err != nil {
		return err
	}

	r.writePlain("%s\n", r.palette.OK("Logged out"))
	return nil
}
