package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// AuthStatus checks the configured credentials by fetching the current
// user's profile.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	r.logger.Info("checking credentials", "base_url", r.config.API.BaseURL)

	user, err := r.client.Whoami(ctx)
	if err != nil {
		return err
	}

	r.writePlain("✓ Credentials accepted\n")
	r.writePlain("User: %s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	return nil
}
