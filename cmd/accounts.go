package main

import (
	"context"

	"github.com/seaholm/wpec/internal/catalog"
	"github.com/seaholm/wpec/internal/formatter"
	"github.com/urfave/cli/v3"
)

// AccountsList prints one page of accounts.
func (r *Runner) AccountsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	page, err := r.client.AccountsPage(ctx, cmd.Int("limit"), cmd.Int("offset"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	if err := r.writeBytes(formatter.AccountsTable(page.Results)); err != nil {
		return err
	}
	return r.writePlain("%d of %d accounts\n", len(page.Results), page.Count)
}

// SitesList prints one page of sites.
func (r *Runner) SitesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	page, err := r.client.SitesPage(ctx, cmd.String("account"), cmd.Int("limit"), cmd.Int("offset"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	if err := r.writeBytes(formatter.SitesTable(page.Results)); err != nil {
		return err
	}
	return r.writePlain("%d of %d sites\n", len(page.Results), page.Count)
}

// InstallsList prints one page of installs.
func (r *Runner) InstallsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	page, err := r.client.InstallsPage(ctx, cmd.String("account"), cmd.Int("limit"), cmd.Int("offset"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	if err := r.writeBytes(formatter.InstallsTable(page.Results)); err != nil {
		return err
	}
	return r.writePlain("%d of %d installs\n", len(page.Results), page.Count)
}

// UsersList prints the merged user directory, or one account's raw
// listing when --account is given.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	if accountID := cmd.String("account"); accountID != "" {
		users, err := r.client.ListAccountUsers(ctx, accountID)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(users, true)
		}
		return r.writeBytes(formatter.AccountUsersTable(users))
	}

	cat, err := catalog.Load(ctx, r.client, catalog.Opts{
		RateLimit: r.config.API.RateLimit,
		Logger:    r.logger,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(cat.Users, true)
	}

	if err := r.writeBytes(formatter.UsersTable(cat.Users)); err != nil {
		return err
	}
	return r.writePlain("%d users across %d accounts\n", len(cat.Users), len(cat.Accounts))
}
