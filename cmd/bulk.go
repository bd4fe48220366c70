package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/seaholm/wpec/internal/bulk"
	"github.com/seaholm/wpec/internal/catalog"
	"github.com/seaholm/wpec/internal/formatter"
	"github.com/seaholm/wpec/internal/shared"
	"github.com/seaholm/wpec/internal/wpe"
	"github.com/urfave/cli/v3"
)

// plan is the headless batch description accepted by `bulk run`.
type plan struct {
	Action string     `json:"action"`
	Users  []planUser `json:"users"`
}

type planUser struct {
	FirstName   string           `json:"first_name,omitempty"`
	LastName    string           `json:"last_name,omitempty"`
	Email       string           `json:"email"`
	Assignments []planAssignment `json:"assignments,omitempty"`
}

type planAssignment struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
}

// BulkRun executes a batch described by a plan file: the plan is decoded,
// validated through the same session rules the console enforces, executed
// sequentially, reported, and recorded to history.
func (r *Runner) BulkRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	data, err := os.ReadFile(cmd.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}

	var p plan
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: plan is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	cat, err := catalog.Load(ctx, r.client, catalog.Opts{
		RateLimit: r.config.API.RateLimit,
		Logger:    r.logger,
	})
	if err != nil {
		return err
	}

	session, err := buildSession(p, cat)
	if err != nil {
		return err
	}

	queue := bulk.BuildQueue(session)
	r.logger.Info("executing batch", "action", session.Action, "operations", len(queue))

	started := time.Now()
	results := bulk.NewExecutor(r.client, r.logger).Run(ctx, session, nil)
	finished := time.Now()

	db, repo, err := r.openHistory()
	if err != nil {
		r.logger.Warn("batch not recorded", "error", err)
	} else {
		defer db.Close()
		batchID, err := repo.Record(session.Action, results, started, finished)
		if err != nil {
			r.logger.Warn("batch not recorded", "error", err)
		} else {
			r.logger.Info("batch recorded", "batch_id", batchID)
		}
	}

	if out := cmd.String("out"); out != "" {
		path, err := formatter.WriteCSVReport(results, out)
		if err != nil {
			return err
		}
		r.logger.Info("report written", "path", path)
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Summary bulk.Summary           `json:"summary"`
			Results []bulk.OperationResult `json:"results"`
		}{bulk.Summarize(results), results}, true)
	}

	return r.writeBytes(formatter.BatchReport(session.Action, results))
}

// buildSession validates a plan through the session's own rules, walking
// the wizard steps to the review state.
func buildSession(p plan, cat *catalog.Catalog) (*bulk.Session, error) {
	action, err := bulk.ParseAction(p.Action)
	if err != nil {
		return nil, err
	}

	session := bulk.NewSession()
	session.SetAction(action)

	for _, u := range p.Users {
		if action == bulk.ActionRemove {
			user, ok := cat.FindUser(u.Email)
			if !ok {
				return nil, fmt.Errorf("%w: no account user with email %s", shared.ErrInvalidInput, u.Email)
			}
			if session.Selected(u.Email) {
				return nil, fmt.Errorf("%w: %s listed twice", shared.ErrDuplicateEmail, u.Email)
			}
			session.ToggleExisting(user)
			continue
		}

		first, last := u.FirstName, u.LastName
		if user, ok := cat.FindUser(u.Email); ok {
			// Known user: catalog identity wins over whatever the plan says.
			first, last = user.FirstName, user.LastName
		}
		if err := session.AddNew(first, last, u.Email); err != nil {
			return nil, err
		}

		itemID := session.Selection[session.Len()-1].ID
		for _, a := range u.Assignments {
			if !wpe.ValidRole(a.Role) {
				return nil, fmt.Errorf("%w: %q (valid: %v)", shared.ErrInvalidRole, a.Role, wpe.Roles())
			}
			account, ok := cat.Account(a.AccountID)
			if !ok {
				return nil, fmt.Errorf("%w: %s", shared.ErrAccountNotFound, a.AccountID)
			}
			session.SetPendingAccount(itemID, account.ID, account.Name)
			session.SetPendingRole(itemID, a.Role)
			session.CommitPending(itemID)
		}
	}

	// Walk the step guards the way the console would.
	if err := session.Next(); err != nil {
		return nil, err
	}
	if session.Step == bulk.StepAssign {
		if err := session.Next(); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// BulkHistory lists recorded batches.
func (r *Runner) BulkHistory(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	batches, err := repo.List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(batches, true)
	}

	if len(batches) == 0 {
		return r.writePlain("no recorded batches\n")
	}
	return r.writeBytes(formatter.HistoryTable(batches))
}

// BulkResults shows one recorded batch's outcomes.
func (r *Runner) BulkResults(ctx context.Context, cmd *cli.Command) error {
	batchID := cmd.StringArg("batch-id")
	if batchID == "" {
		return fmt.Errorf("%w: batch-id", shared.ErrMissingArgument)
	}

	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := repo.Results(batchID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}
	return r.writeBytes(formatter.StoredResultsTable(results))
}
