// Package history implements SQLite persistence for completed batches.
//
// Only finished batches are recorded: one batches row plus one
// batch_results row per operation, in execution order. In-progress
// wizard state is never persisted.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/seaholm/wpec/internal/bulk"
	"github.com/seaholm/wpec/internal/shared"
)

// Batch is one recorded run of the bulk executor.
type Batch struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Operations int       `json:"operations"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Result is one persisted operation outcome.
type Result struct {
	ID           string `json:"id"`
	BatchID      string `json:"batch_id"`
	Position     int    `json:"position"`
	AccountID    string `json:"account_id"`
	AccountName  string `json:"account_name"`
	UserID       string `json:"user_id,omitempty"`
	UserName     string `json:"user_name"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Repository persists batch outcomes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository with the given database connection
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record writes a completed batch and its per-operation results in one
// transaction. Returns the generated batch ID.
func (r *Repository) Record(action bulk.Action, results []bulk.OperationResult, startedAt, finishedAt time.Time) (string, error) {
	summary := bulk.Summarize(results)
	batchID := shared.GenerateID()

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO batches (id, action, operation_count, success_count, failure_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, batchID, action.String(), summary.Total, summary.Success, summary.Failed, startedAt, finishedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert batch: %w", err)
	}

	for i, res := range results {
		_, err = tx.Exec(`
			INSERT INTO batch_results (id, batch_id, position, account_id, account_name, user_id, user_name, success, error_message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, shared.GenerateID(), batchID, i, res.AccountID, res.AccountName, res.UserID, res.UserName, res.Succeeded(), res.ErrorMessage())
		if err != nil {
			return "", fmt.Errorf("failed to insert batch result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit batch: %w", err)
	}

	return batchID, nil
}

// List returns the most recent batches, newest first. limit <= 0 means
// no limit.
func (r *Repository) List(limit int) ([]Batch, error) {
	query := `
		SELECT id, action, operation_count, success_count, failure_count, started_at, finished_at
		FROM batches
		ORDER BY started_at DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Action, &b.Operations, &b.Succeeded, &b.Failed, &b.StartedAt, &b.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// Get retrieves one batch by ID.
func (r *Repository) Get(batchID string) (*Batch, error) {
	var b Batch
	err := r.db.QueryRow(`
		SELECT id, action, operation_count, success_count, failure_count, started_at, finished_at
		FROM batches
		WHERE id = ?
	`, batchID).Scan(&b.ID, &b.Action, &b.Operations, &b.Succeeded, &b.Failed, &b.StartedAt, &b.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrBatchNotFound, batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query batch: %w", err)
	}
	return &b, nil
}

// Results returns a batch's per-operation outcomes in execution order.
func (r *Repository) Results(batchID string) ([]Result, error) {
	if _, err := r.Get(batchID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT id, batch_id, position, account_id, account_name, user_id, user_name, success, error_message
		FROM batch_results
		WHERE batch_id = ?
		ORDER BY position
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		var errMsg sql.NullString
		if err := rows.Scan(&res.ID, &res.BatchID, &res.Position, &res.AccountID, &res.AccountName, &res.UserID, &res.UserName, &res.Success, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan batch result: %w", err)
		}
		res.ErrorMessage = errMsg.String
		results = append(results, res)
	}
	return results, rows.Err()
}
