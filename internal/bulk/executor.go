package bulk

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/seaholm/wpec/internal/shared"
	"github.com/seaholm/wpec/internal/wpe"
)

// OpKind distinguishes the two remote operations a queue can contain.
type OpKind int

const (
	OpAdd OpKind = iota
	OpRemove
)

// Operation is one unit of remote work: grant or revoke one user on one
// account.
type Operation struct {
	Kind        OpKind
	AccountID   string
	AccountName string
	UserID      string // set for removals
	UserName    string
	Payload     wpe.UserPayload // set for additions
}

// OperationResult records the outcome of one operation. Failures are
// captured here as data; the executor never aborts the queue.
type OperationResult struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	UserID      string `json:"user_id,omitempty"`
	UserName    string `json:"user_name"`
	Err         error  `json:"-"`
}

// Succeeded reports whether the operation completed without error.
func (r OperationResult) Succeeded() bool { return r.Err == nil }

// ErrorMessage returns the captured error text, "" on success.
func (r OperationResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// ProgressUpdate is emitted after each operation completes.
type ProgressUpdate struct {
	Completed int
	Total     int
	Percent   float64
	Result    OperationResult
}

// BuildQueue flattens a session into the ordered operation queue. The add
// path yields one operation per (user, assignment) pair in selection then
// assignment order; the remove path yields one per user. A new-user
// reference in a remove batch has nothing to delete and is skipped.
func BuildQueue(s *Session) []Operation {
	var queue []Operation

	for _, item := range s.Selection {
		if s.Action == ActionRemove {
			if item.Ref.IsNew() {
				continue
			}
			queue = append(queue, Operation{
				Kind:        OpRemove,
				AccountID:   item.Ref.HomeAccountID(),
				AccountName: item.Ref.HomeAccountName(),
				UserID:      item.Ref.UserID(),
				UserName:    item.Ref.DisplayName(),
			})
			continue
		}

		for _, a := range item.Assignments {
			queue = append(queue, Operation{
				Kind:        OpAdd,
				AccountID:   a.AccountID,
				AccountName: a.AccountName,
				UserName:    item.Ref.DisplayName(),
				Payload: wpe.UserPayload{
					FirstName: item.Ref.FirstName(),
					LastName:  item.Ref.LastName(),
					Email:     item.Ref.Email(),
					Roles:     a.Role,
					AccountID: a.AccountID,
				},
			})
		}
	}

	return queue
}

// Executor runs operation queues against a provisioner, strictly one
// remote call at a time.
type Executor struct {
	provisioner wpe.Provisioner
	logger      *log.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(p wpe.Provisioner, logger *log.Logger) *Executor {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Executor{provisioner: p, logger: logger}
}

// Run executes the session's queue sequentially. Every operation appends
// exactly one result; a failed call is captured and the queue keeps
// going. After each operation a ProgressUpdate is offered to prog
// without blocking, so a slow consumer never stalls the batch. Once
// started the batch runs to completion; there is no mid-batch cancel.
//
// On return the session holds the results, Progress is 100, and the
// step is StepResults. An empty queue completes immediately.
func (e *Executor) Run(ctx context.Context, s *Session, prog chan<- ProgressUpdate) []OperationResult {
	queue := BuildQueue(s)
	total := len(queue)

	results := make([]OperationResult, 0, total)

	if total == 0 {
		s.Results = results
		s.Progress = 100
		s.Step = StepResults
		e.sendProgress(prog, ProgressUpdate{Total: 0, Percent: 100})
		return results
	}

	for i, op := range queue {
		res := e.execute(ctx, op)
		results = append(results, res)

		s.Progress = float64(i+1) / float64(total) * 100
		e.sendProgress(prog, ProgressUpdate{
			Completed: i + 1,
			Total:     total,
			Percent:   s.Progress,
			Result:    res,
		})
	}

	s.Results = results
	s.Step = StepResults
	return results
}

func (e *Executor) execute(ctx context.Context, op Operation) OperationResult {
	res := OperationResult{
		AccountID:   op.AccountID,
		AccountName: op.AccountName,
		UserID:      op.UserID,
		UserName:    op.UserName,
	}

	var err error
	switch op.Kind {
	case OpRemove:
		err = e.provisioner.DeleteAccountUser(ctx, op.AccountID, op.UserID)
	default:
		err = e.provisioner.CreateAccountUser(ctx, op.AccountID, op.Payload)
	}

	if err != nil {
		res.Err = fmt.Errorf("%s on %s: %w", op.Kind, op.AccountID, err)
		e.logger.Error("operation failed",
			"kind", op.Kind.String(),
			"account", op.AccountID,
			"user", op.UserName,
			"error", err)
	}
	return res
}

func (e *Executor) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

func (k OpKind) String() string {
	if k == OpRemove {
		return "remove"
	}
	return "add"
}

// Summary aggregates a result list.
type Summary struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

// Summarize counts outcomes. Success+Failed always equals Total.
func Summarize(results []OperationResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Succeeded() {
			s.Success++
		} else {
			s.Failed++
		}
	}
	return s
}
