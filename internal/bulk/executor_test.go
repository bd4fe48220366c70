package bulk

import (
	"context"
	"errors"
	"testing"

	"github.com/seaholm/wpec/internal/wpe"

	helpers "github.com/seaholm/wpec/internal/testing"
)

// addSession builds a two-user add session: ada with two assignments,
// grace with one.
func addSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()

	if err := s.AddNew("Ada", "Lovelace", "ada@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNew("Grace", "Hopper", "grace@example.com"); err != nil {
		t.Fatal(err)
	}

	ada, grace := s.Selection[0].ID, s.Selection[1].ID
	for _, commit := range []struct {
		id, accountID, accountName, role string
	}{
		{ada, "a1", "Alpha", wpe.RoleFull},
		{ada, "a2", "Beta", wpe.RolePartial},
		{grace, "a1", "Alpha", wpe.RoleOwner},
	} {
		s.SetPendingAccount(commit.id, commit.accountID, commit.accountName)
		s.SetPendingRole(commit.id, commit.role)
		if !s.CommitPending(commit.id) {
			t.Fatalf("failed to commit %s on %s", commit.role, commit.accountID)
		}
	}
	return s
}

func TestBuildQueue(t *testing.T) {
	t.Run("add yields one op per assignment in order", func(t *testing.T) {
		queue := BuildQueue(addSession(t))

		if len(queue) != 3 {
			t.Fatalf("expected 3 operations, got %d", len(queue))
		}

		want := []struct {
			accountID, email, role string
		}{
			{"a1", "ada@example.com", wpe.RoleFull},
			{"a2", "ada@example.com", wpe.RolePartial},
			{"a1", "grace@example.com", wpe.RoleOwner},
		}
		for i, w := range want {
			op := queue[i]
			if op.Kind != OpAdd || op.AccountID != w.accountID || op.Payload.Email != w.email || op.Payload.Roles != w.role {
				t.Errorf("op[%d] = %+v, want %+v", i, op, w)
			}
		}
	})

	t.Run("remove yields one op per user", func(t *testing.T) {
		s := NewSession()
		s.SetAction(ActionRemove)
		s.ToggleExisting(catalogUser("u1", "Ada", "Lovelace", "ada@example.com"))
		s.ToggleExisting(catalogUser("u2", "Grace", "Hopper", "grace@example.com"))

		queue := BuildQueue(s)
		if len(queue) != 2 {
			t.Fatalf("expected 2 operations, got %d", len(queue))
		}
		if queue[0].Kind != OpRemove || queue[0].UserID != "u1" || queue[0].AccountID != "a1" {
			t.Errorf("unexpected first op: %+v", queue[0])
		}
		if queue[0].AccountName != "Alpha" {
			t.Errorf("expected home account name, got %q", queue[0].AccountName)
		}
	})

	t.Run("remove skips unprovisioned users", func(t *testing.T) {
		s := NewSession()
		s.SetAction(ActionRemove)
		s.ToggleExisting(catalogUser("u1", "Ada", "Lovelace", "ada@example.com"))
		s.Selection = append(s.Selection, SelectionItem{ID: "x", Ref: RefNew("No", "One", "no@example.com")})

		queue := BuildQueue(s)
		if len(queue) != 1 {
			t.Errorf("expected new-user ref skipped, got %d ops", len(queue))
		}
	})
}

func TestExecutorRun(t *testing.T) {
	t.Run("sequential results in queue order", func(t *testing.T) {
		s := addSession(t)
		mock := &helpers.MockProvisioner{}

		results := NewExecutor(mock, nil).Run(context.Background(), s, nil)

		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		for i, res := range results {
			if !res.Succeeded() {
				t.Errorf("result[%d] unexpectedly failed: %v", i, res.Err)
			}
		}
		if len(mock.Creates) != 3 {
			t.Fatalf("expected 3 create calls, got %d", len(mock.Creates))
		}
		if mock.Creates[0].Payload.Email != "ada@example.com" || mock.Creates[2].Payload.Email != "grace@example.com" {
			t.Errorf("calls out of order: %+v", mock.Creates)
		}

		if s.Step != StepResults {
			t.Errorf("expected results step, got %s", s.Step)
		}
		if s.Progress != 100 {
			t.Errorf("expected 100%% progress, got %f", s.Progress)
		}
	})

	t.Run("failure is captured and the queue continues", func(t *testing.T) {
		s := addSession(t)
		mock := &helpers.MockProvisioner{
			CreateErr: map[string]error{"ada@example.com": errors.New("409 conflict")},
		}

		results := NewExecutor(mock, nil).Run(context.Background(), s, nil)

		if len(results) != 3 {
			t.Fatalf("every op must yield a result, got %d", len(results))
		}
		if results[0].Succeeded() || results[1].Succeeded() {
			t.Error("expected ada's operations to fail")
		}
		if !results[2].Succeeded() {
			t.Errorf("grace's operation should still run: %v", results[2].Err)
		}
		if results[0].ErrorMessage() == "" {
			t.Error("expected captured error message")
		}

		summary := Summarize(results)
		if summary.Success != 1 || summary.Failed != 2 || summary.Total != 3 {
			t.Errorf("unexpected summary: %+v", summary)
		}
	})

	t.Run("one user succeeds on the first account and fails on the second", func(t *testing.T) {
		s := addSession(t)
		mock := &helpers.MockProvisioner{
			CreateErrByAccount: map[string]error{"a2": errors.New("403 forbidden")},
		}

		results := NewExecutor(mock, nil).Run(context.Background(), s, nil)

		if !results[0].Succeeded() || results[1].Succeeded() {
			t.Fatalf("expected ada's a1 grant to succeed and a2 to fail: %+v", results[:2])
		}
		if results[0].UserName != results[1].UserName {
			t.Errorf("results belong to different users: %q vs %q", results[0].UserName, results[1].UserName)
		}
		if !results[2].Succeeded() {
			t.Errorf("grace on a1 should still succeed: %v", results[2].Err)
		}

		summary := Summarize(results)
		if summary.Success != 2 || summary.Failed != 1 {
			t.Errorf("unexpected summary: %+v", summary)
		}
	})

	t.Run("progress after k operations is k of total", func(t *testing.T) {
		s := addSession(t)
		prog := make(chan ProgressUpdate, 16)

		NewExecutor(&helpers.MockProvisioner{}, nil).Run(context.Background(), s, prog)
		close(prog)

		var updates []ProgressUpdate
		for u := range prog {
			updates = append(updates, u)
		}

		if len(updates) != 3 {
			t.Fatalf("expected 3 updates, got %d", len(updates))
		}
		want := []float64{100.0 / 3, 200.0 / 3, 100}
		for i, u := range updates {
			if u.Completed != i+1 || u.Total != 3 {
				t.Errorf("update[%d] counters = %d/%d", i, u.Completed, u.Total)
			}
			if diff := u.Percent - want[i]; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("update[%d] percent = %f, want %f", i, u.Percent, want[i])
			}
		}
	})

	t.Run("empty queue completes immediately", func(t *testing.T) {
		s := NewSession()
		prog := make(chan ProgressUpdate, 1)

		results := NewExecutor(&helpers.MockProvisioner{}, nil).Run(context.Background(), s, prog)

		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
		if s.Step != StepResults || s.Progress != 100 {
			t.Errorf("expected immediate completion, step=%s progress=%f", s.Step, s.Progress)
		}

		u := <-prog
		if u.Total != 0 || u.Percent != 100 {
			t.Errorf("unexpected completion update: %+v", u)
		}
	})

	t.Run("slow consumer never stalls the batch", func(t *testing.T) {
		s := addSession(t)
		prog := make(chan ProgressUpdate) // unbuffered, nobody reading

		done := make(chan struct{})
		go func() {
			NewExecutor(&helpers.MockProvisioner{}, nil).Run(context.Background(), s, prog)
			close(done)
		}()

		<-done
		if s.Step != StepResults {
			t.Errorf("expected batch to finish, step=%s", s.Step)
		}
	})

	t.Run("remove batch deletes by home account", func(t *testing.T) {
		s := NewSession()
		s.SetAction(ActionRemove)
		s.ToggleExisting(catalogUser("u1", "Ada", "Lovelace", "ada@example.com"))
		mock := &helpers.MockProvisioner{}

		results := NewExecutor(mock, nil).Run(context.Background(), s, nil)

		if len(results) != 1 || !results[0].Succeeded() {
			t.Fatalf("unexpected results: %+v", results)
		}
		if len(mock.Deletes) != 1 || mock.Deletes[0].AccountID != "a1" || mock.Deletes[0].UserID != "u1" {
			t.Errorf("unexpected delete calls: %+v", mock.Deletes)
		}
	})
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		results []OperationResult
		want    Summary
	}{
		{"empty", nil, Summary{}},
		{"all success", []OperationResult{{}, {}}, Summary{Success: 2, Total: 2}},
		{"mixed", []OperationResult{{}, {Err: errors.New("x")}}, Summary{Success: 1, Failed: 1, Total: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.results)
			if got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
			if got.Success+got.Failed != got.Total {
				t.Errorf("summary invariant violated: %+v", got)
			}
		})
	}
}
