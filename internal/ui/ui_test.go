package ui

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/seaholm/wpec/internal/bulk"
	"github.com/seaholm/wpec/internal/catalog"
	"github.com/seaholm/wpec/internal/shared"
	"github.com/seaholm/wpec/internal/wpe"
)

// reviewSession builds a one-user add session with two assignments,
// walked to the review step.
func reviewSession(t *testing.T) *bulk.Session {
	t.Helper()
	s := bulk.NewSession()

	if err := s.AddNew("Ada", "Lovelace", "ada@example.com"); err != nil {
		t.Fatal(err)
	}

	id := s.Selection[0].ID
	for _, a := range []struct {
		accountID, accountName, role string
	}{
		{"a1", "Alpha", wpe.RoleFull},
		{"a2", "Beta", wpe.RolePartial},
	} {
		s.SetPendingAccount(id, a.accountID, a.accountName)
		s.SetPendingRole(id, a.role)
		if !s.CommitPending(id) {
			t.Fatalf("failed to commit %s", a.accountID)
		}
	}

	if err := s.Next(); err != nil {
		t.Fatal(err)
	}
	if err := s.Next(); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBatchExecution(t *testing.T) {
	t.Run("view renders while the batch runs and settles on results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := wpe.NewClient(wpe.ClientOpts{
			BaseURL:  server.URL,
			Username: "user",
			Password: "pass",
			Logger:   shared.NewLogger(io.Discard),
		})

		m := NewModel(context.Background(), Deps{
			Config: shared.DefaultConfig(),
			Client: client,
			Logger: shared.NewLogger(io.Discard),
		})
		m.view = WizardView
		m.session = reviewSession(t)

		// Drive the update loop by hand, rendering between messages the
		// way the program goroutine does while the executor goroutine
		// works through the queue.
		cmd := m.startBatch()
		for cmd != nil {
			m.View()
			msg := cmd()
			_, cmd = m.Update(msg)
		}

		if m.running {
			t.Error("expected the batch to be finished")
		}
		if m.session.Step != bulk.StepResults {
			t.Errorf("expected results step, got %s", m.session.Step)
		}
		if summary := bulk.Summarize(m.session.Results); summary.Total != 2 || summary.Failed != 0 {
			t.Errorf("unexpected summary: %+v", summary)
		}
		if m.lastProgress.Percent != 100 {
			t.Errorf("expected final update at 100%%, got %f", m.lastProgress.Percent)
		}
	})

	t.Run("running view reads the last delivered update", func(t *testing.T) {
		m := NewModel(context.Background(), Deps{Logger: shared.NewLogger(io.Discard)})
		m.view = WizardView
		m.running = true
		m.lastProgress = bulk.ProgressUpdate{
			Completed: 1,
			Total:     2,
			Percent:   50,
			Result:    bulk.OperationResult{UserName: "Ada Lovelace", AccountName: "Alpha"},
		}

		out := m.View()
		if !strings.Contains(out, "1 of 2 operations") {
			t.Errorf("expected status from the last update, got %q", out)
		}
		if !strings.Contains(out, "Ada Lovelace") {
			t.Errorf("expected last result line, got %q", out)
		}
	})
}

func TestRoleKeyCyclesInDisplayOrder(t *testing.T) {
	m := NewModel(context.Background(), Deps{Logger: shared.NewLogger(io.Discard)})
	m.view = WizardView
	m.cat = &catalog.Catalog{}

	s := bulk.NewSession()
	if err := s.AddNew("Ada", "Lovelace", "ada@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.Next(); err != nil {
		t.Fatal(err)
	}
	m.session = s
	id := s.Selection[0].ID

	press := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}}
	for _, want := range wpe.Roles() {
		m.handleWizardKeys(press)
		if got := m.session.Pending[id].Role; got != want {
			t.Fatalf("staged role = %q, want %q", got, want)
		}
	}

	// Wraps back to the first role.
	m.handleWizardKeys(press)
	if got := m.session.Pending[id].Role; got != wpe.RoleOwner {
		t.Errorf("expected wrap to %q, got %q", wpe.RoleOwner, got)
	}
}
