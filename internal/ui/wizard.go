package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/seaholm/wpec/internal/bulk"
	"github.com/seaholm/wpec/internal/wpe"
)

// wizardState holds view-local state for the bulk manager: cursors,
// the new-user form, and the last guard error. Everything durable
// lives on the session.
type wizardState struct {
	cursor        int // catalog user cursor (select) or selection cursor (assign)
	accountCursor int
	roleCursor    int
	form          newUserForm
	err           string
}

type newUserForm struct {
	active  bool
	inputs  []textinput.Model
	focused int
}

func newWizardState() wizardState {
	first := textinput.New()
	first.Placeholder = "First name"
	first.CharLimit = 64

	last := textinput.New()
	last.Placeholder = "Last name"
	last.CharLimit = 64

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 128

	return wizardState{
		form: newUserForm{inputs: []textinput.Model{first, last, email}},
	}
}

func (f *newUserForm) open() tea.Cmd {
	f.active = true
	f.focused = 0
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	return f.inputs[0].Focus()
}

func (f *newUserForm) close() {
	f.active = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *newUserForm) advance() tea.Cmd {
	if f.focused < len(f.inputs)-1 {
		f.inputs[f.focused].Blur()
		f.focused++
		return f.inputs[f.focused].Focus()
	}
	return nil
}

func (f newUserForm) values() (first, last, email string) {
	return strings.TrimSpace(f.inputs[0].Value()),
		strings.TrimSpace(f.inputs[1].Value()),
		strings.TrimSpace(f.inputs[2].Value())
}

func (m *Model) handleWizardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.running {
		// The batch runs to completion; only quitting the program is allowed.
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.wiz.form.active {
		return m.handleFormKeys(msg)
	}

	switch m.session.Step {
	case bulk.StepSelect:
		return m.handleSelectKeys(msg)
	case bulk.StepAssign:
		return m.handleAssignKeys(msg)
	case bulk.StepReview:
		return m.handleReviewKeys(msg)
	case bulk.StepResults:
		return m.handleResultsKeys(msg)
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.wiz.form.close()
		return m, nil
	case "enter":
		if cmd := m.wiz.form.advance(); cmd != nil {
			return m, cmd
		}
		first, last, email := m.wiz.form.values()
		if err := m.session.AddNew(first, last, email); err != nil {
			m.wiz.err = err.Error()
			return m, nil
		}
		m.wiz.err = ""
		m.wiz.form.close()
		return m, nil
	}

	var cmd tea.Cmd
	f := &m.wiz.form
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return m, cmd
}

func (m *Model) handleSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = BrowserView
		return m, nil
	case key.Matches(msg, m.keys.up):
		if m.wiz.cursor > 0 {
			m.wiz.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.wiz.cursor < len(m.cat.Users)-1 {
			m.wiz.cursor++
		}
	case key.Matches(msg, m.keys.action):
		if m.session.Action == bulk.ActionAdd {
			m.session.SetAction(bulk.ActionRemove)
		} else {
			m.session.SetAction(bulk.ActionAdd)
		}
		m.wiz.err = ""
	case key.Matches(msg, m.keys.toggle):
		if len(m.cat.Users) > 0 {
			m.session.ToggleExisting(m.cat.Users[m.wiz.cursor])
			m.wiz.err = ""
		}
	case key.Matches(msg, m.keys.newUser):
		if m.session.Action == bulk.ActionAdd {
			return m, m.wiz.form.open()
		}
	case key.Matches(msg, m.keys.enter):
		if err := m.session.Next(); err != nil {
			m.wiz.err = err.Error()
			return m, nil
		}
		m.wiz.err = ""
		m.wiz.cursor = 0
		m.wiz.accountCursor = 0
		m.wiz.roleCursor = 0
	}
	return m, nil
}

func (m *Model) handleAssignKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	currentID := ""
	if m.wiz.cursor < m.session.Len() {
		currentID = m.session.Selection[m.wiz.cursor].ID
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.session.Back()
		m.wiz.err = ""
	case key.Matches(msg, m.keys.up):
		if m.wiz.cursor > 0 {
			m.wiz.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.wiz.cursor < m.session.Len()-1 {
			m.wiz.cursor++
		}
	case key.Matches(msg, m.keys.cycle):
		if len(m.cat.Accounts) == 0 || currentID == "" {
			break
		}
		if msg.String() == "left" {
			m.wiz.accountCursor = (m.wiz.accountCursor + len(m.cat.Accounts) - 1) % len(m.cat.Accounts)
		} else {
			m.wiz.accountCursor = (m.wiz.accountCursor + 1) % len(m.cat.Accounts)
		}
		account := m.cat.Accounts[m.wiz.accountCursor]
		m.session.SetPendingAccount(currentID, account.ID, account.Name)
	case key.Matches(msg, m.keys.role):
		if currentID == "" {
			break
		}
		// Stage the current role before advancing, so the first press
		// offers roles in display order starting from owner.
		roles := wpe.Roles()
		m.session.SetPendingRole(currentID, roles[m.wiz.roleCursor%len(roles)])
		m.wiz.roleCursor++
	case key.Matches(msg, m.keys.toggle):
		if currentID != "" {
			m.session.CommitPending(currentID)
		}
	case key.Matches(msg, m.keys.drop):
		if currentID == "" {
			break
		}
		item, _ := m.session.Item(currentID)
		if n := len(item.Assignments); n > 0 {
			m.session.RemoveAssignment(currentID, item.Assignments[n-1].AccountID)
		}
	case key.Matches(msg, m.keys.enter):
		if err := m.session.Next(); err != nil {
			m.wiz.err = err.Error()
			return m, nil
		}
		m.wiz.err = ""
	}
	return m, nil
}

func (m *Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.session.Back()
		m.wiz.err = ""
	case key.Matches(msg, m.keys.enter):
		return m, m.startBatch()
	}
	return m, nil
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.session.Restart()
		m.wiz = newWizardState()
	case key.Matches(msg, m.keys.back):
		m.view = BrowserView
	}
	return m, nil
}

func (m *Model) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.wiz.form.active {
		var cmd tea.Cmd
		f := &m.wiz.form
		f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) renderWizard() string {
	if m.running {
		return m.renderRunning()
	}

	var body string
	switch m.session.Step {
	case bulk.StepSelect:
		body = m.renderSelect()
	case bulk.StepAssign:
		body = m.renderAssign()
	case bulk.StepReview:
		body = m.renderReview()
	case bulk.StepResults:
		body = m.renderResults()
	}

	if m.wiz.err != "" {
		body += "\n" + styles.err.Render(m.wiz.err)
	}
	return body
}

func (m *Model) renderSelect() string {
	title := styles.title.Render(fmt.Sprintf("Bulk User Manager: %s users", m.session.Action))

	var b strings.Builder
	b.WriteString(title + "\n")

	for i, u := range m.cat.Users {
		cursor := "  "
		if i == m.wiz.cursor {
			cursor = styles.active.Render("> ")
		}
		mark := "[ ]"
		if m.session.Selected(u.Email) {
			mark = styles.ok.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("%s%s %s <%s>\n", cursor, mark, u.Name(), u.Email))
	}

	for _, item := range m.session.Selection {
		if item.Ref.IsNew() {
			b.WriteString(fmt.Sprintf("   %s %s <%s> %s\n",
				styles.ok.Render("[x]"), item.Ref.DisplayName(), item.Ref.Email(),
				styles.label.Render("(new)")))
		}
	}

	b.WriteString(fmt.Sprintf("\n%d selected\n", m.session.Len()))

	if m.wiz.form.active {
		b.WriteString("\n" + styles.label.Render("New user") + "\n")
		for _, in := range m.wiz.form.inputs {
			b.WriteString(in.View() + "\n")
		}
		b.WriteString(styles.help.Render("enter to confirm each field, esc to cancel"))
		return b.String()
	}

	helpKeys := []key.Binding{m.keys.toggle, m.keys.action, m.keys.enter, m.keys.back, m.keys.quit}
	if m.session.Action == bulk.ActionAdd {
		helpKeys = append([]key.Binding{m.keys.newUser}, helpKeys...)
	}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderAssign() string {
	title := styles.title.Render("Assign accounts and roles")

	var b strings.Builder
	b.WriteString(title + "\n")

	for i, item := range m.session.Selection {
		cursor := "  "
		if i == m.wiz.cursor {
			cursor = styles.active.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s <%s>\n", cursor, item.Ref.DisplayName(), item.Ref.Email()))

		for _, a := range item.Assignments {
			b.WriteString(fmt.Sprintf("      %s %s as %s\n", styles.ok.Render("+"), a.AccountName, a.Role))
		}

		if i == m.wiz.cursor {
			cell := m.session.Pending[item.ID]
			account, role := cell.AccountName, cell.Role
			if account == "" {
				account = styles.label.Render("(pick account with ←/→)")
			}
			if role == "" {
				role = styles.label.Render("(pick role with o)")
			}
			b.WriteString(fmt.Sprintf("      staging: %s as %s\n", account, role))
		}
	}

	helpKeys := []key.Binding{m.keys.cycle, m.keys.role, m.keys.toggle, m.keys.drop, m.keys.enter, m.keys.back}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderReview() string {
	queue := bulk.BuildQueue(m.session)
	title := styles.title.Render(fmt.Sprintf("Review: %d operations", len(queue)))

	var b strings.Builder
	b.WriteString(title + "\n")
	for i, op := range queue {
		b.WriteString(fmt.Sprintf("%d. %s %s on %s\n", i+1, m.session.Action, op.UserName, op.AccountName))
	}

	b.WriteString("\n" + styles.warn.Render("Operations run one at a time and cannot be cancelled once started.") + "\n")
	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit}))
	return b.String()
}

// renderRunning draws only from lastProgress: while the batch runs the
// executor goroutine owns the session, and the view must not read it
// until the progress channel closes.
func (m *Model) renderRunning() string {
	title := styles.title.Render("Executing batch")

	bar := m.progressBar.ViewAs(m.lastProgress.Percent / 100)
	status := fmt.Sprintf("%d of %d operations", m.lastProgress.Completed, m.lastProgress.Total)

	var last string
	if m.lastProgress.Completed > 0 {
		res := m.lastProgress.Result
		if res.Succeeded() {
			last = styles.ok.Render(fmt.Sprintf("ok: %s on %s", res.UserName, res.AccountName))
		} else {
			last = styles.err.Render(fmt.Sprintf("failed: %s on %s", res.UserName, res.AccountName))
		}
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n%s", title, bar, status, last)
}

func (m *Model) renderResults() string {
	summary := bulk.Summarize(m.session.Results)

	var title string
	if summary.Failed == 0 {
		title = styles.ok.Render("✓ Batch complete")
	} else {
		title = styles.warn.Render(fmt.Sprintf("Batch complete with %d failures", summary.Failed))
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	for _, res := range m.session.Results {
		if res.Succeeded() {
			b.WriteString(fmt.Sprintf("  %s %s on %s\n", styles.ok.Render("ok"), res.UserName, res.AccountName))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s on %s: %s\n", styles.err.Render("failed"), res.UserName, res.AccountName, res.ErrorMessage()))
		}
	}

	b.WriteString(fmt.Sprintf("\nTotal: %d  Succeeded: %d  Failed: %d\n", summary.Total, summary.Success, summary.Failed))
	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.back, m.keys.quit}))
	return b.String()
}
