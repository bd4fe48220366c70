package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/seaholm/wpec/internal/shared"
)

// loginForm holds the two-field credential prompt. Credentials are only
// kept on the client built from them, never written back to config.
type loginForm struct {
	inputs  []textinput.Model
	focused int
	err     error
}

func newLoginForm(cfg *shared.Config) loginForm {
	user := textinput.New()
	user.Placeholder = "API username"
	user.CharLimit = 128
	if cfg != nil {
		user.SetValue(cfg.API.Username)
	}

	pass := textinput.New()
	pass.Placeholder = "API password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword

	return loginForm{inputs: []textinput.Model{user, pass}}
}

func (f *loginForm) focusCmd() tea.Cmd {
	return f.inputs[f.focused].Focus()
}

// advance moves focus to the next field; nil return means the form is
// complete and the caller should probe the credentials.
func (f *loginForm) advance() tea.Cmd {
	if f.focused < len(f.inputs)-1 {
		f.inputs[f.focused].Blur()
		f.focused++
		return f.inputs[f.focused].Focus()
	}
	return nil
}

func (f loginForm) values() (username, password string) {
	return f.inputs[0].Value(), f.inputs[1].Value()
}

func (f loginForm) update(msg tea.Msg) (loginForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

func (f loginForm) view() string {
	out := styles.title.Render("wpec sign in") + "\n\n"
	out += styles.label.Render("Username") + "\n" + f.inputs[0].View() + "\n\n"
	out += styles.label.Render("Password") + "\n" + f.inputs[1].View() + "\n"

	if f.err != nil {
		out += "\n" + styles.err.Render(fmt.Sprintf("Sign-in failed: %v", f.err)) + "\n"
	}

	out += "\n" + styles.help.Render("enter to continue, ctrl+c to quit")
	return out
}
