package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

func newTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	return t
}

// buildTables (re)creates the browser tables from the loaded catalog.
func (m *Model) buildTables() {
	height := m.tableHeight()

	accountRows := make([]table.Row, len(m.cat.Accounts))
	for i, a := range m.cat.Accounts {
		accountRows[i] = table.Row{a.ID, a.Name}
	}
	m.accountsTable = newTable([]table.Column{
		{Title: "ID", Width: 38},
		{Title: "Name", Width: 32},
	}, accountRows, height)

	siteRows := make([]table.Row, len(m.sites))
	for i, s := range m.sites {
		siteRows[i] = table.Row{s.Name, s.Account.Name, s.GroupName, strconv.Itoa(len(s.Installs))}
	}
	m.sitesTable = newTable([]table.Column{
		{Title: "Site", Width: 28},
		{Title: "Account", Width: 24},
		{Title: "Group", Width: 16},
		{Title: "Installs", Width: 8},
	}, siteRows, height)

	userRows := make([]table.Row, len(m.cat.Users))
	for i, u := range m.cat.Users {
		names := make([]string, 0, len(u.Accounts))
		for _, ref := range u.Accounts {
			names = append(names, ref.Name)
		}
		userRows[i] = table.Row{u.Name(), u.Email, strings.Join(names, ", ")}
	}
	m.usersTable = newTable([]table.Column{
		{Title: "Name", Width: 24},
		{Title: "Email", Width: 30},
		{Title: "Accounts", Width: 30},
	}, userRows, height)
}

func (m *Model) resizeTables() {
	height := m.tableHeight()
	m.accountsTable.SetHeight(height)
	m.sitesTable.SetHeight(height)
	m.usersTable.SetHeight(height)
}

func (m *Model) tableHeight() int {
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	return h
}
