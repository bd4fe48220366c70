// Package ui implements the interactive console using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the hosting API:
//  1. [LoginView] : Credential form, probed against GET /user
//  2. [LoadingView] : Catalog fan-out (accounts, users, sites)
//  3. [BrowserView] : Tabbed tables (Accounts | Sites | Users)
//  4. [WizardView] : The bulk user manager, stepping through the
//     session's select / assign / review / results states
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Batch progress flows through a channel from the bulk executor, providing non-blocking status reporting while a batch runs.
// Closing the TUI mid-batch does not cancel in-flight operations.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, space, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
