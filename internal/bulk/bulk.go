// package bulk implements the multi-step bulk user manager: a selection
// of users, per-user account assignments, a guarded step machine, and a
// sequential batch executor that reports progress over a channel.
//
// The session is a plain value-semantics aggregate driven by the UI or
// the headless CLI runner; all validation is synchronous and leaves the
// session untouched on failure.
package bulk

import (
	"fmt"

	"github.com/seaholm/wpec/internal/catalog"
	"github.com/seaholm/wpec/internal/shared"
	"github.com/seaholm/wpec/internal/wpe"
)

// Action selects which remote operation a batch performs.
type Action int

const (
	ActionAdd Action = iota
	ActionRemove
)

func (a Action) String() string {
	if a == ActionRemove {
		return "remove"
	}
	return "add"
}

// ParseAction converts the wire form ("add"/"remove") back to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "add":
		return ActionAdd, nil
	case "remove":
		return ActionRemove, nil
	}
	return 0, fmt.Errorf("%w: unknown action %q", shared.ErrInvalidArgument, s)
}

// Step is the wizard's position. The remove path skips StepAssign in
// both directions.
type Step int

const (
	StepSelect Step = iota
	StepAssign
	StepReview
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepSelect:
		return "select"
	case StepAssign:
		return "assign"
	case StepReview:
		return "review"
	case StepResults:
		return "results"
	default:
		return ""
	}
}

// UserRef identifies who an operation acts on. It is a closed tagged
// variant: either an existing account user or a not-yet-provisioned one.
type UserRef struct {
	existing    *wpe.AccountUser
	accountName string
	fresh       *newUser
}

type newUser struct {
	firstName string
	lastName  string
	email     string
}

// RefExisting builds a reference to a user already present in the catalog.
func RefExisting(u catalog.User) UserRef {
	return UserRef{
		existing: &wpe.AccountUser{
			UserID:    u.UserID,
			AccountID: u.AccountID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		},
		accountName: u.AccountName(),
	}
}

// RefNew builds a reference to a user that does not exist yet.
func RefNew(first, last, email string) UserRef {
	return UserRef{fresh: &newUser{firstName: first, lastName: last, email: email}}
}

// IsNew reports whether the reference points at a not-yet-provisioned user.
func (r UserRef) IsNew() bool { return r.fresh != nil }

// Email returns the reference's email address.
func (r UserRef) Email() string {
	if r.fresh != nil {
		return r.fresh.email
	}
	if r.existing != nil {
		return r.existing.Email
	}
	return ""
}

// FirstName returns the reference's first name.
func (r UserRef) FirstName() string {
	if r.fresh != nil {
		return r.fresh.firstName
	}
	if r.existing != nil {
		return r.existing.FirstName
	}
	return ""
}

// LastName returns the reference's last name.
func (r UserRef) LastName() string {
	if r.fresh != nil {
		return r.fresh.lastName
	}
	if r.existing != nil {
		return r.existing.LastName
	}
	return ""
}

// DisplayName returns "First Last", falling back to the email address.
func (r UserRef) DisplayName() string {
	first, last := r.FirstName(), r.LastName()
	if first == "" && last == "" {
		return r.Email()
	}
	return first + " " + last
}

// UserID returns the remote user ID for existing references, "" otherwise.
func (r UserRef) UserID() string {
	if r.existing != nil {
		return r.existing.UserID
	}
	return ""
}

// HomeAccountID returns the account of an existing reference's first
// membership; removals target this account.
func (r UserRef) HomeAccountID() string {
	if r.existing != nil {
		return r.existing.AccountID
	}
	return ""
}

// HomeAccountName returns the display name of the home account.
func (r UserRef) HomeAccountName() string { return r.accountName }

// AccountAssignment grants one role on one account.
type AccountAssignment struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Role        string `json:"role"`
}

// SelectionItem is one selected user plus the assignments staged for it.
// The ID is generated at selection time and stays stable across removals
// of other items.
type SelectionItem struct {
	ID          string
	Ref         UserRef
	Assignments []AccountAssignment
}

// PendingAssignment is the half-built assignment being edited for one
// selection item. Both fields must be set before it can be committed.
type PendingAssignment struct {
	AccountID   string
	AccountName string
	Role        string
}

// ready reports whether both staged fields are populated.
func (p PendingAssignment) ready() bool {
	return p.AccountID != "" && p.Role != ""
}
