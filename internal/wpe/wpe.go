// Package wpe defines the domain types and client interfaces for the
// WP Engine API v1.
//
// Response types based on https://wpengineapi.com/reference
package wpe

import "context"

// Account represents a hosting account.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Site represents a site grouping one or more installs.
type Site struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Account   Ref      `json:"account"`
	GroupName string   `json:"group_name,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Installs  []Ref    `json:"installs,omitempty"`
}

// Install represents a single WordPress installation.
type Install struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Account     Ref    `json:"account"`
	PHPVersion  string `json:"php_version,omitempty"`
	Status      string `json:"status,omitempty"`
	Environment string `json:"environment,omitempty"`
}

// Ref is a nested resource reference carrying just an identifier.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// AccountUser represents a user's membership in one account.
type AccountUser struct {
	UserID         string `json:"user_id"`
	AccountID      string `json:"account_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	InviteAccepted bool   `json:"invite_accepted"`
	MFAEnabled     bool   `json:"mfa_enabled"`
	Roles          string `json:"roles"`
	LastOwner      bool   `json:"last_owner,omitempty"`
}

// CurrentUser is the profile of the authenticated API user, returned by GET /user.
type CurrentUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone_number,omitempty"`
}

// UserPayload is the body for creating an account user.
type UserPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Roles     string `json:"roles"`
	AccountID string `json:"account_id"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Results  []T    `json:"results"`
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

// Provisioner is the surface the bulk engine and catalog loader depend on.
// [Client] is the production implementation; tests substitute doubles.
type Provisioner interface {
	// ListAccounts retrieves every account visible to the credentials,
	// following pagination to a full result set.
	ListAccounts(ctx context.Context) ([]Account, error)

	// ListAccountUsers retrieves all users of one account.
	ListAccountUsers(ctx context.Context, accountID string) ([]AccountUser, error)

	// CreateAccountUser adds a user to an account with the roles in the payload.
	CreateAccountUser(ctx context.Context, accountID string, payload UserPayload) error

	// DeleteAccountUser removes a user from an account.
	DeleteAccountUser(ctx context.Context, accountID, userID string) error
}

// Role values accepted by the account-user endpoints.
const (
	RoleOwner          = "owner"
	RoleFull           = "full"
	RoleFullBilling    = "full,billing"
	RolePartial        = "partial"
	RolePartialBilling = "partial,billing"
)

// Roles returns the fixed role enumeration in display order.
func Roles() []string {
	return []string{RoleOwner, RoleFull, RoleFullBilling, RolePartial, RolePartialBilling}
}

// ValidRole reports whether s is a member of the role enumeration.
func ValidRole(s string) bool {
	switch s {
	case RoleOwner, RoleFull, RoleFullBilling, RolePartial, RolePartialBilling:
		return true
	}
	return false
}
