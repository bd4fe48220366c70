package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/seaholm/wpec/internal/wpe"

	helpers "github.com/seaholm/wpec/internal/testing"
)

func testAccounts() []wpe.Account {
	return []wpe.Account{
		{ID: "a1", Name: "Alpha"},
		{ID: "a2", Name: "Beta"},
		{ID: "a3", Name: "Gamma"},
	}
}

func TestLoad(t *testing.T) {
	t.Run("merges users across accounts", func(t *testing.T) {
		mock := &helpers.MockProvisioner{
			AccountsResult: testAccounts(),
			UsersByAccount: map[string][]wpe.AccountUser{
				"a1": {
					{UserID: "u1", AccountID: "a1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
					{UserID: "u2", AccountID: "a1", FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"},
				},
				"a2": {
					{UserID: "u3", AccountID: "a2", FirstName: "Ada", LastName: "Lovelace", Email: "ADA@example.com"},
				},
				"a3": {
					{UserID: "u4", AccountID: "a3", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"},
				},
			},
		}

		c, err := Load(context.Background(), mock, Opts{})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if len(c.Accounts) != 3 {
			t.Errorf("expected 3 accounts, got %d", len(c.Accounts))
		}
		if len(c.Users) != 3 {
			t.Fatalf("expected 3 deduplicated users, got %d", len(c.Users))
		}

		ada, ok := c.FindUser("Ada@Example.com")
		if !ok {
			t.Fatal("expected to find ada by case-insensitive email")
		}
		if len(ada.Accounts) != 2 {
			t.Fatalf("expected ada in 2 accounts, got %d", len(ada.Accounts))
		}
		if ada.Accounts[0].ID != "a1" || ada.Accounts[1].ID != "a2" {
			t.Errorf("memberships out of account order: %+v", ada.Accounts)
		}
		if ada.Email != "ada@example.com" {
			t.Errorf("expected first occurrence to supply identity, got %s", ada.Email)
		}
		if ada.UserID != "u1" || ada.AccountID != "a1" {
			t.Errorf("expected first-occurrence identifiers, got %s/%s", ada.UserID, ada.AccountID)
		}
	})

	t.Run("account listing failure is terminal", func(t *testing.T) {
		mock := &helpers.MockProvisioner{AccountsErr: errors.New("upstream down")}

		if _, err := Load(context.Background(), mock, Opts{}); err == nil {
			t.Fatal("expected error when account listing fails")
		}
	})

	t.Run("per-account failure contributes nothing", func(t *testing.T) {
		mock := &helpers.MockProvisioner{
			AccountsResult: testAccounts(),
			UsersByAccount: map[string][]wpe.AccountUser{
				"a1": {{UserID: "u1", Email: "one@example.com"}},
				"a3": {{UserID: "u4", Email: "four@example.com"}},
			},
			UsersErrByAccount: map[string]error{
				"a2": errors.New("forbidden"),
			},
		}

		c, err := Load(context.Background(), mock, Opts{})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if len(c.Accounts) != 3 {
			t.Errorf("failed account should still be listed, got %d accounts", len(c.Accounts))
		}
		if len(c.Users) != 2 {
			t.Errorf("expected 2 users from healthy accounts, got %d", len(c.Users))
		}
	})

	t.Run("nil provisioner", func(t *testing.T) {
		if _, err := Load(context.Background(), nil, Opts{}); err == nil {
			t.Fatal("expected error for nil provisioner")
		}
	})

	t.Run("blank emails skipped", func(t *testing.T) {
		mock := &helpers.MockProvisioner{
			AccountsResult: []wpe.Account{{ID: "a1", Name: "Alpha"}},
			UsersByAccount: map[string][]wpe.AccountUser{
				"a1": {{UserID: "u1", Email: "  "}, {UserID: "u2", Email: "ok@example.com"}},
			},
		}

		c, err := Load(context.Background(), mock, Opts{})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(c.Users) != 1 {
			t.Errorf("expected blank email skipped, got %d users", len(c.Users))
		}
	})
}

func TestCatalogLookups(t *testing.T) {
	mock := &helpers.MockProvisioner{
		AccountsResult: testAccounts(),
		UsersByAccount: map[string][]wpe.AccountUser{
			"a1": {{UserID: "u1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}},
		},
	}

	c, err := Load(context.Background(), mock, Opts{RateLimit: 100})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	t.Run("Account", func(t *testing.T) {
		account, ok := c.Account("a2")
		if !ok || account.Name != "Beta" {
			t.Errorf("Account(a2) = %+v, %v", account, ok)
		}
		if _, ok := c.Account("missing"); ok {
			t.Error("expected miss for unknown account")
		}
	})

	t.Run("HasMembership", func(t *testing.T) {
		if !c.HasMembership("ADA@example.com", "a1") {
			t.Error("expected membership for ada in a1")
		}
		if c.HasMembership("ada@example.com", "a2") {
			t.Error("unexpected membership for ada in a2")
		}
		if c.HasMembership("ghost@example.com", "a1") {
			t.Error("unexpected membership for unknown user")
		}
	})

	t.Run("user Name falls back to email", func(t *testing.T) {
		if (User{Email: "x@y.z"}).Name() != "x@y.z" {
			t.Error("expected fallback to email")
		}
		if (User{FirstName: "Ada", LastName: "Lovelace"}).Name() != "Ada Lovelace" {
			t.Error("expected full name")
		}
	})
}
