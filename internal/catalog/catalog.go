// package catalog loads the account and user directory the bulk wizard
// operates on. Accounts come from a single listing; users are gathered
// from every account concurrently and merged into one deduplicated set.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/seaholm/wpec/internal/shared"
	"github.com/seaholm/wpec/internal/wpe"
	"golang.org/x/time/rate"
)

// User is one directory entry, merged across every account the address
// appears in. Email comparison is case-insensitive; the first account
// (in listing order) that carries the address supplies the identity
// fields.
type User struct {
	UserID    string // from the first membership
	AccountID string // account of the first membership
	Email     string
	FirstName string
	LastName  string
	Roles     string
	Accounts  []wpe.Ref // memberships, in account listing order
}

// Name returns the user's display name, falling back to the email address.
func (u User) Name() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}

// AccountName returns the name of the user's first membership.
func (u User) AccountName() string {
	if len(u.Accounts) == 0 {
		return ""
	}
	return u.Accounts[0].Name
}

// Catalog holds the loaded directory. It is immutable after Load returns
// and safe for concurrent reads.
type Catalog struct {
	Accounts []wpe.Account
	Users    []User

	byEmail map[string]int
	byID    map[string]int
}

// Opts contains configuration for [Load].
type Opts struct {
	NumWorkers int     // Concurrent account fetches (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
	Logger     *log.Logger
}

// userBatch is the outcome of fetching one account's user listing.
type userBatch struct {
	index int
	users []wpe.AccountUser
	err   error
}

// Load fetches all accounts and then every account's user listing through a
// rate-limited worker pool. A failed account listing is terminal; a failed
// per-account user fetch is logged and contributes nothing, so one broken
// account never hides the rest of the directory.
func Load(ctx context.Context, p wpe.Provisioner, opts Opts) (*Catalog, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: provisioner not initialized", shared.ErrUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	accounts, err := p.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan int, len(accounts))
	results := make(chan userBatch, len(accounts))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					results <- userBatch{index: idx, err: err}
					continue
				}
				users, err := p.ListAccountUsers(ctx, accounts[idx].ID)
				results <- userBatch{index: idx, users: users, err: err}
			}
		}()
	}

	for i := range accounts {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Batches arrive in completion order; stage them by account index so
	// the merge below is deterministic regardless of scheduling.
	batches := make([][]wpe.AccountUser, len(accounts))
	for batch := range results {
		if batch.err != nil {
			opts.Logger.Warn("skipping account users",
				"account", accounts[batch.index].Name,
				"account_id", accounts[batch.index].ID,
				"error", batch.err)
			continue
		}
		batches[batch.index] = batch.users
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &Catalog{
		Accounts: accounts,
		byEmail:  make(map[string]int),
		byID:     make(map[string]int, len(accounts)),
	}
	for i, account := range accounts {
		c.byID[account.ID] = i
	}

	for i, users := range batches {
		ref := wpe.Ref{ID: accounts[i].ID, Name: accounts[i].Name}
		for _, u := range users {
			key := shared.NormalizeEmail(u.Email)
			if key == "" {
				continue
			}

			idx, seen := c.byEmail[key]
			if !seen {
				c.byEmail[key] = len(c.Users)
				c.Users = append(c.Users, User{
					UserID:    u.UserID,
					AccountID: accounts[i].ID,
					Email:     u.Email,
					FirstName: u.FirstName,
					LastName:  u.LastName,
					Roles:     u.Roles,
					Accounts:  []wpe.Ref{ref},
				})
				continue
			}

			c.Users[idx].Accounts = appendRef(c.Users[idx].Accounts, ref)
		}
	}

	opts.Logger.Debug("catalog loaded", "accounts", len(accounts), "users", len(c.Users))
	return c, nil
}

// appendRef adds r to refs unless an entry with the same ID exists.
func appendRef(refs []wpe.Ref, r wpe.Ref) []wpe.Ref {
	for _, existing := range refs {
		if existing.ID == r.ID {
			return refs
		}
	}
	return append(refs, r)
}

// FindUser looks up a directory entry by email, case-insensitively.
func (c *Catalog) FindUser(email string) (User, bool) {
	idx, ok := c.byEmail[shared.NormalizeEmail(email)]
	if !ok {
		return User{}, false
	}
	return c.Users[idx], true
}

// Account looks up an account by ID.
func (c *Catalog) Account(id string) (wpe.Account, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return wpe.Account{}, false
	}
	return c.Accounts[idx], true
}

// HasMembership reports whether the given email already belongs to the
// given account.
func (c *Catalog) HasMembership(email, accountID string) bool {
	user, ok := c.FindUser(email)
	if !ok {
		return false
	}
	for _, ref := range user.Accounts {
		if ref.ID == accountID {
			return true
		}
	}
	return false
}
