// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/seaholm/wpec/internal/wpe"
)

// MockProvisioner is a configurable test double for [wpe.Provisioner].
// Zero value behaves as an empty, always-succeeding API. It records
// every create and delete call in order, guarded for concurrent use.
type MockProvisioner struct {
	AccountsResult []wpe.Account
	AccountsErr    error

	// UsersByAccount maps account ID to that account's user listing.
	UsersByAccount map[string][]wpe.AccountUser
	// UsersErrByAccount makes ListAccountUsers fail for specific accounts.
	UsersErrByAccount map[string]error

	// CreateErr fails every create for an email; CreateErrByAccount
	// fails creates against one account, so one user's operations can
	// succeed on one account and fail on another.
	CreateErr          map[string]error // keyed by email
	CreateErrByAccount map[string]error // keyed by account ID
	DeleteErr          map[string]error // keyed by user ID

	mu      sync.Mutex
	Creates []CreateCall
	Deletes []DeleteCall
}

type CreateCall struct {
	AccountID string
	Payload   wpe.UserPayload
}

type DeleteCall struct {
	AccountID string
	UserID    string
}

func (m *MockProvisioner) ListAccounts(ctx context.Context) ([]wpe.Account, error) {
	if m.AccountsErr != nil {
		return nil, m.AccountsErr
	}
	return m.AccountsResult, nil
}

func (m *MockProvisioner) ListAccountUsers(ctx context.Context, accountID string) ([]wpe.AccountUser, error) {
	if err := m.UsersErrByAccount[accountID]; err != nil {
		return nil, err
	}
	return m.UsersByAccount[accountID], nil
}

func (m *MockProvisioner) CreateAccountUser(ctx context.Context, accountID string, payload wpe.UserPayload) error {
	m.mu.Lock()
	m.Creates = append(m.Creates, CreateCall{AccountID: accountID, Payload: payload})
	m.mu.Unlock()

	if err := m.CreateErrByAccount[accountID]; err != nil {
		return err
	}
	if err := m.CreateErr[payload.Email]; err != nil {
		return err
	}
	return nil
}

func (m *MockProvisioner) DeleteAccountUser(ctx context.Context, accountID, userID string) error {
	m.mu.Lock()
	m.Deletes = append(m.Deletes, DeleteCall{AccountID: accountID, UserID: userID})
	m.mu.Unlock()

	if err := m.DeleteErr[userID]; err != nil {
		return err
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
