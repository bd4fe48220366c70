package wpe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/seaholm/wpec/internal/shared"
)

const defaultBaseURL = "https://api.wpengineapi.com/v1"

// pageLimit is the page size used when the client walks a full listing.
const pageLimit = 100

// Client implements [Provisioner] against the WP Engine API using HTTP basic
// auth. Credentials live on the client instance, never in package state, so
// tests and multi-tenant callers can hold independent clients.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *log.Logger
}

var _ Provisioner = (*Client)(nil)

// ClientOpts contains construction options for [NewClient].
type ClientOpts struct {
	BaseURL    string
	Username   string
	Password   string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewClient creates a Client for the WP Engine API.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    opts.BaseURL,
		username:   opts.Username,
		password:   opts.Password,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
}

// apiError is the error body the API returns on non-2xx responses.
type apiError struct {
	Message string `json:"message"`
}

// doRequest performs an authenticated request and decodes the JSON response
// into result. Non-2xx responses are decoded into an error wrapping
// [shared.ErrAPIRequest] so callers can match with errors.Is.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if c.username == "" || c.password == "" {
		return shared.ErrMissingCredentials
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("API request", "method", method, "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, apiErr.Message)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Whoami retrieves the authenticated user's profile. Used as the credential
// probe behind the login form and `wpec auth status`.
func (c *Client) Whoami(ctx context.Context) (*CurrentUser, error) {
	var user CurrentUser
	if err := c.doRequest(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AccountsPage retrieves one page of accounts.
func (c *Client) AccountsPage(ctx context.Context, limit, offset int) (*Page[Account], error) {
	var page Page[Account]
	endpoint := fmt.Sprintf("/accounts?limit=%d&offset=%d", limit, offset)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SitesPage retrieves one page of sites, optionally scoped to an account.
func (c *Client) SitesPage(ctx context.Context, accountID string, limit, offset int) (*Page[Site], error) {
	var page Page[Site]
	endpoint := fmt.Sprintf("/sites?limit=%d&offset=%d", limit, offset)
	if accountID != "" {
		endpoint += "&account_id=" + url.QueryEscape(accountID)
	}
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// InstallsPage retrieves one page of installs, optionally scoped to an account.
func (c *Client) InstallsPage(ctx context.Context, accountID string, limit, offset int) (*Page[Install], error) {
	var page Page[Install]
	endpoint := fmt.Sprintf("/installs?limit=%d&offset=%d", limit, offset)
	if accountID != "" {
		endpoint += "&account_id=" + url.QueryEscape(accountID)
	}
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAccounts retrieves all accounts, walking pagination to a full result set.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var all []Account
	offset := 0

	for {
		page, err := c.AccountsPage(ctx, pageLimit, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Results...)

		if page.Next == "" || len(page.Results) == 0 {
			break
		}
		offset += pageLimit
	}

	return all, nil
}

// ListSites retrieves all sites, walking pagination. Pass accountID ""
// for every visible site.
func (c *Client) ListSites(ctx context.Context, accountID string) ([]Site, error) {
	var all []Site
	offset := 0

	for {
		page, err := c.SitesPage(ctx, accountID, pageLimit, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Results...)

		if page.Next == "" || len(page.Results) == 0 {
			break
		}
		offset += pageLimit
	}

	return all, nil
}

// ListInstalls retrieves all installs, walking pagination. Pass accountID
// "" for every visible install.
func (c *Client) ListInstalls(ctx context.Context, accountID string) ([]Install, error) {
	var all []Install
	offset := 0

	for {
		page, err := c.InstallsPage(ctx, accountID, pageLimit, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Results...)

		if page.Next == "" || len(page.Results) == 0 {
			break
		}
		offset += pageLimit
	}

	return all, nil
}

// ListAccountUsers retrieves all users of one account.
func (c *Client) ListAccountUsers(ctx context.Context, accountID string) ([]AccountUser, error) {
	var page Page[AccountUser]
	endpoint := fmt.Sprintf("/accounts/%s/account_users", url.PathEscape(accountID))
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// createUserBody wraps the payload the way the account_users endpoint expects.
type createUserBody struct {
	User UserPayload `json:"user"`
}

// CreateAccountUser adds a user to an account.
func (c *Client) CreateAccountUser(ctx context.Context, accountID string, payload UserPayload) error {
	endpoint := fmt.Sprintf("/accounts/%s/account_users", url.PathEscape(accountID))
	return c.doRequest(ctx, http.MethodPost, endpoint, createUserBody{User: payload}, nil)
}

// DeleteAccountUser removes a user from an account.
func (c *Client) DeleteAccountUser(ctx context.Context, accountID, userID string) error {
	endpoint := fmt.Sprintf("/accounts/%s/account_users/%s", url.PathEscape(accountID), url.PathEscape(userID))
	return c.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}
