// Package remote is the HTTP client of the reservation service.  Client
// implements history.ReservationService.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/table-reservation/internal/history"
	"github.com/iliyamo/table-reservation/internal/logging"
	"github.com/iliyamo/table-reservation/internal/model"
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the reservation service at BaseURL.  Token, when set, is
// sent as a bearer token.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a client for baseURL.  A nil logger discards.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     logger,
	}
}

var _ history.ReservationService = (*Client)(nil)

// Session is the result of a successful login.
type Session struct {
	UserID  uint64    `json:"userId"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Login exchanges credentials for an access token.  The client keeps using
// its current token; callers decide whether to adopt the new one.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var resp struct {
		User struct {
			ID    uint64 `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Access struct {
			Token   string    `json:"token"`
			Expires time.Time `json:"expires"`
		} `json:"access"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", body, &resp); err != nil {
		return Session{}, err
	}
	return Session{
		UserID:  resp.User.ID,
		Email:   resp.User.Email,
		Role:    resp.User.Role,
		Token:   resp.Access.Token,
		Expires: resp.Access.Expires,
	}, nil
}

// ListMine fetches one page of the caller's reservations.
func (c *Client) ListMine(ctx context.Context, q history.Query) (model.Page, error) {
	var page model.Page
	if err := c.do(ctx, http.MethodGet, "/v1/reservations?"+ListQuery(q).Encode(), nil, &page); err != nil {
		return model.Page{}, err
	}
	if page.Content == nil {
		page.Content = []model.Reservation{}
	}
	return page, nil
}

// ListQuery encodes q as the reservation list query string.  The status
// parameter is omitted when every status is selected.
func ListQuery(q history.Query) url.Values {
	v := url.Values{}
	v.Set("mine", "true")
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.PageSize))
	v.Set("sort", q.Sort.String())
	if q.Status != model.StatusAll {
		v.Set("status", string(q.Status))
	}
	return v
}

// ListTables fetches the table catalog.
func (c *Client) ListTables(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	if err := c.do(ctx, http.MethodGet, "/v1/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// UpdateReservation sends patch for the reservation publicID.
func (c *Client) UpdateReservation(ctx context.Context, publicID string, patch model.Patch) (model.Reservation, error) {
	var r model.Reservation
	if err := c.do(ctx, http.MethodPatch, "/v1/reservation/"+url.PathEscape(publicID), patch, &r); err != nil {
		return model.Reservation{}, err
	}
	return r, nil
}

// do performs the request and decodes a 2xx JSON answer into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	target := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	c.Logger.Debug("HTTP request", "method", method, "url", target)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug("HTTP response", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} or echo's {"message": "..."}.
func errorMessage(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return strings.TrimSpace(string(body))
}
