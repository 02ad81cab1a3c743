// Package adminclient is a typed Go client for the admin API: login, the
// paginated table contract, and the per-module upsert flow the console
// drives.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/restofleet/pos-admin-api/internal/listquery"
)

// Envelope mirrors the wire format: data is present exactly on success,
// error carries the machine-readable code on failure, details any structured
// failure context.
type Envelope[T any] struct {
	StatusCode int             `json:"statusCode"`
	Data       T               `json:"data,omitempty"`
	Message    string          `json:"message,omitempty"`
	Error      string          `json:"error,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
}

// APIError is a non-2xx envelope surfaced as a Go error.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// PermissionGrant is one granted operation, used to gate console controls.
type PermissionGrant struct {
	Name    string `json:"name"`
	Method  string `json:"method"`
	APIPath string `json:"apiPath"`
	Module  string `json:"module"`
}

type LoginUser struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Role        string            `json:"role"`
	Permissions []PermissionGrant `json:"permissions"`
}

type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	User        LoginUser `json:"user"`
}

// Login authenticates and stores the access token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.SetToken(result.AccessToken)
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.getToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env Envelope[json.RawMessage]
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Code: "UNKNOWN", Message: "undecodable error response"}
		}
		return &APIError{StatusCode: resp.StatusCode, Code: env.Error, Message: env.Message, Details: env.Details}
	}
	if out == nil {
		return nil
	}

	var env Envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// PageMeta mirrors the list payload's meta block.
type PageMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Pages    int   `json:"pages"`
	Total    int64 `json:"total"`
}

// Page is one rendered table page.
type Page[T any] struct {
	Meta   PageMeta `json:"meta"`
	Result []T      `json:"result"`
}

// SequenceNumber is the ordinal shown in the table's first column for the
// row at index on this page.
func (p Page[T]) SequenceNumber(index int) int {
	return listquery.SequenceNumber(index, p.Meta.Page, p.Meta.PageSize)
}

// Resource binds the client to one module's routes and list policy.
type Resource[T any] struct {
	c        *Client
	path     string
	priority []string
	def      listquery.Sort
}

func NewResource[T any](c *Client, path string, priority []string, def listquery.Sort) *Resource[T] {
	return &Resource[T]{c: c, path: strings.TrimRight(path, "/"), priority: priority, def: def}
}

// List fetches the page described by the table state.
func (r *Resource[T]) List(ctx context.Context, st listquery.TableState) (*Page[T], error) {
	query := listquery.BuildQuery(st, r.priority, r.def)
	var page Page[T]
	if err := r.c.do(ctx, http.MethodGet, r.path+"?"+query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *Resource[T]) Get(ctx context.Context, id uint) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", r.path, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Create(ctx context.Context, payload any) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPost, r.path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Update(ctx context.Context, id uint, payload any) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", r.path, id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id uint) error {
	return r.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", r.path, id), nil, nil)
}
