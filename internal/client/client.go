// Package client is a Go client for the inventory API. It keeps the bearer
// token issued at login and attaches it to every product request.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNotAuthenticated is returned by product calls made before Login.
var ErrNotAuthenticated = errors.New("client: not logged in")

// APIError carries the error body returned by the server.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inventory api: status %d", e.Status)
	}
	return fmt.Sprintf("inventory api: %s (status %d)", e.Message, e.Status)
}

type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Quantity    int    `json:"cantidad"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ProductPatch holds the fields to change; nil fields are left untouched.
type ProductPatch struct {
	Name        *string `json:"nombre,omitempty"`
	Description *string `json:"descripcion,omitempty"`
	Quantity    *int    `json:"cantidad,omitempty"`
}

// Session is the persisted login state.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Client struct {
	rest      *resty.Client
	tokenFile string
	now       func() time.Time

	mu      sync.RWMutex
	session Session
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.rest = resty.NewWithClient(hc)
	}
}

// WithTokenFile persists the session at path so it survives restarts.
func WithTokenFile(path string) Option {
	return func(c *Client) {
		c.tokenFile = path
	}
}

// New builds a client for the server at baseURL, e.g. http://localhost:3000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		rest: resty.New(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rest.
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api").
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	if c.tokenFile != "" {
		if s, err := readSession(c.tokenFile); err == nil {
			c.session = s
		}
	}
	return c
}

func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var user User
	_, err := c.do(ctx, http.MethodPost, "/register", false, credentials(email, password), &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var resp struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/login", false, credentials(email, password), &resp); err != nil {
		return Session{}, err
	}

	expires, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	if err != nil {
		return Session{}, fmt.Errorf("parse expires_at: %w", err)
	}
	session := Session{Token: resp.Token, ExpiresAt: expires}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	if c.tokenFile != "" {
		if err := writeSession(c.tokenFile, session); err != nil {
			return session, err
		}
	}
	return session, nil
}

// Logout forgets the stored token.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.session = Session{}
	c.mu.Unlock()

	if c.tokenFile == "" {
		return nil
	}
	if err := os.Remove(c.tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Token
}

// Authenticated reports whether a token is held and not yet expired.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Token != "" && c.now().Before(c.session.ExpiresAt)
}

// UserID reads the subject of the held token. The signature is not checked;
// only the server can do that.
func (c *Client) UserID() (int64, bool) {
	token := c.Token()
	if token == "" {
		return 0, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if _, err := c.do(ctx, http.MethodGet, "/productos", true, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if _, err := c.do(ctx, http.MethodGet, productPath(id), true, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, name, description string, quantity int) (*Product, error) {
	body := map[string]any{"nombre": name, "descripcion": description, "cantidad": quantity}
	var product Product
	if _, err := c.do(ctx, http.MethodPost, "/productos", true, body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (*Product, error) {
	var product Product
	if _, err := c.do(ctx, http.MethodPut, productPath(id), true, patch, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, productPath(id), true, nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, authenticated bool, body, result any) (*resty.Response, error) {
	req := c.rest.R().SetContext(ctx).SetError(&APIError{})
	if authenticated {
		token := c.Token()
		if token == "" {
			return nil, ErrNotAuthenticated
		}
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr, ok := resp.Error().(*APIError)
		if !ok || apiErr == nil {
			apiErr = &APIError{}
		}
		apiErr.Status = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(resp.String())
		}
		return resp, apiErr
	}
	return resp, nil
}

func credentials(email, password string) map[string]string {
	return map[string]string{"email": email, "password": password}
}

func productPath(id int64) string {
	return "/productos/" + strconv.FormatInt(id, 10)
}

func readSession(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode token file: %w", err)
	}
	return s, nil
}

func writeSession(path string, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
