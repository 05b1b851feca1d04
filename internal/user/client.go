package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrUpstream marks a user service transport failure or unexpected status.
// Callers surface a generic failure to the player and the liveness probe is
// re-checked.
var ErrUpstream = errors.New("user service unavailable")

// RequestTimeout bounds a single upstream HTTP attempt.
const RequestTimeout = 5 * time.Second

// Cache sizing per the service contract: user records are hot during login
// bursts, the session count backs a single status line.
const (
	userCacheCapacity = 100
	cacheTTL          = 15 * time.Second
)

// Client is the HTTP client for the upstream user service. All account
// state lives there; Client adds retries, small TTL caches and liveness
// gating on top.
type Client struct {
	base     string
	http     *http.Client
	users    *Cache[uint32, User]
	sessions *Cache[uint8, int]
	probe    *Probe
}

// NewClient creates a client for the service at baseURL (scheme://host:port).
func NewClient(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 500 * time.Millisecond
	rc.HTTPClient.Timeout = RequestTimeout
	rc.Logger = retryLogger{}

	return &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     rc.StandardClient(),
		users:    NewCache[uint32, User](userCacheCapacity, cacheTTL),
		sessions: NewCache[uint8, int](1, cacheTTL),
	}
}

// retryLogger adapts slog to retryablehttp's leveled logger. Request and
// retry chatter stays at debug.
type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...any) {
	slog.Error(msg, keysAndValues...)
}

func (retryLogger) Warn(msg string, keysAndValues ...any) {
	slog.Warn(msg, keysAndValues...)
}

func (retryLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(msg, keysAndValues...)
}

func (retryLogger) Debug(msg string, keysAndValues ...any) {
	slog.Debug(msg, keysAndValues...)
}

// bindProbe wires the liveness probe in: lookups short-circuit while the
// upstream is down and transport errors trigger an immediate re-check.
// Called once from NewProbe before any traffic.
func (c *Client) bindProbe(p *Probe) {
	c.probe = p
}

func (c *Client) upstreamAlive() bool {
	return c.probe == nil || c.probe.IsAlive()
}

func (c *Client) transportError() {
	if c.probe != nil {
		c.probe.TriggerRecheck()
	}
}

// doJSON performs one service call. A nil body sends no payload; a non-nil
// out decodes a 2xx response into it. Returns the status code so callers can
// branch on expected non-2xx statuses (404 lookups).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) (int, error) {
	if !c.upstreamAlive() {
		return 0, fmt.Errorf("%w: skipping %s %s while down", ErrUpstream, method, path)
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return 0, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.transportError()
		return 0, fmt.Errorf("%w: %s %s: %v", ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
		return resp.StatusCode, nil
	}

	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// unexpectedStatus classifies a status outside the expected set and pokes
// the probe: a misbehaving upstream counts as unavailable.
func (c *Client) unexpectedStatus(method, path string, status int) error {
	c.transportError()
	return fmt.Errorf("%w: %s %s returned %d", ErrUpstream, method, path, status)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type validateResponse struct {
	UserID int32 `json:"userId"`
}

// Login validates credentials upstream. The returned id is positive for a
// known user, 0 when the username does not exist and -1 on a bad password.
func (c *Client) Login(ctx context.Context, username, password string) (int32, error) {
	return c.validate(ctx, "/users/auth/validate", username, password)
}

// ValidatePasswordRecovery checks the security answer during password
// recovery; id semantics match Login.
func (c *Client) ValidatePasswordRecovery(ctx context.Context, username, answer string) (int32, error) {
	return c.validate(ctx, "/users/auth/validate_security", username, answer)
}

func (c *Client) validate(ctx context.Context, path, username, secret string) (int32, error) {
	var out validateResponse
	status, err := c.doJSON(ctx, http.MethodPost, path, credentialsRequest{Username: username, Password: secret}, &out)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, c.unexpectedStatus(http.MethodPost, path, status)
	}
	return out.UserID, nil
}

type logoutRequest struct {
	UserID uint32 `json:"userId"`
}

// Logout tells the service the user's session ended.
func (c *Client) Logout(ctx context.Context, userID uint32) error {
	path := "/users/auth/logout"
	status, err := c.doJSON(ctx, http.MethodPost, path, logoutRequest{UserID: userID}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return c.unexpectedStatus(http.MethodPost, path, status)
	}
	return nil
}

// GetByID fetches a user record, serving repeats from the TTL cache.
// Returns nil, nil when the user does not exist.
func (c *Client) GetByID(ctx context.Context, id uint32) (*User, error) {
	if cached, ok := c.users.Get(id); ok {
		u := cached
		return &u, nil
	}

	path := fmt.Sprintf("/users/%d", id)
	var u User
	status, err := c.doJSON(ctx, http.MethodGet, path, nil, &u)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		c.users.Put(id, u)
		return &u, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, c.unexpectedStatus(http.MethodGet, path, status)
	}
}

// GetByName fetches a user record by player name. Names are unique
// upstream. Returns nil, nil when no user carries the name.
func (c *Client) GetByName(ctx context.Context, name string) (*User, error) {
	path := "/users/byname/" + name
	var u User
	status, err := c.doJSON(ctx, http.MethodGet, path, nil, &u)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		c.users.Put(u.ID, u)
		return &u, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, c.unexpectedStatus(http.MethodGet, path, status)
	}
}

type createUserRequest struct {
	Username   string `json:"username"`
	PlayerName string `json:"playername"`
	Password   string `json:"password"`
}

// Create registers a new account and returns the stored record.
func (c *Client) Create(ctx context.Context, username, playerName, password string) (*User, error) {
	path := "/users/"
	var u User
	status, err := c.doJSON(ctx, http.MethodPost, path,
		createUserRequest{Username: username, PlayerName: playerName, Password: password}, &u)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, c.unexpectedStatus(http.MethodPost, path, status)
	}
	return &u, nil
}

// Delete removes the account.
func (c *Client) Delete(ctx context.Context, id uint32) error {
	path := fmt.Sprintf("/users/%d", id)
	status, err := c.doJSON(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return c.unexpectedStatus(http.MethodDelete, path, status)
	}
	c.users.Invalidate(id)
	return nil
}

// updateUser PUTs a partial user document and invalidates the cache entry.
func (c *Client) updateUser(ctx context.Context, id uint32, fields any) error {
	path := fmt.Sprintf("/users/%d", id)
	status, err := c.doJSON(ctx, http.MethodPut, path, fields, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return c.unexpectedStatus(http.MethodPut, path, status)
	}
	c.users.Invalidate(id)
	return nil
}

// UpdatePassword replaces the account password.
func (c *Client) UpdatePassword(ctx context.Context, id uint32, newPassword string) error {
	return c.updateUser(ctx, id, struct {
		Password string `json:"password"`
	}{newPassword})
}

// SetAvatar stores the profile avatar.
func (c *Client) SetAvatar(ctx context.Context, id uint32, avatar uint16) error {
	return c.updateUser(ctx, id, struct {
		Avatar uint16 `json:"avatar"`
	}{avatar})
}

// SetSignature stores the profile signature line.
func (c *Client) SetSignature(ctx context.Context, id uint32, signature string) error {
	return c.updateUser(ctx, id, struct {
		Signature string `json:"signature"`
	}{signature})
}

// SetTitle stores the equipped title.
func (c *Client) SetTitle(ctx context.Context, id uint32, title uint16) error {
	return c.updateUser(ctx, id, struct {
		Title uint16 `json:"title"`
	}{title})
}

type pingResponse struct {
	Sessions int `json:"sessions"`
}

// SessionCount returns how many sessions the service tracks, cached for the
// TTL window.
func (c *Client) SessionCount(ctx context.Context) (int, error) {
	if cached, ok := c.sessions.Get(0); ok {
		return cached, nil
	}

	var out pingResponse
	status, err := c.doJSON(ctx, http.MethodGet, "/ping", nil, &out)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, c.unexpectedStatus(http.MethodGet, "/ping", status)
	}
	c.sessions.Put(0, out.Sessions)
	return out.Sessions, nil
}

// ping is the raw probe call: no liveness gate, no cache.
func (c *Client) ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/ping", nil)
	if err != nil {
		return 0, fmt.Errorf("building ping: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: ping: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("%w: ping returned %d", ErrUpstream, resp.StatusCode)
	}

	var out pingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decoding ping response: %w", err)
	}
	c.sessions.Put(0, out.Sessions)
	return out.Sessions, nil
}
