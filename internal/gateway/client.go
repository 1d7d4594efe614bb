package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminsuite/adminctl/internal/core/domain"
	"github.com/adminsuite/adminctl/internal/core/ports"
)

// HTTPGateway talks to the admin backend over HTTP. A cookie jar carries the
// credential cookie the backend sets at login; when a bearer access token is
// held it is attached as well.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger

	mu      sync.Mutex
	session *domain.Session
}

var _ ports.Gateway = (*HTTPGateway)(nil)

func New(baseURL string, timeout time.Duration, logger zerolog.Logger) (*HTTPGateway, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout, Jar: jar},
		logger:  logger,
	}, nil
}

// SetSession installs the credentials attached to authenticated requests.
// Pass nil to clear them.
func (g *HTTPGateway) SetSession(session *domain.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if session == nil {
		g.session = nil
		return
	}
	dup := *session
	g.session = &dup
}

func (g *HTTPGateway) bearer() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil || g.session.AccessToken == "" {
		return ""
	}
	tokenType := g.session.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType + " " + g.session.AccessToken
}

// Health queries the backend health probe. The body is decoded regardless of
// status code: an unhealthy backend still answers with a health report.
func (g *HTTPGateway) Health(ctx context.Context) (*domain.Health, error) {
	body, _, err := g.do(ctx, http.MethodGet, EndpointHealth, nil)
	if err != nil {
		return nil, err
	}
	var health domain.Health
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return &health, nil
}

func (g *HTTPGateway) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}
	return g.authenticate(ctx, EndpointLogin, payload, "invalid credentials")
}

func (g *HTTPGateway) LoginWithGoogle(ctx context.Context, code string) (*ports.LoginResult, error) {
	payload := map[string]string{"token": code}
	return g.authenticate(ctx, EndpointGoogleLogin, payload, "google authentication failed")
}

func (g *HTTPGateway) authenticate(ctx context.Context, path string, payload any, fallback string) (*ports.LoginResult, error) {
	body, status, err := g.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, decodeAuthError(body, fallback)
	}
	var result ports.LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &result, nil
}

func (g *HTTPGateway) ForgotPassword(ctx context.Context, email string) (string, error) {
	return g.passwordAction(ctx, EndpointForgotPassword, map[string]string{"email": email}, "unable to process request")
}

func (g *HTTPGateway) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	payload := map[string]string{"token": token, "newPassword": newPassword}
	return g.passwordAction(ctx, EndpointResetPassword, payload, "unable to reset password")
}

func (g *HTTPGateway) passwordAction(ctx context.Context, path string, payload any, fallback string) (string, error) {
	body, status, err := g.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", decodeAuthError(body, fallback)
	}
	var result struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return result.Message, nil
}

func (g *HTTPGateway) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := g.userRequest(ctx, http.MethodGet, EndpointUsers, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (g *HTTPGateway) CurrentUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := g.userRequest(ctx, http.MethodGet, EndpointCurrentUser, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *HTTPGateway) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	var user domain.User
	if err := g.userRequest(ctx, http.MethodPost, EndpointUsers, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *HTTPGateway) UpdateUser(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	var user domain.User
	if err := g.userRequest(ctx, http.MethodPut, userPath(id), input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *HTTPGateway) DeleteUser(ctx context.Context, id string) error {
	return g.userRequest(ctx, http.MethodDelete, userPath(id), nil, nil)
}

// userRequest performs a user-endpoint call and unwraps the
// {success, message, data} envelope. A response with success=false counts as
// a failure even under a 2xx status.
func (g *HTTPGateway) userRequest(ctx context.Context, method, path string, payload, out any) error {
	body, status, err := g.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return decodeUserError(status, body)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !envelope.Success {
		if envelope.Message != "" {
			return errors.New(envelope.Message)
		}
		return fmt.Errorf("HTTP %d: %s", status, http.StatusText(status))
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// do executes one request and returns the raw body and status code.
// Transport failures come back wrapped; status handling is the caller's.
func (g *HTTPGateway) do(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth := g.bearer(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	g.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	return body, resp.StatusCode, nil
}
