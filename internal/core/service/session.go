package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/adminsuite/adminctl/internal/core/domain"
	"github.com/adminsuite/adminctl/internal/core/ports"
)

// SessionState is a point-in-time snapshot of the authentication state.
// Err and Success are mutually exclusive: setting one clears the other.
type SessionState struct {
	Loading bool
	Err     *domain.AuthError
	Success string
	User    *domain.User
}

// SessionService owns the authenticated-user context and the actions that
// mutate it. State is guarded by a mutex; every network action carries a
// generation number so a superseded call cannot overwrite newer state with
// a stale response.
type SessionService struct {
	mu      sync.Mutex
	gateway ports.Gateway
	store   ports.SessionStore
	logger  zerolog.Logger

	state   SessionState
	session *domain.Session
	gen     uint64
}

// NewSessionService builds the controller and hydrates it from the session
// store. A record that cannot be loaded is discarded and the store cleared,
// so a corrupt file never wedges startup.
func NewSessionService(gateway ports.Gateway, store ports.SessionStore, logger zerolog.Logger) *SessionService {
	s := &SessionService{gateway: gateway, store: store, logger: logger}

	sess, err := store.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("discarding unreadable session record")
		_ = store.Clear()
		return s
	}
	if sess != nil {
		user := sess.User
		s.state.User = &user
		s.session = sess
		s.gateway.SetSession(sess)
	}
	return s
}

// State returns a copy of the current session state.
func (s *SessionService) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.User != nil {
		user := *st.User
		st.User = &user
	}
	return st
}

// CurrentUser returns the authenticated user, or nil.
func (s *SessionService) CurrentUser() *domain.User {
	return s.State().User
}

// PersistedSession returns a copy of the session held for the gateway, or
// nil when not authenticated.
func (s *SessionService) PersistedSession() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	dup := *s.session
	return &dup
}

// Login authenticates with username/password credentials. On success the
// returned session is installed on the gateway and persisted to the store.
// Returns true on success so callers branch without error handling.
func (s *SessionService) Login(ctx context.Context, username, password string) bool {
	g := s.begin()
	res, err := s.gateway.Login(ctx, username, password)
	return s.completeLogin(g, res, err)
}

// LoginWithGoogle exchanges an OAuth authorization code for a session.
// Same contract as Login.
func (s *SessionService) LoginWithGoogle(ctx context.Context, code string) bool {
	g := s.begin()
	res, err := s.gateway.LoginWithGoogle(ctx, code)
	return s.completeLogin(g, res, err)
}

// Logout clears the session locally. The backend session is left untouched;
// the server's cookie simply stops being presented.
func (s *SessionService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++ // in-flight responses are stale from here on
	s.state.User = nil
	s.session = nil
	s.gateway.SetSession(nil)
	if err := s.store.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear session store")
	}
	s.logger.Info().Msg("logged out")
}

// ForgotPassword asks the backend to send a recovery link. On success the
// backend's own message is surfaced.
func (s *SessionService) ForgotPassword(ctx context.Context, email string) bool {
	g := s.begin()
	msg, err := s.gateway.ForgotPassword(ctx, email)
	return s.completeMessage(g, msg, err)
}

// ResetPassword exchanges a recovery token for a new password.
func (s *SessionService) ResetPassword(ctx context.Context, token, newPassword string) bool {
	g := s.begin()
	msg, err := s.gateway.ResetPassword(ctx, token, newPassword)
	return s.completeMessage(g, msg, err)
}

// ClearMessages resets error and success without touching any other field.
func (s *SessionService) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = nil
	s.state.Success = ""
}

// begin marks the start of a network action: loading on, messages cleared,
// and a fresh generation number claimed.
func (s *SessionService) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state.Loading = true
	s.state.Err = nil
	s.state.Success = ""
	return s.gen
}

// completeLogin applies a login outcome. A stale completion (superseded by a
// newer action) reports its own outcome but leaves state alone.
func (s *SessionService) completeLogin(g uint64, res *ports.LoginResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g != s.gen {
		s.logger.Debug().Uint64("gen", g).Msg("discarding stale login response")
		return err == nil
	}
	s.state.Loading = false

	if err != nil {
		s.setErrLocked(err)
		return false
	}

	user := res.User
	sess := &domain.Session{User: user, AccessToken: res.AccessToken, TokenType: res.TokenType}
	s.state.User = &user
	s.session = sess
	s.gateway.SetSession(sess)
	if err := s.store.Save(sess); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist session")
	}
	s.setSuccessLocked("login successful")
	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("authenticated")
	return true
}

// completeMessage applies the outcome of a fire-and-report action.
func (s *SessionService) completeMessage(g uint64, msg string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g != s.gen {
		return err == nil
	}
	s.state.Loading = false

	if err != nil {
		s.setErrLocked(err)
		return false
	}
	s.setSuccessLocked(msg)
	return true
}

func (s *SessionService) setErrLocked(err error) {
	var authErr *domain.AuthError
	if !errors.As(err, &authErr) {
		authErr = &domain.AuthError{Message: err.Error()}
	}
	s.state.Err = authErr
	s.state.Success = ""
}

func (s *SessionService) setSuccessLocked(msg string) {
	s.state.Success = msg
	s.state.Err = nil
}
