package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/adminsuite/adminctl/internal/core/domain"
	"github.com/adminsuite/adminctl/internal/core/ports"
)

// stubGateway scripts gateway responses per operation. Optional hook
// functions override the scripted values, which tests use to inject
// blocking behaviour.
type stubGateway struct {
	loginResult  *ports.LoginResult
	loginErr     error
	loginFn      func() (*ports.LoginResult, error)
	message      string
	messageErr   error
	session      *domain.Session
	sessionCalls int

	users      []domain.User
	usersErr   error
	me         *domain.User
	meErr      error
	created    *domain.User
	createErr  error
	createSeen *ports.CreateUserInput
	updated    *domain.User
	updateErr  error
	deleteErr  error
}

func (g *stubGateway) Health(context.Context) (*domain.Health, error) {
	return &domain.Health{Status: domain.HealthStatusHealthy, Database: domain.DatabaseConnected}, nil
}

func (g *stubGateway) Login(context.Context, string, string) (*ports.LoginResult, error) {
	if g.loginFn != nil {
		return g.loginFn()
	}
	return g.loginResult, g.loginErr
}

func (g *stubGateway) LoginWithGoogle(context.Context, string) (*ports.LoginResult, error) {
	return g.loginResult, g.loginErr
}

func (g *stubGateway) ForgotPassword(context.Context, string) (string, error) {
	return g.message, g.messageErr
}

func (g *stubGateway) ResetPassword(context.Context, string, string) (string, error) {
	return g.message, g.messageErr
}

func (g *stubGateway) ListUsers(context.Context) ([]domain.User, error) {
	return g.users, g.usersErr
}

func (g *stubGateway) CurrentUser(context.Context) (*domain.User, error) {
	return g.me, g.meErr
}

func (g *stubGateway) CreateUser(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
	g.createSeen = &input
	return g.created, g.createErr
}

func (g *stubGateway) UpdateUser(context.Context, string, ports.UpdateUserInput) (*domain.User, error) {
	return g.updated, g.updateErr
}

func (g *stubGateway) DeleteUser(context.Context, string) error {
	return g.deleteErr
}

func (g *stubGateway) SetSession(session *domain.Session) {
	g.session = session
	g.sessionCalls++
}

// stubStore is an in-memory SessionStore.
type stubStore struct {
	session *domain.Session
	loadErr error
	saveErr error
	cleared int
}

func (s *stubStore) Load() (*domain.Session, error) {
	return s.session, s.loadErr
}

func (s *stubStore) Save(session *domain.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	dup := *session
	s.session = &dup
	return nil
}

func (s *stubStore) Clear() error {
	s.session = nil
	s.cleared++
	return nil
}

func testUser(id, email string) domain.User {
	return domain.User{ID: id, Email: email, Name: "Test", Role: domain.RoleUser, IsActive: true}
}

func newSession(gw ports.Gateway, st ports.SessionStore) *SessionService {
	return NewSessionService(gw, st, zerolog.Nop())
}

func TestSessionService_Login_Success(t *testing.T) {
	user := testUser("u1", "a@b.com")
	gw := &stubGateway{loginResult: &ports.LoginResult{AccessToken: "tok", TokenType: "bearer", User: user}}
	st := &stubStore{}
	svc := newSession(gw, st)

	if !svc.Login(context.Background(), "a@b.com", "x") {
		t.Fatalf("login should succeed")
	}

	state := svc.State()
	if state.Loading {
		t.Fatalf("loading should be cleared")
	}
	if state.Err != nil {
		t.Fatalf("unexpected error: %v", state.Err)
	}
	if state.Success == "" {
		t.Fatalf("success message should be set")
	}
	if state.User == nil || state.User.ID != "u1" {
		t.Fatalf("unexpected user: %+v", state.User)
	}
	if st.session == nil || st.session.User.ID != "u1" || st.session.AccessToken != "tok" {
		t.Fatalf("session not persisted: %+v", st.session)
	}
	if gw.session == nil || gw.session.AccessToken != "tok" {
		t.Fatalf("session not installed on gateway")
	}
}

func TestSessionService_Login_BackendRejection(t *testing.T) {
	gw := &stubGateway{loginErr: &domain.AuthError{Message: "Credenciales incorrectas"}}
	svc := newSession(gw, &stubStore{})

	if svc.Login(context.Background(), "a@b.com", "x") {
		t.Fatalf("login should fail")
	}

	state := svc.State()
	if state.User != nil {
		t.Fatalf("user must stay nil after failed login")
	}
	if state.Err == nil || state.Err.Message != "Credenciales incorrectas" {
		t.Fatalf("expected backend message, got %+v", state.Err)
	}
	if state.Success != "" {
		t.Fatalf("success must be empty when error is set")
	}
	if state.Loading {
		t.Fatalf("loading should be cleared")
	}
}

func TestSessionService_Login_TransportFailure(t *testing.T) {
	gw := &stubGateway{loginErr: errors.New("POST /api/v1/auth/login: connection refused")}
	svc := newSession(gw, &stubStore{})

	if svc.Login(context.Background(), "a@b.com", "x") {
		t.Fatalf("login should fail")
	}
	if svc.State().Err == nil {
		t.Fatalf("transport failure must surface as an error message")
	}
}

func TestSessionService_Hydration(t *testing.T) {
	user := testUser("u7", "saved@b.com")
	st := &stubStore{session: &domain.Session{User: user, AccessToken: "tok"}}
	gw := &stubGateway{}
	svc := newSession(gw, st)

	got := svc.CurrentUser()
	if got == nil || got.ID != "u7" {
		t.Fatalf("expected hydrated user, got %+v", got)
	}
	if gw.session == nil || gw.session.AccessToken != "tok" {
		t.Fatalf("hydrated session must be installed on gateway")
	}
}

func TestSessionService_Hydration_CorruptRecord(t *testing.T) {
	st := &stubStore{loadErr: errors.New("decode session: unexpected end of JSON input")}
	svc := newSession(&stubGateway{}, st)

	if svc.CurrentUser() != nil {
		t.Fatalf("corrupt record must not hydrate a user")
	}
	if st.cleared != 1 {
		t.Fatalf("corrupt record must be cleared, cleared=%d", st.cleared)
	}
}

func TestSessionService_Logout(t *testing.T) {
	user := testUser("u1", "a@b.com")
	gw := &stubGateway{loginResult: &ports.LoginResult{AccessToken: "tok", User: user}}
	st := &stubStore{}
	svc := newSession(gw, st)

	svc.Login(context.Background(), "a@b.com", "x")
	svc.Logout()

	if svc.CurrentUser() != nil {
		t.Fatalf("user must be cleared on logout")
	}
	if st.session != nil {
		t.Fatalf("persisted session must be cleared on logout")
	}
	if gw.session != nil {
		t.Fatalf("gateway credentials must be cleared on logout")
	}
}

func TestSessionService_ForgotPassword_SurfacesBackendMessage(t *testing.T) {
	gw := &stubGateway{message: "recovery link sent"}
	svc := newSession(gw, &stubStore{})

	if !svc.ForgotPassword(context.Background(), "a@b.com") {
		t.Fatalf("forgot password should succeed")
	}
	if got := svc.State().Success; got != "recovery link sent" {
		t.Fatalf("expected backend message, got %q", got)
	}
}

func TestSessionService_ResetPassword_Failure(t *testing.T) {
	gw := &stubGateway{messageErr: &domain.AuthError{Message: "invalid or expired recovery token"}}
	svc := newSession(gw, &stubStore{})

	if svc.ResetPassword(context.Background(), "tok", "newpass123") {
		t.Fatalf("reset should fail")
	}
	if got := svc.State().Err; got == nil || got.Message != "invalid or expired recovery token" {
		t.Fatalf("expected backend message, got %+v", got)
	}
}

func TestSessionService_ClearMessages(t *testing.T) {
	user := testUser("u1", "a@b.com")
	gw := &stubGateway{loginResult: &ports.LoginResult{User: user}}
	svc := newSession(gw, &stubStore{})

	svc.Login(context.Background(), "a@b.com", "x")
	svc.ClearMessages()

	state := svc.State()
	if state.Err != nil || state.Success != "" {
		t.Fatalf("messages not cleared: %+v", state)
	}
	if state.User == nil {
		t.Fatalf("ClearMessages must not touch the user")
	}
}

func TestSessionService_ErrorAndSuccessMutuallyExclusive(t *testing.T) {
	gw := &stubGateway{loginErr: &domain.AuthError{Message: "no"}}
	svc := newSession(gw, &stubStore{})

	svc.Login(context.Background(), "a@b.com", "x")
	if svc.State().Err == nil {
		t.Fatalf("expected error")
	}

	gw.loginErr = nil
	user := testUser("u1", "a@b.com")
	gw.loginResult = &ports.LoginResult{User: user}
	svc.Login(context.Background(), "a@b.com", "x")

	state := svc.State()
	if state.Err != nil {
		t.Fatalf("success must clear the previous error")
	}
	if state.Success == "" {
		t.Fatalf("expected success message")
	}
}

func TestSessionService_StaleResponseDiscarded(t *testing.T) {
	slowUser := testUser("stale", "stale@b.com")
	fastUser := testUser("fresh", "fresh@b.com")

	gw := &stubGateway{}
	svc := newSession(gw, &stubStore{})

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	// The first call claims its generation, signals, and blocks until
	// released; by then a second call has superseded it.
	var calls int32
	gw.loginFn = func() (*ports.LoginResult, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
			return &ports.LoginResult{User: slowUser}, nil
		}
		return &ports.LoginResult{User: fastUser}, nil
	}

	go func() {
		svc.Login(context.Background(), "stale@b.com", "x")
		close(done)
	}()

	<-started
	if !svc.Login(context.Background(), "fresh@b.com", "x") {
		t.Fatalf("superseding login should succeed")
	}

	close(release)
	<-done

	got := svc.CurrentUser()
	if got == nil || got.ID != "fresh" {
		t.Fatalf("stale response must not overwrite newer state, got %+v", got)
	}
}
