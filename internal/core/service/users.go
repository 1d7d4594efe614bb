package service

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/adminsuite/adminctl/internal/core/domain"
	"github.com/adminsuite/adminctl/internal/core/ports"
)

// UsersState is a point-in-time snapshot of the account collection. The list
// is a best-effort mirror of server state: authoritative only immediately
// after a successful fetch or mutation response.
type UsersState struct {
	Users       []domain.User
	CurrentUser *domain.User
	Fetching    bool
	Creating    bool
	Updating    bool
	Deleting    bool
	Err         string
	Success     string
}

// UsersService owns the fetched account list plus the caller's own record,
// and the CRUD actions against the backend. Mutations are confirmed-only:
// nothing is applied locally until the server's response arrives, and the
// server-returned record (not the submitted payload) is what gets merged,
// preserving server-assigned fields such as id and timestamps.
type UsersService struct {
	mu       sync.Mutex
	gateway  ports.Gateway
	validate *validator.Validate
	logger   zerolog.Logger

	state UsersState

	// one generation counter per busy-flag slot; stale responses are dropped
	fetchGen  uint64
	createGen uint64
	updateGen uint64
	deleteGen uint64
}

func NewUsersService(gateway ports.Gateway, logger zerolog.Logger) *UsersService {
	return &UsersService{
		gateway:  gateway,
		validate: validator.New(),
		logger:   logger,
	}
}

// State returns a copy of the current collection state.
func (s *UsersService) State() UsersState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Users = append([]domain.User(nil), s.state.Users...)
	if st.CurrentUser != nil {
		user := *st.CurrentUser
		st.CurrentUser = &user
	}
	return st
}

// FetchUsers retrieves the full account list, replacing the local mirror
// wholesale on success.
func (s *UsersService) FetchUsers(ctx context.Context) bool {
	g := s.begin(&s.fetchGen, &s.state.Fetching)

	users, err := s.gateway.ListUsers(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.fetchGen {
		return err == nil
	}
	s.state.Fetching = false
	if err != nil {
		s.setErrLocked(err.Error())
		return false
	}
	s.state.Users = users
	s.setSuccessLocked("users loaded")
	return true
}

// FetchMe retrieves the caller's own record into the current-user slot.
// On failure the slot is cleared.
func (s *UsersService) FetchMe(ctx context.Context) bool {
	g := s.begin(&s.fetchGen, &s.state.Fetching)

	user, err := s.gateway.CurrentUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.fetchGen {
		return err == nil
	}
	s.state.Fetching = false
	if err != nil {
		s.setErrLocked(err.Error())
		s.state.CurrentUser = nil
		return false
	}
	s.state.CurrentUser = user
	return true
}

// CreateUser posts a new account. On success the server-returned record is
// appended to the local list.
func (s *UsersService) CreateUser(ctx context.Context, input ports.CreateUserInput) bool {
	if err := s.validate.Struct(input); err != nil {
		s.mu.Lock()
		s.setErrLocked(humanizeValidation(err))
		s.mu.Unlock()
		return false
	}

	g := s.begin(&s.createGen, &s.state.Creating)

	created, err := s.gateway.CreateUser(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.createGen {
		return err == nil
	}
	s.state.Creating = false
	if err != nil {
		s.setErrLocked(err.Error())
		return false
	}
	s.state.Users = append(s.state.Users, *created)
	s.setSuccessLocked("user created")
	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user created")
	return true
}

// UpdateUser sends a partial update. On success the matching list entry is
// replaced by the server's record, and the current-user slot is refreshed
// when it points at the same id.
func (s *UsersService) UpdateUser(ctx context.Context, id string, input ports.UpdateUserInput) bool {
	if err := s.validate.Struct(input); err != nil {
		s.mu.Lock()
		s.setErrLocked(humanizeValidation(err))
		s.mu.Unlock()
		return false
	}

	g := s.begin(&s.updateGen, &s.state.Updating)

	updated, err := s.gateway.UpdateUser(ctx, id, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.updateGen {
		return err == nil
	}
	s.state.Updating = false
	if err != nil {
		s.setErrLocked(err.Error())
		return false
	}
	for i := range s.state.Users {
		if s.state.Users[i].ID == id {
			s.state.Users[i] = *updated
		}
	}
	if s.state.CurrentUser != nil && s.state.CurrentUser.ID == id {
		user := *updated
		s.state.CurrentUser = &user
	}
	s.setSuccessLocked("user updated")
	return true
}

// DeleteUser removes an account by id. On success exactly the matching
// entry leaves the local list; the current-user slot is cleared only when
// it pointed at the deleted id.
func (s *UsersService) DeleteUser(ctx context.Context, id string) bool {
	g := s.begin(&s.deleteGen, &s.state.Deleting)

	err := s.gateway.DeleteUser(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.deleteGen {
		return err == nil
	}
	s.state.Deleting = false
	if err != nil {
		s.setErrLocked(err.Error())
		return false
	}
	kept := s.state.Users[:0]
	for _, u := range s.state.Users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.state.Users = kept
	if s.state.CurrentUser != nil && s.state.CurrentUser.ID == id {
		s.state.CurrentUser = nil
	}
	s.setSuccessLocked("user deleted")
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return true
}

// ClearMessages resets error and success without touching any other field.
func (s *UsersService) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
	s.state.Success = ""
}

func (s *UsersService) begin(gen *uint64, busy *bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	*gen++
	*busy = true
	s.state.Err = ""
	s.state.Success = ""
	return *gen
}

func (s *UsersService) setErrLocked(msg string) {
	s.state.Err = msg
	s.state.Success = ""
}

func (s *UsersService) setSuccessLocked(msg string) {
	s.state.Success = msg
	s.state.Err = ""
}
