// Package sandbox embeds a faithful rendering of the backend wire contract
// behind `adminctl sandbox`, so the console can be exercised end to end
// without a real deployment. Accounts live in memory and reset on restart.
package sandbox

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adminsuite/adminctl/internal/core/domain"
)

const resetTokenTTL = time.Hour

type account struct {
	user         domain.User
	passwordHash string
}

type resetToken struct {
	userID    string
	expiresAt time.Time
}

// Store is the sandbox's in-memory account repository.
type Store struct {
	mu          sync.Mutex
	accounts    map[string]*account // keyed by user id
	order       []string            // ids in creation order
	resetTokens map[string]resetToken
}

func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]*account),
		resetTokens: make(map[string]resetToken),
	}
}

// Seed creates an account directly, bypassing the API. Used for the initial
// admin user.
func (s *Store) Seed(email, name, password, role string) (*domain.User, error) {
	return s.Create(domain.User{Email: email, Name: name, Role: role, IsActive: true}, password)
}

// Create inserts a new account. The id and timestamps are assigned here;
// a duplicate email yields domain.ErrUserExists.
func (s *Store) Create(user domain.User, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmailLocked(user.Email) != nil {
		return nil, domain.ErrUserExists
	}

	now := time.Now().UTC()
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.accounts[user.ID] = &account{user: user, passwordHash: string(hash)}
	s.order = append(s.order, user.ID)

	result := user
	return &result, nil
}

// Authenticate verifies credentials and records the login time.
func (s *Store) Authenticate(email, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.findByEmailLocked(email)
	if acct == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !acct.user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	acct.user.LastLoginAt = &now

	result := acct.user
	return &result, nil
}

// FindOrCreateByEmail returns the account with the given email, creating it
// with a random password when absent. Backs the OAuth code exchange.
func (s *Store) FindOrCreateByEmail(email, name, role string) (*domain.User, error) {
	s.mu.Lock()
	if acct := s.findByEmailLocked(email); acct != nil {
		now := time.Now().UTC()
		acct.user.LastLoginAt = &now
		result := acct.user
		s.mu.Unlock()
		return &result, nil
	}
	s.mu.Unlock()

	user, err := s.Create(domain.User{Email: email, Name: name, Role: role, IsActive: true}, uuid.New().String())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	now := time.Now().UTC()
	s.accounts[user.ID].user.LastLoginAt = &now
	result := s.accounts[user.ID].user
	s.mu.Unlock()
	return &result, nil
}

// List returns all accounts in creation order.
func (s *Store) List() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]domain.User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, s.accounts[id].user)
	}
	return users
}

// Get returns the account with the given id.
func (s *Store) Get(id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	result := acct.user
	return &result, nil
}

// Update applies the non-nil fields and bumps the updated timestamp.
func (s *Store) Update(id string, name, lastName, role *string, isActive *bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if name != nil {
		acct.user.Name = *name
	}
	if lastName != nil {
		acct.user.LastName = *lastName
	}
	if role != nil {
		acct.user.Role = *role
	}
	if isActive != nil {
		acct.user.IsActive = *isActive
	}
	acct.user.UpdatedAt = time.Now().UTC()

	result := acct.user
	return &result, nil
}

// Delete removes the account with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.accounts, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// CreateResetToken mints a recovery token for the account with the given
// email. Expired tokens are swept opportunistically.
func (s *Store) CreateResetToken(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.findByEmailLocked(email)
	if acct == nil {
		return "", domain.ErrUserNotFound
	}

	now := time.Now()
	for tok, rt := range s.resetTokens {
		if now.After(rt.expiresAt) {
			delete(s.resetTokens, tok)
		}
	}

	token := uuid.New().String()
	s.resetTokens[token] = resetToken{userID: acct.user.ID, expiresAt: now.Add(resetTokenTTL)}
	return token, nil
}

// ResetPassword consumes a recovery token and replaces the password.
func (s *Store) ResetPassword(token, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rt, ok := s.resetTokens[token]
	if !ok || time.Now().After(rt.expiresAt) {
		return domain.ErrInvalidResetToken
	}
	acct, ok := s.accounts[rt.userID]
	if !ok {
		return domain.ErrInvalidResetToken
	}

	acct.passwordHash = string(hash)
	acct.user.UpdatedAt = time.Now().UTC()
	delete(s.resetTokens, token)
	return nil
}

func (s *Store) findByEmailLocked(email string) *account {
	for _, acct := range s.accounts {
		if strings.EqualFold(acct.user.Email, email) {
			return acct
		}
	}
	return nil
}
