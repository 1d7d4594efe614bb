package ports

import (
	"context"

	"github.com/adminsuite/adminctl/internal/core/domain"
)

// CreateUserInput is the payload for creating an account. Password never
// round-trips: the backend stores only a hash and the response omits it.
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	LastName string `json:"lastName,omitempty"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin moderator user"`
}

// UpdateUserInput is a partial update; nil fields are left untouched by the
// backend, so omitempty keeps them off the wire entirely.
type UpdateUserInput struct {
	Name     *string `json:"name,omitempty"`
	LastName *string `json:"lastName,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin moderator user"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// LoginResult is the backend's answer to a successful authentication.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

// Gateway is the HTTP contract with the admin backend. Authentication
// failures surface as *domain.AuthError with the backend's own message;
// transport failures are returned wrapped with a generic prefix.
type Gateway interface {
	Health(ctx context.Context) (*domain.Health, error)

	Login(ctx context.Context, username, password string) (*LoginResult, error)
	LoginWithGoogle(ctx context.Context, code string) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	CurrentUser(ctx context.Context) (*domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error

	// SetSession installs (or clears, with nil) the credentials the gateway
	// attaches to authenticated requests.
	SetSession(session *domain.Session)
}
