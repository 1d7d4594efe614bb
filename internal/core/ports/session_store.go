package ports

import "github.com/adminsuite/adminctl/internal/core/domain"

// SessionStore persists the authenticated session between invocations.
// Load returns (nil, nil) when no session has been saved; implementations
// treat an unreadable record as absent rather than failing hydration.
type SessionStore interface {
	Load() (*domain.Session, error)
	Save(session *domain.Session) error
	Clear() error
}
