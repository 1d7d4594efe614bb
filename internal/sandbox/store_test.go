package sandbox

import (
	"testing"

	"github.com/adminsuite/adminctl/internal/core/domain"
)

func TestStore_Authenticate(t *testing.T) {
	s := NewStore()
	if _, err := s.Seed("admin@example.com", "Admin", "admin1234", domain.RoleAdmin); err != nil {
		t.Fatalf("seed: %v", err)
	}

	user, err := s.Authenticate("admin@example.com", "admin1234")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("login must stamp last_login_at")
	}

	// Email matching is case-insensitive.
	if _, err := s.Authenticate("ADMIN@example.com", "admin1234"); err != nil {
		t.Fatalf("case-insensitive email match failed: %v", err)
	}

	if _, err := s.Authenticate("admin@example.com", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Authenticate("ghost@example.com", "admin1234"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestStore_Authenticate_InactiveAccount(t *testing.T) {
	s := NewStore()
	user, _ := s.Seed("a@b.com", "A", "password1", domain.RoleUser)

	inactive := false
	if _, err := s.Update(user.ID, nil, nil, nil, &inactive); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := s.Authenticate("a@b.com", "password1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("inactive account must not authenticate, got %v", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	s := NewStore()
	s.Seed("a@b.com", "A", "password1", domain.RoleUser)

	_, err := s.Create(domain.User{Email: "A@B.com", Name: "Dup", Role: domain.RoleUser, IsActive: true}, "password2")
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestStore_ListPreservesCreationOrder(t *testing.T) {
	s := NewStore()
	s.Seed("a@b.com", "A", "password1", domain.RoleUser)
	s.Seed("b@b.com", "B", "password1", domain.RoleUser)
	s.Seed("c@b.com", "C", "password1", domain.RoleUser)

	users := s.List()
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	if users[0].Email != "a@b.com" || users[2].Email != "c@b.com" {
		t.Fatalf("creation order not preserved: %+v", users)
	}

	if err := s.Delete(users[1].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	users = s.List()
	if len(users) != 2 || users[1].Email != "c@b.com" {
		t.Fatalf("order broken after delete: %+v", users)
	}
}

func TestStore_UpdateNotFound(t *testing.T) {
	s := NewStore()
	name := "X"
	if _, err := s.Update("missing", &name, nil, nil, nil); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := s.Delete("missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_ResetPasswordFlow(t *testing.T) {
	s := NewStore()
	s.Seed("a@b.com", "A", "oldpassword", domain.RoleUser)

	token, err := s.CreateResetToken("a@b.com")
	if err != nil {
		t.Fatalf("create reset token: %v", err)
	}
	if _, err := s.CreateResetToken("ghost@b.com"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := s.ResetPassword(token, "newpassword1"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, err := s.Authenticate("a@b.com", "newpassword1"); err != nil {
		t.Fatalf("new password must authenticate: %v", err)
	}
	if _, err := s.Authenticate("a@b.com", "oldpassword"); err != domain.ErrInvalidCredentials {
		t.Fatalf("old password must stop working, got %v", err)
	}

	// Tokens are single-use.
	if err := s.ResetPassword(token, "another1234"); err != domain.ErrInvalidResetToken {
		t.Fatalf("expected ErrInvalidResetToken on reuse, got %v", err)
	}
}
