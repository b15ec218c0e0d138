package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel() // Enable parallel execution

	user, err := NewUser("user@example.com", "Test User", "password123", "+381641234567", RoleCustomer)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Username != "user@example.com" {
		t.Errorf("Expected username user@example.com, got %s", user.Username)
	}

	if user.Role != RoleCustomer {
		t.Errorf("Expected role %s, got %s", RoleCustomer, user.Role)
	}

	if user.PendingCount != 0 || user.CompletedCount != 0 || user.OverdueCount != 0 {
		t.Errorf("Expected all counters at zero, got %d/%d/%d",
			user.PendingCount, user.CompletedCount, user.OverdueCount)
	}

	if user.RefreshToken != "" || user.RefreshTokenExpiresAt != nil {
		t.Error("Expected no refresh token on a new user")
	}

	// Invalid email-style username
	_, err = NewUser("not-an-email", "Test User", "password123", "", RoleCustomer)
	if !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	// Short password
	_, err = NewUser("user@example.com", "Test User", "short", "", RoleCustomer)
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooShort, err)
	}

	// Empty name
	_, err = NewUser("user@example.com", "  ", "password123", "", RoleCustomer)
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected error %v, got %v", ErrEmptyName, err)
	}
}

func TestRoleFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Role
	}{
		{"Admin", RoleAdmin},
		{"admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{"Customer", RoleCustomer},
		{"customer", RoleCustomer},
		{"", RoleCustomer},
		{"manager", RoleCustomer},
	}

	for _, tc := range tests {
		if got := RoleFromString(tc.in); got != tc.want {
			t.Errorf("RoleFromString(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestUserTaskCount(t *testing.T) {
	t.Parallel()

	u := User{PendingCount: 2, CompletedCount: 3, OverdueCount: 1}
	if got := u.TaskCount(); got != 6 {
		t.Errorf("TaskCount() = %d, want 6", got)
	}
}

func TestUserValidateCounters(t *testing.T) {
	t.Parallel()

	u := User{
		ID:             uuid.New(),
		Username:       "user@example.com",
		Name:           "Test User",
		HashedPassword: "hashed",
		PendingCount:   -1,
	}

	if err := u.Validate(); !errors.Is(err, ErrNegativeTaskCount) {
		t.Errorf("Expected error %v, got %v", ErrNegativeTaskCount, err)
	}
}
