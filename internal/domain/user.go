package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role classifies a user. The system only ever assigns one role per user.
type Role string

// Possible user roles
const (
	RoleAdmin    Role = "Admin"
	RoleCustomer Role = "Customer"
)

// RoleFromString maps a requested role string to a Role. The match is
// case-insensitive; anything that is not "Admin" becomes Customer.
func RoleFromString(s string) Role {
	if strings.EqualFold(s, string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleCustomer
}

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrNegativeTaskCount   = errors.New("task counters cannot be negative")
)

// User represents a registered user of the to-do application.
// Username doubles as the email address, matching the registration flow
// where one value fills both fields.
//
// The three task counters are denormalized: at any quiescent point their
// sum equals the number of tasks the user owns. They are mutated only by
// the task service alongside the task write itself.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Password       string    `json:"-"` // Plaintext, held only during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	AvatarURL      string    `json:"avatar_url,omitempty"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	Role           Role      `json:"role"`

	PendingCount   int `json:"pending_count"`
	CompletedCount int `json:"completed_count"`
	OverdueCount   int `json:"overdue_count"`

	// At most one refresh token is active per user. Logout clears both
	// fields; refresh rotates them.
	RefreshToken          string     `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`

	// Password reset state. Only the SHA-256 hash of the reset token is
	// stored; the plaintext token travels in the emailed link.
	PasswordResetTokenHash string     `json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with all three task counters at zero.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps. Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(username, name, password, phoneNumber string, role Role) (*User, error) {
	user := &User{
		ID:          uuid.New(),
		Username:    username,
		Name:        name,
		Password:    password, // Plaintext - must be hashed before storage
		PhoneNumber: phoneNumber,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}

	if !validateEmailFormat(u.Username) {
		return ErrInvalidEmail
	}

	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		// bcrypt truncates input beyond 72 bytes
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the database carry only the hash.
		return ErrEmptyPassword
	}

	if u.PendingCount < 0 || u.CompletedCount < 0 || u.OverdueCount < 0 {
		return ErrNegativeTaskCount
	}

	return nil
}

// TaskCount returns the total number of tasks the counters account for.
func (u *User) TaskCount() int {
	return u.PendingCount + u.CompletedCount + u.OverdueCount
}

// ClearRefreshToken removes the active refresh token, if any.
func (u *User) ClearRefreshToken() {
	u.RefreshToken = ""
	u.RefreshTokenExpiresAt = nil
	u.UpdatedAt = time.Now().UTC()
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	if len(domain) < 3 {
		return false
	}

	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
