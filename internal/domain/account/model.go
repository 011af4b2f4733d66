package account

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength = 254
	MaxNameLength  = 100
)

// Role is the closed set of studio roles.
type Role string

// Role constants
const (
	RoleClient     Role = "client"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []Role{RoleClient, RoleInstructor, RoleAdmin}

// Domain errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrInvalidRole   = errors.New("role must be one of: client, instructor, admin")
	ErrNegativeCount = errors.New("session balance cannot be negative")
	ErrForbidden     = errors.New("not allowed to perform this action")
)

// Account is a studio user. Email is the identity key.
type Account struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Sessions int    `json:"sessions"`
	Phone    string `json:"phone,omitempty"`
}

// NormalizeEmail trims and lowercases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxEmailLength {
		return fmt.Errorf("email cannot exceed %d characters", MaxEmailLength)
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if len(a.Name) > MaxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", MaxNameLength)
	}
	if !a.Role.Valid() {
		return ErrInvalidRole
	}
	if a.Sessions < 0 {
		return ErrNegativeCount
	}
	return nil
}

// AddSessions adjusts the balance by delta, clamping at zero.
// POST: Sessions >= 0
func (a *Account) AddSessions(delta int) {
	a.Sessions = clamp(a.Sessions + delta)
}

// SetSessions replaces the balance, clamping at zero.
// POST: Sessions >= 0
func (a *Account) SetSessions(total int) {
	a.Sessions = clamp(total)
}

// PaysWithSessions reports whether bookings debit this account's balance.
// Only clients hold credit; staff book for free.
func (a *Account) PaysWithSessions() bool {
	return a.Role == RoleClient
}

// HasSessions returns true if a client has at least one credit left.
// INVARIANT: Account fields are not mutated
func (a *Account) HasSessions() bool {
	return a.Sessions > 0
}

// IsAdmin returns true if the account has admin role.
// INVARIANT: Account fields are not mutated
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(ValidRoles, r)
}

// Label returns the display name for the role.
func (r Role) Label() string {
	switch r {
	case RoleClient:
		return "Client"
	case RoleInstructor:
		return "Instructor"
	case RoleAdmin:
		return "Administrator"
	}
	return string(r)
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
