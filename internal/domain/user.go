package domain

import (
	"fmt"
	"time"
)

// Role classifies what a user account is allowed to do. The set is closed:
// anything outside it is rejected at registration.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleTOfficer Role = "tOfficer"
)

// ParseRole validates a role string. An empty string defaults to RoleUser.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin, RoleTOfficer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// AutoApproved reports whether accounts with this role may log in straight
// after registration. Every privileged role waits for admin approval.
func (r Role) AutoApproved() bool {
	return r == RoleUser
}

// User is the domain model for registered accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsApproved   bool
	Address      string
	PhoneNumber  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
