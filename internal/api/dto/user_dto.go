package dto

import (
	"regexp"
	"strings"

	"github.com/sandunudayakantha/TransitEquity/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks required fields and formats before any record is created.
// It returns the joined failure messages, empty when the payload is valid.
func (r RegisterRequest) Validate() string {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "Name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "Email is required")
	} else if !emailPattern.MatchString(r.Email) {
		errs = append(errs, "Invalid email format")
	}
	if strings.TrimSpace(r.Password) == "" {
		errs = append(errs, "Password is required")
	} else if len(r.Password) < 6 {
		errs = append(errs, "Password must be at least 6 characters")
	}
	if strings.TrimSpace(r.PhoneNumber) == "" {
		errs = append(errs, "Phone number is required")
	}

	return strings.Join(errs, ", ")
}

// UserResponse is the outward account summary. The password hash never
// appears on any external interface.
type UserResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	IsApproved  bool        `json:"isApproved"`
	Address     string      `json:"address,omitempty"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
}

// NewUserResponse maps a domain user to its summary.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		IsApproved:  user.IsApproved,
		Address:     user.Address,
		PhoneNumber: user.PhoneNumber,
	}
}

// NewUserListResponse maps a list of users.
func NewUserListResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}

// MeResponse is the authenticated identity's own view.
type MeResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}
