package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sandunudayakantha/TransitEquity/internal/auth"
	"github.com/sandunudayakantha/TransitEquity/internal/config"
	"github.com/sandunudayakantha/TransitEquity/internal/domain"
	"github.com/sandunudayakantha/TransitEquity/internal/events"
	"github.com/sandunudayakantha/TransitEquity/internal/repository"
	apperrors "github.com/sandunudayakantha/TransitEquity/pkg/util/errorutil"
)

// RegisterInput carries the registration payload after transport-level
// validation.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	Address     string
	PhoneNumber string
}

// AuthResult bundles the outcome of register/login. Token is empty when the
// account is pending approval.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
	Pending   bool
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		dispatcher: dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account. Accounts with the user role are approved
// immediately and receive a token; every other role starts pending and gets
// none.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewDuplicateIdentity("User already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewValidationError("Password is required", nil)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		IsApproved:   role.AutoApproved(),
		Address:      input.Address,
		PhoneNumber:  input.PhoneNumber,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicateIdentity("User already exists")
		}
		return nil, apperrors.NewInvalidData("Invalid user data", err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload: events.UserRegisteredPayload{
			Name:            user.Name,
			Email:           user.Email,
			Role:            user.Role,
			PendingApproval: !user.IsApproved,
		},
	})

	if !user.IsApproved {
		return &AuthResult{User: user, Pending: true}, nil
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password collapse into the same generic failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	if !user.IsApproved {
		return nil, apperrors.NewAccountNotApproved()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
