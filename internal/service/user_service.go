package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sandunudayakantha/TransitEquity/internal/domain"
	"github.com/sandunudayakantha/TransitEquity/internal/events"
	"github.com/sandunudayakantha/TransitEquity/internal/repository"
	apperrors "github.com/sandunudayakantha/TransitEquity/pkg/util/errorutil"
)

// UserService serves the administrative account operations.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// List returns every registered account.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ListPending returns accounts still waiting for approval.
func (s *UserService) ListPending(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.ListPending(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Approve transitions an account to approved. Re-approving an approved
// account succeeds without further effect.
func (s *UserService) Approve(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User")
		}
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserApproved,
			UserID:    user.ID,
			Timestamp: time.Now(),
			Payload: events.UserApprovedPayload{
				Email: user.Email,
				Role:  user.Role,
			},
		})
	}
	return user, nil
}
