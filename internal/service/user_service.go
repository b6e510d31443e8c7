package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/dietlog/internal/domain"
	"github.com/dom/dietlog/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService reads and creates users. Users are not scoped to a session.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserInput struct {
	Name      string
	Email     string
	SessionID uuid.UUID
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns nil without error when no user has the id.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	sessionID := input.SessionID
	user := &domain.User{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		SessionID: &sessionID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
