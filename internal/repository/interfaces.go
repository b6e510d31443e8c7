package repository

import (
	"context"

	"github.com/dom/dietlog/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// MealRepository scopes every query to the owning session.
type MealRepository interface {
	Create(ctx context.Context, meal *domain.Meal) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Meal, error)
	GetBySession(ctx context.Context, sessionID, id uuid.UUID) (*domain.Meal, error)
	UpdateBySession(ctx context.Context, sessionID, id uuid.UUID, fields domain.MealFields) error
	DeleteBySession(ctx context.Context, sessionID, id uuid.UUID) error
	Summary(ctx context.Context, sessionID uuid.UUID) (*domain.MealSummary, error)
}

type Repositories struct {
	User UserRepository
	Meal MealRepository
}
