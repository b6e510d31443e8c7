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

// MealService exposes meal operations scoped to a session. A meal owned by
// another session is indistinguishable from a missing one.
type MealService struct {
	mealRepo repository.MealRepository
}

func NewMealService(mealRepo repository.MealRepository) *MealService {
	return &MealService{mealRepo: mealRepo}
}

type CreateMealInput struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Fields    domain.MealFields
}

func (s *MealService) List(ctx context.Context, sessionID uuid.UUID) ([]*domain.Meal, error) {
	meals, err := s.mealRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

// Get returns nil without error when the session has no such meal.
func (s *MealService) Get(ctx context.Context, sessionID, id uuid.UUID) (*domain.Meal, error) {
	meal, err := s.mealRepo.GetBySession(ctx, sessionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get meal %s: %w", id, err)
	}
	return meal, nil
}

func (s *MealService) Create(ctx context.Context, input CreateMealInput) (*domain.Meal, error) {
	userID := input.UserID
	meal := &domain.Meal{
		ID:          uuid.New(),
		SessionID:   input.SessionID,
		Name:        input.Fields.Name,
		Description: input.Fields.Description,
		IsValid:     input.Fields.IsValid,
		CreatedAt:   input.Fields.CreatedAt,
		UserID:      &userID,
	}

	if err := s.mealRepo.Create(ctx, meal); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.ErrUnknownUser
		}
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return meal, nil
}

func (s *MealService) Update(ctx context.Context, sessionID, id uuid.UUID, fields domain.MealFields) error {
	if err := s.mealRepo.UpdateBySession(ctx, sessionID, id, fields); err != nil {
		return fmt.Errorf("update meal %s: %w", id, err)
	}
	return nil
}

func (s *MealService) Delete(ctx context.Context, sessionID, id uuid.UUID) error {
	if err := s.mealRepo.DeleteBySession(ctx, sessionID, id); err != nil {
		return fmt.Errorf("delete meal %s: %w", id, err)
	}
	return nil
}

func (s *MealService) Summary(ctx context.Context, sessionID uuid.UUID) (*domain.MealSummary, error) {
	summary, err := s.mealRepo.Summary(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("summarize meals: %w", err)
	}
	return summary, nil
}
