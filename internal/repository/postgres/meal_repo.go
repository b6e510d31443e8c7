package postgres

import (
	"context"

	"github.com/dom/dietlog/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) *mealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) Create(ctx context.Context, meal *domain.Meal) error {
	return r.db.WithContext(ctx).Omit("User").Create(meal).Error
}

func (r *mealRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Meal, error) {
	var meals []*domain.Meal
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *mealRepository) GetBySession(ctx context.Context, sessionID, id uuid.UUID) (*domain.Meal, error) {
	var meal domain.Meal
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND id = ?", sessionID, id).
		First(&meal).Error
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// UpdateBySession replaces the mutable columns. Matching zero rows is not an error.
func (r *mealRepository) UpdateBySession(ctx context.Context, sessionID, id uuid.UUID, fields domain.MealFields) error {
	return r.db.WithContext(ctx).
		Model(&domain.Meal{}).
		Where("id = ? AND session_id = ?", id, sessionID).
		Updates(map[string]interface{}{
			"name":        fields.Name,
			"description": fields.Description,
			"is_valid":    fields.IsValid,
			"created_at":  fields.CreatedAt,
		}).Error
}

// DeleteBySession removes the meal if the session owns it. Matching zero rows is not an error.
func (r *mealRepository) DeleteBySession(ctx context.Context, sessionID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", id, sessionID).
		Delete(&domain.Meal{}).Error
}

func (r *mealRepository) Summary(ctx context.Context, sessionID uuid.UUID) (*domain.MealSummary, error) {
	var summary domain.MealSummary
	err := r.db.WithContext(ctx).
		Model(&domain.Meal{}).
		Select(
			"COUNT(*) FILTER (WHERE is_valid = ?) AS total_meals_inside, "+
				"COUNT(*) FILTER (WHERE is_valid = ?) AS total_meals_outside, "+
				"COUNT(*) AS total", true, false).
		Where("session_id = ?", sessionID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
