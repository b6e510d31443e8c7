package validate

import (
	"github.com/dom/dietlog/internal/domain"
	"github.com/google/uuid"
)

// Pointer fields tell a missing key apart from a zero value.

type CreateMealRequest struct {
	Name        *string `json:"name" validate:"required,min=1"`
	Description *string `json:"description" validate:"required"`
	IsValid     *bool   `json:"is_valid" validate:"required"`
	CreatedAt   *string `json:"created_at" validate:"required,timestamp"`
	UserID      *string `json:"user_id" validate:"required,uuid_anycase"`
}

// Fields converts a validated request. Only call it on an OK result.
func (r CreateMealRequest) Fields() domain.MealFields {
	createdAt, _ := ParseTimestamp(*r.CreatedAt)
	return domain.MealFields{
		Name:        *r.Name,
		Description: *r.Description,
		IsValid:     *r.IsValid,
		CreatedAt:   createdAt,
	}
}

func (r CreateMealRequest) User() uuid.UUID {
	return uuid.MustParse(*r.UserID)
}

type UpdateMealRequest struct {
	Name        *string `json:"name" validate:"required,min=1"`
	Description *string `json:"description" validate:"required"`
	IsValid     *bool   `json:"is_valid" validate:"required"`
	CreatedAt   *string `json:"created_at" validate:"required,timestamp"`
}

// Fields converts a validated request. Only call it on an OK result.
func (r UpdateMealRequest) Fields() domain.MealFields {
	createdAt, _ := ParseTimestamp(*r.CreatedAt)
	return domain.MealFields{
		Name:        *r.Name,
		Description: *r.Description,
		IsValid:     *r.IsValid,
		CreatedAt:   createdAt,
	}
}

type CreateUserRequest struct {
	Name  *string `json:"name" validate:"required,min=1"`
	Email *string `json:"email" validate:"required"`
}
