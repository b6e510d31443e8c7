package domain

import (
	"time"

	"github.com/google/uuid"
)

// Meal is a logged food entry. IsValid marks whether it fits the diet plan.
type Meal struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID   uuid.UUID  `json:"session_id" gorm:"type:uuid;index"`
	Name        string     `json:"name" gorm:"type:text;not null"`
	Description string     `json:"description" gorm:"type:text;not null"`
	IsValid     bool       `json:"is_valid" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UserID      *uuid.UUID `json:"user_id" gorm:"type:uuid"`
	User        *User      `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

// MealFields holds the mutable columns of a meal. An update replaces all of them.
type MealFields struct {
	Name        string
	Description string
	IsValid     bool
	CreatedAt   time.Time
}

// MealSummary is the per-session aggregate over meals.
type MealSummary struct {
	TotalMealsInside  int64 `json:"totalMealsInside"`
	TotalMealsOutside int64 `json:"totalMealsOutside"`
	Total             int64 `json:"total"`
}
