package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/dietlog/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name      string
	email     string
	sessionID *uuid.UUID
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:  fmt.Sprintf("testuser_%s", suffix),
		email: fmt.Sprintf("%s@example.com", suffix),
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithSession(sessionID uuid.UUID) *UserBuilder {
	b.sessionID = &sessionID
	return b
}

// Build creates the user in the database
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:        uuid.New(),
		Name:      b.name,
		Email:     b.email,
		SessionID: b.sessionID,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// MealBuilder creates test meals with a builder pattern
type MealBuilder struct {
	sessionID   uuid.UUID
	userID      *uuid.UUID
	name        string
	description string
	isValid     bool
	createdAt   time.Time
}

// NewMealBuilder creates a new in-diet meal for a fresh session
func NewMealBuilder() *MealBuilder {
	return &MealBuilder{
		sessionID:   uuid.New(),
		name:        "Lunch",
		description: "rice and beans",
		isValid:     true,
		createdAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *MealBuilder) WithSession(sessionID uuid.UUID) *MealBuilder {
	b.sessionID = sessionID
	return b
}

func (b *MealBuilder) WithUser(user *domain.User) *MealBuilder {
	b.userID = &user.ID
	return b
}

func (b *MealBuilder) WithName(name string) *MealBuilder {
	b.name = name
	return b
}

func (b *MealBuilder) WithDescription(description string) *MealBuilder {
	b.description = description
	return b
}

func (b *MealBuilder) InDiet(isValid bool) *MealBuilder {
	b.isValid = isValid
	return b
}

func (b *MealBuilder) WithCreatedAt(createdAt time.Time) *MealBuilder {
	b.createdAt = createdAt
	return b
}

// Build creates the meal in the database
func (b *MealBuilder) Build(t *testing.T, db *gorm.DB) *domain.Meal {
	t.Helper()

	meal := &domain.Meal{
		ID:          uuid.New(),
		SessionID:   b.sessionID,
		Name:        b.name,
		Description: b.description,
		IsValid:     b.isValid,
		CreatedAt:   b.createdAt,
		UserID:      b.userID,
	}

	if err := db.Omit("User").Create(meal).Error; err != nil {
		t.Fatalf("failed to create meal: %v", err)
	}

	return meal
}

// SeedMeals creates inside in-diet and outside off-diet meals for a session
func SeedMeals(t *testing.T, db *gorm.DB, sessionID uuid.UUID, inside, outside int) []*domain.Meal {
	t.Helper()

	meals := make([]*domain.Meal, 0, inside+outside)
	for i := 0; i < inside+outside; i++ {
		meal := NewMealBuilder().
			WithSession(sessionID).
			WithName(fmt.Sprintf("Meal %d", i+1)).
			InDiet(i < inside).
			Build(t, db)
		meals = append(meals, meal)
	}
	return meals
}

// NewSessionRequest creates a JSON request carrying the session cookie.
// An empty sessionID sends no cookie.
func NewSessionRequest(t *testing.T, method, url string, body interface{}, sessionID string) *http.Request {
	t.Helper()

	bodyReader := bytes.NewBuffer(nil)
	switch b := body.(type) {
	case nil:
	case string:
		bodyReader = bytes.NewBufferString(b)
	default:
		jsonBody, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionId", Value: sessionID})
	}

	return req
}

// Do sends req with the default client and registers body cleanup.
func Do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", req.Method, req.URL, err)
	}
	t.Cleanup(func() {
		resp.Body.Close()
	})
	return resp
}
