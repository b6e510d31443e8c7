package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dom/dietlog/internal/api/middleware"
	"github.com/dom/dietlog/internal/api/respond"
	"github.com/dom/dietlog/internal/api/validate"
	"github.com/dom/dietlog/internal/domain"
	"github.com/dom/dietlog/internal/service"
	"github.com/dom/dietlog/internal/session"
)

type MealHandler struct {
	mealService *service.MealService
	sessions    *session.Resolver
}

func NewMealHandler(mealService *service.MealService, sessions *session.Resolver) *MealHandler {
	return &MealHandler{mealService: mealService, sessions: sessions}
}

type MealResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsValid     bool      `json:"is_valid"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      *string   `json:"user_id"`
}

type MealsResponse struct {
	Meals []MealResponse `json:"meals"`
}

// MealEnvelope omits "meal" when the session has no such meal.
type MealEnvelope struct {
	Meal *MealResponse `json:"meal,omitempty"`
}

type SummaryResponse struct {
	Summary []domain.MealSummary `json:"summary"`
}

func toMealResponse(m *domain.Meal) MealResponse {
	resp := MealResponse{
		ID:          m.ID.String(),
		SessionID:   m.SessionID.String(),
		Name:        m.Name,
		Description: m.Description,
		IsValid:     m.IsValid,
		CreatedAt:   m.CreatedAt,
	}
	if m.UserID != nil {
		userID := m.UserID.String()
		resp.UserID = &userID
	}
	return resp
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.GetSessionID(r.Context())

	meals, err := h.mealService.List(r.Context(), sessionID)
	if err != nil {
		internalError(w, r, "meal.List", err)
		return
	}

	resp := MealsResponse{Meals: make([]MealResponse, len(meals))}
	for i, m := range meals {
		resp.Meals[i] = toMealResponse(m)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := validate.PathUUID(r, "id")
	if !id.OK() {
		respond.Invalid(w, id.Issues)
		return
	}
	sessionID, _ := middleware.GetSessionID(r.Context())

	meal, err := h.mealService.Get(r.Context(), sessionID, id.Value)
	if err != nil {
		internalError(w, r, "meal.Get", err)
		return
	}

	var resp MealEnvelope
	if meal != nil {
		m := toMealResponse(meal)
		resp.Meal = &m
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := validate.Body[validate.CreateMealRequest](r)
	if !req.OK() {
		respond.Invalid(w, req.Issues)
		return
	}

	sessionID, _ := h.sessions.Ensure(w, r)

	meal, err := h.mealService.Create(r.Context(), service.CreateMealInput{
		SessionID: sessionID,
		UserID:    req.Value.User(),
		Fields:    req.Value.Fields(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownUser) {
			respond.Error(w, http.StatusBadRequest, "unknown user")
			return
		}
		internalError(w, r, "meal.Create", err)
		return
	}

	slog.InfoContext(r.Context(), "meal created", "meal_id", meal.ID, "session_id", sessionID)
	respond.Created(w)
}

func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := validate.PathUUID(r, "id")
	if !id.OK() {
		respond.Invalid(w, id.Issues)
		return
	}
	req := validate.Body[validate.UpdateMealRequest](r)
	if !req.OK() {
		respond.Invalid(w, req.Issues)
		return
	}
	sessionID, _ := middleware.GetSessionID(r.Context())

	if err := h.mealService.Update(r.Context(), sessionID, id.Value, req.Value.Fields()); err != nil {
		internalError(w, r, "meal.Update", err)
		return
	}

	respond.Created(w)
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := validate.PathUUID(r, "id")
	if !id.OK() {
		respond.Invalid(w, id.Issues)
		return
	}
	sessionID, _ := middleware.GetSessionID(r.Context())

	if err := h.mealService.Delete(r.Context(), sessionID, id.Value); err != nil {
		internalError(w, r, "meal.Delete", err)
		return
	}

	respond.Created(w)
}

func (h *MealHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.GetSessionID(r.Context())

	summary, err := h.mealService.Summary(r.Context(), sessionID)
	if err != nil {
		internalError(w, r, "meal.Summary", err)
		return
	}

	respond.JSON(w, http.StatusOK, SummaryResponse{Summary: []domain.MealSummary{*summary}})
}

func internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.ErrorContext(r.Context(), "request failed", "op", op, "error", err)
	respond.Error(w, http.StatusInternalServerError, "internal server error")
}
