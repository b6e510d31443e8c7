package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dom/dietlog/internal/api/respond"
	"github.com/dom/dietlog/internal/api/validate"
	"github.com/dom/dietlog/internal/domain"
	"github.com/dom/dietlog/internal/service"
	"github.com/dom/dietlog/internal/session"
)

type UserHandler struct {
	userService *service.UserService
	sessions    *session.Resolver
}

func NewUserHandler(userService *service.UserService, sessions *session.Resolver) *UserHandler {
	return &UserHandler{userService: userService, sessions: sessions}
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	SessionID *string   `json:"session_id"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

type UserEnvelope struct {
	User *UserResponse `json:"user,omitempty"`
}

func toUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
	if u.SessionID != nil {
		sessionID := u.SessionID.String()
		resp.SessionID = &sessionID
	}
	return resp
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		internalError(w, r, "user.List", err)
		return
	}

	resp := UsersResponse{Users: make([]UserResponse, len(users))}
	for i, u := range users {
		resp.Users[i] = toUserResponse(u)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := validate.PathUUID(r, "id")
	if !id.OK() {
		respond.Invalid(w, id.Issues)
		return
	}

	user, err := h.userService.Get(r.Context(), id.Value)
	if err != nil {
		internalError(w, r, "user.Get", err)
		return
	}

	var resp UserEnvelope
	if user != nil {
		u := toUserResponse(user)
		resp.User = &u
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := validate.Body[validate.CreateUserRequest](r)
	if !req.OK() {
		respond.Invalid(w, req.Issues)
		return
	}

	sessionID, _ := h.sessions.Ensure(w, r)

	user, err := h.userService.Create(r.Context(), service.CreateUserInput{
		Name:      *req.Value.Name,
		Email:     *req.Value.Email,
		SessionID: sessionID,
	})
	if err != nil {
		internalError(w, r, "user.Create", err)
		return
	}

	slog.InfoContext(r.Context(), "user created", "user_id", user.ID, "session_id", sessionID)
	respond.Created(w)
}
