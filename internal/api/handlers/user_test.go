package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/dietlog/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type UserResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	SessionID *string `json:"session_id"`
}

type UsersListResponse struct {
	Users []UserResponse `json:"users"`
}

type UserEnvelope struct {
	User *UserResponse `json:"user"`
}

func TestUserHandler_CreateWithoutCookie(t *testing.T) {
	ts := testutil.NewTestServer(t)

	body := map[string]string{"name": "Ana", "email": "a@x.com"}
	resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodPost, ts.URL("/users"), body, ""))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	testutil.AssertEmptyBody(t, resp)
	sessionID := testutil.RequireSessionCookie(t, resp)

	list := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodGet, ts.URL("/users"), nil, ""))
	testutil.AssertStatusCode(t, list, http.StatusOK)

	var result UsersListResponse
	testutil.AssertJSONResponse(t, list, &result)
	require.Len(t, result.Users, 1)
	assert.Equal(t, "Ana", result.Users[0].Name)
	assert.Equal(t, "a@x.com", result.Users[0].Email)
	require.NotNil(t, result.Users[0].SessionID)
	assert.Equal(t, sessionID, *result.Users[0].SessionID)
}

func TestUserHandler_CreateWithCookieSetsNone(t *testing.T) {
	ts := testutil.NewTestServer(t)
	sessionID := uuid.NewString()

	body := map[string]string{"name": "Bo", "email": "b@x.com"}
	resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodPost, ts.URL("/users"), body, sessionID))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	assert.Empty(t, testutil.SessionCookies(resp, "sessionId"))

	users, err := ts.Services.User.List(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, sessionID, users[0].SessionID.String())
}

func TestUserHandler_CreateValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name          string
		body          interface{}
		expectedError string
	}{
		{"missing email", map[string]string{"name": "Ana"}, "email"},
		{"empty name", map[string]string{"name": "", "email": "a@x.com"}, "must not be empty"},
		{"numeric name", map[string]interface{}{"name": 7, "email": "a@x.com"}, "expected string"},
		{"no body", nil, "request body is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodPost, ts.URL("/users"), tt.body, ""))
			assert.Empty(t, testutil.SessionCookies(resp, "sessionId"))
			testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, tt.expectedError)
		})
	}
}

func TestUserHandler_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user := testutil.NewUserBuilder().WithName("Cy").WithSession(uuid.New()).Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
		wantUser       bool
	}{
		{"existing user", user.ID.String(), http.StatusOK, true},
		{"non-existent user", uuid.NewString(), http.StatusOK, false},
		{"malformed id", "cy", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No cookie: user routes are not gated
			resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodGet, ts.URL("/users/"+tt.id), nil, ""))
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var result UserEnvelope
			testutil.AssertJSONResponse(t, resp, &result)
			if !tt.wantUser {
				assert.Nil(t, result.User)
				return
			}
			require.NotNil(t, result.User)
			assert.Equal(t, "Cy", result.User.Name)
		})
	}
}

func TestUserHandler_ListIsGlobal(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.NewUserBuilder().WithSession(uuid.New()).Build(t, ts.DB.DB)
	testutil.NewUserBuilder().WithSession(uuid.New()).Build(t, ts.DB.DB)

	resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodGet, ts.URL("/users"), nil, uuid.NewString()))
	var result UsersListResponse
	testutil.AssertJSONResponse(t, resp, &result)
	assert.Len(t, result.Users, 2)
}
