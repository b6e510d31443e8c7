package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dom/dietlog/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MealResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsValid     bool      `json:"is_valid"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      *string   `json:"user_id"`
}

type MealsListResponse struct {
	Meals []MealResponse `json:"meals"`
}

type MealEnvelope struct {
	Meal *MealResponse `json:"meal"`
}

type SummaryRow struct {
	TotalMealsInside  int64 `json:"totalMealsInside"`
	TotalMealsOutside int64 `json:"totalMealsOutside"`
	Total             int64 `json:"total"`
}

type SummaryEnvelope struct {
	Summary []SummaryRow `json:"summary"`
}

func mealBody(userID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"name":        "Lunch",
		"description": "rice",
		"is_valid":    true,
		"created_at":  "2024-01-01",
		"user_id":     userID.String(),
	}
}

func TestMealHandler_CreateWithoutCookie(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodPost, ts.URL("/meals"), mealBody(user.ID), ""))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	testutil.AssertEmptyBody(t, resp)
	sessionID := testutil.RequireSessionCookie(t, resp)

	cookie := testutil.SessionCookies(resp, "sessionId")[0]
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 604800, cookie.MaxAge)

	list := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodGet, ts.URL("/meals"), nil, sessionID))
	testutil.AssertStatusCode(t, list, http.StatusOK)

	var result MealsListResponse
	testutil.AssertJSONResponse(t, list, &result)
	require.Len(t, result.Meals, 1)
	assert.Equal(t, "Lunch", result.Meals[0].Name)
	assert.Equal(t, "rice", result.Meals[0].Description)
	assert.True(t, result.Meals[0].IsValid)
	assert.Equal(t, sessionID, result.Meals[0].SessionID)
	require.NotNil(t, result.Meals[0].UserID)
	assert.Equal(t, user.ID.String(), *result.Meals[0].UserID)
}

func TestMealHandler_CreateWithCookieSetsNone(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	sessionID := uuid.NewString()

	resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodPost, ts.URL("/meals"), mealBody(user.ID), sessionID))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	assert.Empty(t, testutil.SessionCookies(resp, "sessionId"))

	meals, err := ts.Repos.Meal.ListBySession(t.Context(), uuid.MustParse(sessionID))
	require.NoError(t, err)
	assert.Len(t, meals, 1)
}

func TestMealHandler_CreateValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "missing is_valid",
			body: map[string]interface{}{
				"name": "Lunch", "description": "rice", "created_at": "2024-01-01", "user_id": user.ID.String(),
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "is_valid",
		},
		{
			name: "is_valid as string",
			body: map[string]interface{}{
				"name": "Lunch", "description": "rice", "is_valid": "true", "created_at": "2024-01-01", "user_id": user.ID.String(),
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "expected boolean",
		},
		{
			name:           "malformed json",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "malformed JSON",
		},
		{
			name:           "trailing data after object",
			body:           `{"name":"Lunch","description":"rice","is_valid":true,"created_at":"2024-01-01","user_id":"` + user.ID.String() + `"} extra`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "unexpected data after JSON body",
		},
		{
			name:           "body over size limit",
			body:           `{"name":"` + strings.Repeat("a", 8192) + `"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "request body exceeds 4096 bytes",
		},
		{
			name:           "unknown user",
			body:           mealBody(uuid.New()),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "unknown user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodPost, ts.URL("/meals"), tt.body, ""))
			testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedError)
		})
	}

	// Rejected bodies never reach storage and never mint a session
	var count int64
	require.NoError(t, ts.DB.DB.Table("meals").Count(&count).Error)
	assert.Zero(t, count)
}

func TestMealHandler_CreateWithUppercaseUserID(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	body := mealBody(user.ID)
	body["user_id"] = strings.ToUpper(user.ID.String())

	resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodPost, ts.URL("/meals"), body, ""))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	sessionID := testutil.RequireSessionCookie(t, resp)

	meals, err := ts.Repos.Meal.ListBySession(t.Context(), uuid.MustParse(sessionID))
	require.NoError(t, err)
	require.Len(t, meals, 1)
	require.NotNil(t, meals[0].UserID)
	assert.Equal(t, user.ID, *meals[0].UserID)
}

func TestMealHandler_RejectedBodySetsNoCookie(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodPost, ts.URL("/meals"), map[string]string{}, ""))
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	assert.Empty(t, testutil.SessionCookies(resp, "sessionId"))
}

func TestMealHandler_SessionGate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	meal := testutil.NewMealBuilder().Build(t, ts.DB.DB)
	update := map[string]interface{}{
		"name": "x", "description": "y", "is_valid": false, "created_at": "2024-01-01",
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"list", http.MethodGet, "/meals", nil},
		{"summary", http.MethodGet, "/meals/summary", nil},
		{"get", http.MethodGet, "/meals/" + meal.ID.String(), nil},
		{"update", http.MethodPut, "/meals/" + meal.ID.String(), update},
		{"delete", http.MethodDelete, "/meals/" + meal.ID.String(), nil},
		{"malformed id still unauthorized first", http.MethodGet, "/meals/not-a-uuid", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, testutil.NewSessionRequest(t, tt.method, ts.URL(tt.path), tt.body, ""))
			testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Unauthorized.")
			assert.NotContains(t, resp.Header.Get("Set-Cookie"), "sessionId")
		})
	}

	got, err := ts.Services.Meal.Get(t.Context(), meal.SessionID, meal.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "gated delete must not remove the meal")
}

func TestMealHandler_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)
	meal := testutil.NewMealBuilder().WithName("Dinner").Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		sessionID      string
		id             string
		expectedStatus int
		wantMeal       bool
	}{
		{
			name:           "own meal",
			sessionID:      meal.SessionID.String(),
			id:             meal.ID.String(),
			expectedStatus: http.StatusOK,
			wantMeal:       true,
		},
		{
			name:           "other session's meal",
			sessionID:      uuid.NewString(),
			id:             meal.ID.String(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-existent meal",
			sessionID:      meal.SessionID.String(),
			id:             uuid.NewString(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed id",
			sessionID:      meal.SessionID.String(),
			id:             "12345",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodGet, ts.URL("/meals/"+tt.id), nil, tt.sessionID))
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var result MealEnvelope
			testutil.AssertJSONResponse(t, resp, &result)
			if !tt.wantMeal {
				assert.Nil(t, result.Meal)
				return
			}
			require.NotNil(t, result.Meal)
			assert.Equal(t, meal.ID.String(), result.Meal.ID)
			assert.Equal(t, "Dinner", result.Meal.Name)
		})
	}
}

func TestMealHandler_ListIsSessionScoped(t *testing.T) {
	ts := testutil.NewTestServer(t)
	mine := uuid.New()
	testutil.SeedMeals(t, ts.DB.DB, mine, 2, 1)
	testutil.SeedMeals(t, ts.DB.DB, uuid.New(), 3, 0)

	resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodGet, ts.URL("/meals"), nil, mine.String()))
	var result MealsListResponse
	testutil.AssertJSONResponse(t, resp, &result)
	assert.Len(t, result.Meals, 3)

	resp = testutil.Do(t, testutil.NewSessionRequest(t, http.MethodGet, ts.URL("/meals"), nil, uuid.NewString()))
	var empty MealsListResponse
	testutil.AssertJSONResponse(t, resp, &empty)
	assert.NotNil(t, empty.Meals)
	assert.Empty(t, empty.Meals)
}

func TestMealHandler_UpdateFromForeignSession(t *testing.T) {
	ts := testutil.NewTestServer(t)
	meal := testutil.NewMealBuilder().WithName("Lunch").Build(t, ts.DB.DB)
	update := map[string]interface{}{
		"name": "Hijacked", "description": "", "is_valid": false, "created_at": "2024-02-02T10:00:00Z",
	}

	resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodPut, ts.URL("/meals/"+meal.ID.String()), update, uuid.NewString()))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	get := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodGet, ts.URL("/meals/"+meal.ID.String()), nil, meal.SessionID.String()))
	var result MealEnvelope
	testutil.AssertJSONResponse(t, get, &result)
	require.NotNil(t, result.Meal)
	assert.Equal(t, "Lunch", result.Meal.Name)
	assert.True(t, result.Meal.IsValid)
}

func TestMealHandler_Update(t *testing.T) {
	ts := testutil.NewTestServer(t)
	meal := testutil.NewMealBuilder().Build(t, ts.DB.DB)
	path := ts.URL("/meals/" + meal.ID.String())

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "missing created_at",
			body:           map[string]interface{}{"name": "Snack", "description": "apple", "is_valid": true},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "full replacement",
			body: map[string]interface{}{
				"name": "Snack", "description": "chips", "is_valid": false, "created_at": "2024-01-03T16:00:00Z",
			},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodPut, path, tt.body, meal.SessionID.String()))
			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
		})
	}

	got, err := ts.Services.Meal.Get(t.Context(), meal.SessionID, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Snack", got.Name)
	assert.Equal(t, "chips", got.Description)
	assert.False(t, got.IsValid)
	assert.True(t, got.CreatedAt.Equal(time.Date(2024, 1, 3, 16, 0, 0, 0, time.UTC)))
}

func TestMealHandler_DeleteTwice(t *testing.T) {
	ts := testutil.NewTestServer(t)
	meal := testutil.NewMealBuilder().Build(t, ts.DB.DB)
	path := ts.URL("/meals/" + meal.ID.String())

	for i := 0; i < 2; i++ {
		resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodDelete, path, nil, meal.SessionID.String()))
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
		testutil.AssertEmptyBody(t, resp)
	}

	got, err := ts.Services.Meal.Get(t.Context(), meal.SessionID, meal.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMealHandler_Summary(t *testing.T) {
	ts := testutil.NewTestServer(t)
	sessionID := uuid.New()
	testutil.SeedMeals(t, ts.DB.DB, sessionID, 4, 1)
	testutil.SeedMeals(t, ts.DB.DB, uuid.New(), 2, 2)

	resp := testutil.Do(t, testutil.NewSessionRequest(t, http.MethodGet, ts.URL("/meals/summary"), nil, sessionID.String()))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result SummaryEnvelope
	testutil.AssertJSONResponse(t, resp, &result)
	require.Len(t, result.Summary, 1)
	assert.Equal(t, SummaryRow{TotalMealsInside: 4, TotalMealsOutside: 1, Total: 5}, result.Summary[0])
}
