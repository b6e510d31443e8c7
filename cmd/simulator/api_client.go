package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// APIClient talks to the backend as a single browser-like client. The cookie
// jar keeps the session minted by the first creation request.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client. A non-empty sessionID resumes an existing session.
func NewAPIClient(baseURL, sessionID string) (*APIClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	if sessionID != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API URL: %w", err)
		}
		jar.SetCookies(u, []*http.Cookie{{Name: "sessionId", Value: sessionID, Path: "/"}})
	}

	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}, nil
}

// Response types matching backend

type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	SessionID *string `json:"session_id"`
}

type Meal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsValid     bool   `json:"is_valid"`
	CreatedAt   string `json:"created_at"`
}

type Summary struct {
	TotalMealsInside  int64 `json:"totalMealsInside"`
	TotalMealsOutside int64 `json:"totalMealsOutside"`
	Total             int64 `json:"total"`
}

// SessionID returns the session cookie the server handed out, if any.
func (c *APIClient) SessionID() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == "sessionId" {
			return cookie.Value
		}
	}
	return ""
}

// CreateUser registers a user and returns it by finding it in the user list.
func (c *APIClient) CreateUser(name, email string) (*User, error) {
	body := map[string]string{"name": name, "email": email}
	if err := c.expectCreated(c.do(http.MethodPost, "/users", body)); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	var result struct {
		Users []User `json:"users"`
	}
	if err := c.getJSON("/users", &result); err != nil {
		return nil, err
	}

	session := c.SessionID()
	for i := range result.Users {
		u := result.Users[i]
		if u.Email == email && u.SessionID != nil && *u.SessionID == session {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("created user %s not found in listing", email)
}

// LogMeal records a meal for the client's session.
func (c *APIClient) LogMeal(userID, name, description string, inDiet bool, at time.Time) error {
	body := map[string]interface{}{
		"name":        name,
		"description": description,
		"is_valid":    inDiet,
		"created_at":  at.Format(time.RFC3339),
		"user_id":     userID,
	}
	if err := c.expectCreated(c.do(http.MethodPost, "/meals", body)); err != nil {
		return fmt.Errorf("log meal: %w", err)
	}
	return nil
}

func (c *APIClient) ListMeals() ([]Meal, error) {
	var result struct {
		Meals []Meal `json:"meals"`
	}
	if err := c.getJSON("/meals", &result); err != nil {
		return nil, err
	}
	return result.Meals, nil
}

func (c *APIClient) Summary() (*Summary, error) {
	var result struct {
		Summary []Summary `json:"summary"`
	}
	if err := c.getJSON("/meals/summary", &result); err != nil {
		return nil, err
	}
	if len(result.Summary) == 0 {
		return nil, fmt.Errorf("empty summary")
	}
	return &result.Summary[0], nil
}

// Helper methods

type result struct {
	resp *http.Response
	err  error
}

func (c *APIClient) do(method, path string, body interface{}) result {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return result{err: err}
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return result{err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	return result{resp: resp, err: err}
}

func (c *APIClient) expectCreated(r result) error {
	if r.err != nil {
		return r.err
	}
	defer r.resp.Body.Close()

	if r.resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(r.resp.Body)
		return fmt.Errorf("status %d: %s", r.resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (c *APIClient) getJSON(path string, v interface{}) error {
	r := c.do(http.MethodGet, path, nil)
	if r.err != nil {
		return fmt.Errorf("GET %s: %w", path, r.err)
	}
	defer r.resp.Body.Close()

	if r.resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(r.resp.Body)
		return fmt.Errorf("GET %s failed (status %d): %s", path, r.resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(r.resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
