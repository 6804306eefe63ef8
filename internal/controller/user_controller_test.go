package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"authd/internal/config"

	"gotest.tools/v3/assert"
)

func TestUserCreateEndpoint(t *testing.T) {
	app := setupTestApp(t, false)

	recorder := postJSON(t, app, "/api/user", map[string]any{
		"username": "alice123456",
		"password": "Secretpass1",
	}, "")

	assert.Equal(t, recorder.Code, http.StatusCreated)

	var resp struct {
		Username string `json:"username"`
	}
	assert.NilError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, resp.Username, "alice123456")

	t.Log("Duplicate usernames conflict")

	recorder = postJSON(t, app, "/api/user", map[string]any{
		"username": "alice123456",
		"password": "Secretpass1",
	}, "")

	assert.Equal(t, recorder.Code, http.StatusConflict)

	t.Log("Invalid usernames are rejected before persistence")

	recorder = postJSON(t, app, "/api/user", map[string]any{
		"username": "no",
		"password": "Secretpass1",
	}, "")

	assert.Equal(t, recorder.Code, http.StatusBadRequest)

	t.Log("Too short passwords are rejected")

	recorder = postJSON(t, app, "/api/user", map[string]any{
		"username": "bob12345678",
		"password": "short",
	}, "")

	assert.Equal(t, recorder.Code, http.StatusBadRequest)
}

func TestUserMeEndpoint(t *testing.T) {
	app := setupTestApp(t, false)
	user, _ := app.seedUserAndClient(t)

	access, err := app.tokens.Mint(user.Username, config.TokenTypeAccess, nil)
	assert.NilError(t, err)

	req := httptest.NewRequest("GET", "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, req)

	assert.Equal(t, recorder.Code, http.StatusOK)

	var resp struct {
		Username string `json:"username"`
	}
	assert.NilError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, resp.Username, user.Username)

	t.Log("Without a token the endpoint is unauthorized")

	req = httptest.NewRequest("GET", "/api/user/me", nil)
	recorder = httptest.NewRecorder()
	app.router.ServeHTTP(recorder, req)

	assert.Equal(t, recorder.Code, http.StatusUnauthorized)
}

func TestUserSetPasswordEndpoint(t *testing.T) {
	app := setupTestApp(t, false)
	user, _ := app.seedUserAndClient(t)

	access, err := app.tokens.Mint(user.Username, config.TokenTypeAccess, nil)
	assert.NilError(t, err)

	recorder := requestJSON(t, app, "PUT", "/api/user/password", map[string]any{
		"password": "Newsecret12",
	}, access)

	assert.Equal(t, recorder.Code, http.StatusOK)

	reloaded, err := app.users.GetUserByUsername(user.Username)
	assert.NilError(t, err)

	ok, err := app.users.CheckPassword(reloaded, "Newsecret12")
	assert.NilError(t, err)
	assert.Assert(t, ok)
}

func TestUserDeleteEndpoint(t *testing.T) {
	app := setupTestApp(t, false)
	user, _ := app.seedUserAndClient(t)

	access, err := app.tokens.Mint(user.Username, config.TokenTypeAccess, nil)
	assert.NilError(t, err)

	req := httptest.NewRequest("DELETE", "/api/user", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, req)

	assert.Equal(t, recorder.Code, http.StatusOK)

	gone, err := app.users.GetUserByUsername(user.Username)
	assert.NilError(t, err)
	assert.Assert(t, gone == nil)
}
