package controller_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"authd/internal/config"
	"authd/internal/model"

	"gotest.tools/v3/assert"
)

func mintAccess(t *testing.T, app *testApp, user *model.User) string {
	t.Helper()

	access, err := app.tokens.Mint(user.Username, config.TokenTypeAccess, nil)
	assert.NilError(t, err)

	return access
}

func TestClientCreateEndpoint(t *testing.T) {
	app := setupTestApp(t, false)
	user, _ := app.seedUserAndClient(t)
	access := mintAccess(t, app, user)

	recorder := postJSON(t, app, "/api/client", map[string]any{
		"name":   "second_client",
		"scopes": []string{config.ScopeProfileRead},
	}, access)

	assert.Equal(t, recorder.Code, http.StatusCreated)

	var resp struct {
		ID     uint   `json:"id"`
		Name   string `json:"name"`
		Secret string `json:"secret"`
	}
	assert.NilError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, resp.Name, "second_client")
	assert.Assert(t, resp.Secret != "", "the secret is returned at creation time")

	t.Log("The secret is not returned on subsequent reads")

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/client/%d", resp.ID), nil)
	req.Header.Set("Authorization", "Bearer "+access)
	readRecorder := httptest.NewRecorder()
	app.router.ServeHTTP(readRecorder, req)

	assert.Equal(t, readRecorder.Code, http.StatusOK)

	var readResp map[string]any
	assert.NilError(t, json.Unmarshal(readRecorder.Body.Bytes(), &readResp))
	_, hasSecret := readResp["secret"]
	assert.Assert(t, !hasSecret)

	t.Log("Duplicate client names conflict")

	recorder = postJSON(t, app, "/api/client", map[string]any{
		"name": "second_client",
	}, access)

	assert.Equal(t, recorder.Code, http.StatusConflict)

	t.Log("Without a token the endpoint is unauthorized")

	recorder = postJSON(t, app, "/api/client", map[string]any{
		"name": "third_client",
	}, "")

	assert.Equal(t, recorder.Code, http.StatusUnauthorized)
}

func TestClientSetScopesEndpoint(t *testing.T) {
	app := setupTestApp(t, false)
	user, client := app.seedUserAndClient(t)
	access := mintAccess(t, app, user)

	recorder := requestJSON(t, app, "PUT", fmt.Sprintf("/api/client/%d/scopes", client.ID), map[string]any{
		"scopes": []string{config.ScopeProfileWrite},
	}, access)

	assert.Equal(t, recorder.Code, http.StatusOK)

	var resp struct {
		Scopes []string `json:"scopes"`
	}
	assert.NilError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.DeepEqual(t, resp.Scopes, []string{config.ScopeProfileRead, config.ScopeProfileWrite})

	t.Log("Unknown scopes are rejected without a partial grant")

	recorder = requestJSON(t, app, "PUT", fmt.Sprintf("/api/client/%d/scopes", client.ID), map[string]any{
		"scopes": []string{"profile-admin"},
	}, access)

	assert.Equal(t, recorder.Code, http.StatusBadRequest)

	granted, err := app.clients.GetScopes(client)
	assert.NilError(t, err)
	assert.DeepEqual(t, granted, []string{config.ScopeProfileRead, config.ScopeProfileWrite})
}

func TestClientOwnership(t *testing.T) {
	app := setupTestApp(t, false)
	_, client := app.seedUserAndClient(t)

	intruder, err := app.users.CreateUser("mallory12345", "Secretpass1")
	assert.NilError(t, err)

	access := mintAccess(t, app, intruder)

	t.Log("Another user's client reads as not found")

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/client/%d", client.ID), nil)
	req.Header.Set("Authorization", "Bearer "+access)
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, req)

	assert.Equal(t, recorder.Code, http.StatusNotFound)

	t.Log("And cannot be deleted")

	req = httptest.NewRequest("DELETE", fmt.Sprintf("/api/client/%d", client.ID), nil)
	req.Header.Set("Authorization", "Bearer "+access)
	recorder = httptest.NewRecorder()
	app.router.ServeHTTP(recorder, req)

	assert.Equal(t, recorder.Code, http.StatusNotFound)
}

func TestClientDeleteEndpoint(t *testing.T) {
	app := setupTestApp(t, false)
	user, client := app.seedUserAndClient(t)
	access := mintAccess(t, app, user)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/client/%d", client.ID), nil)
	req.Header.Set("Authorization", "Bearer "+access)
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, req)

	assert.Equal(t, recorder.Code, http.StatusOK)

	gone, err := app.clients.GetClientByID(client.ID)
	assert.NilError(t, err)
	assert.Assert(t, gone == nil)
}
