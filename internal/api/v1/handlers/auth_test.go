package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogin(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "POST", "/api/admins/create", map[string]string{
		"name":     "Alice",
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "POST", "/api/admin/login", map[string]interface{}{
		"admin_id": 1,
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Login successful", body["message"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["admin_id"])
	assert.Equal(t, "Alice", data["name"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "POST", "/api/admins/create", map[string]string{
		"name":     "Alice",
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Wrong password for an existing id and a missing id look identical.
	for _, body := range []map[string]interface{}{
		{"admin_id": 1, "password": "wrong"},
		{"admin_id": 999, "password": "secret"},
	} {
		resp := doRequest(t, app, "POST", "/api/admin/login", body)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", decodeMap(t, resp)["error"])
	}
}

func TestLoginMissingFields(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "POST", "/api/admin/login", map[string]interface{}{
		"admin_id": 1,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please provide both admin ID and password", decodeMap(t, resp)["error"])

	resp = doRequest(t, app, "POST", "/api/manager/login", map[string]interface{}{
		"password": "secret",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please provide both manager ID and password", decodeMap(t, resp)["error"])
}

func TestLoginNonNumericID(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "POST", "/api/admin/login", map[string]interface{}{
		"admin_id": "abc",
		"password": "secret",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Admin ID must be a number", decodeMap(t, resp)["error"])

	// A numeric string is accepted.
	resp = doRequest(t, app, "POST", "/api/admins/create", map[string]string{
		"name":     "Alice",
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "POST", "/api/admin/login", map[string]interface{}{
		"admin_id": "1",
		"password": "secret",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestManagerLogin(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	createManager(t, app, map[string]interface{}{"name": "Dewi", "password": "secret"})

	resp := doRequest(t, app, "POST", "/api/manager/login", map[string]interface{}{
		"manager_id": 1,
		"password":   "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := decodeMap(t, resp)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["manager_id"])
	assert.Equal(t, "Dewi", data["name"])
}

func TestTeamMemberLogin(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	createTeamMember(t, app, map[string]interface{}{
		"team_member_name": "Sari",
		"password":         "secret",
	})

	resp := doRequest(t, app, "POST", "/api/team-member/login", map[string]interface{}{
		"team_member_id": 1,
		"password":       "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := decodeMap(t, resp)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["team_member_id"])
	assert.Equal(t, "Sari", data["name"])

	resp = doRequest(t, app, "POST", "/api/team-member/login", map[string]interface{}{
		"team_member_id": 1,
		"password":       "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
