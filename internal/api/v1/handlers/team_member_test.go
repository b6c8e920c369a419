package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTeamMember(t *testing.T, app *fiber.App, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	resp := doRequest(t, app, "POST", "/api/team-members/create", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeMap(t, resp)
}

func TestCreateTeamMember(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	body := createTeamMember(t, app, map[string]interface{}{
		"team_member_name": "Sari",
		"password":         "secret",
		"position":         "Backend Developer",
	})
	assert.Equal(t, float64(1), body["team_member_id"])
	assert.Equal(t, "Sari", body["team_member_name"])
	assert.Equal(t, "Backend Developer", body["position"])

	// Position is optional.
	body = createTeamMember(t, app, map[string]interface{}{
		"team_member_name": "Budi",
		"password":         "secret",
	})
	assert.Equal(t, float64(2), body["team_member_id"])
	assert.Nil(t, body["position"])
}

func TestCreateTeamMemberExplicitAndDuplicateID(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	body := createTeamMember(t, app, map[string]interface{}{
		"team_member_id":   10,
		"team_member_name": "Sari",
		"password":         "secret",
	})
	assert.Equal(t, float64(10), body["team_member_id"])

	resp := doRequest(t, app, "POST", "/api/team-members/create", map[string]interface{}{
		"team_member_id":   10,
		"team_member_name": "Budi",
		"password":         "secret",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Team Member with ID 10 already exists", decodeMap(t, resp)["error"])
	assert.Equal(t, 1, countRows(t, "team_members"))
}

func TestTeamMemberCRUD(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	createTeamMember(t, app, map[string]interface{}{
		"team_member_name": "Sari",
		"password":         "secret",
	})

	resp := doRequest(t, app, "GET", "/api/team-members/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sari", decodeMap(t, resp)["team_member_name"])

	resp = doRequest(t, app, "PUT", "/api/team-members/update/1", map[string]interface{}{
		"team_member_name": "Sari Putri",
		"password":         "changed",
		"position":         "Tech Lead",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "Sari Putri", body["team_member_name"])
	assert.Equal(t, "Tech Lead", body["position"])

	resp = doRequest(t, app, "GET", "/api/team-members/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "DELETE", "/api/team-members/delete/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 0, countRows(t, "team_members"))
}

func TestCreateTeamMemberValidation(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "POST", "/api/team-members/create", map[string]interface{}{
		"position": "Designer",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeMap(t, resp)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "This field is required.", errs["team_member_name"])
	assert.Equal(t, "This field is required.", errs["password"])
}
