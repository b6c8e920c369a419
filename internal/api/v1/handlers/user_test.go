package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCRUD(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "POST", "/api/users/create", map[string]string{
		"name":   "Raka",
		"number": "081234567890",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Raka", body["name"])

	resp = doRequest(t, app, "GET", "/api/users/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decodeSlice(t, resp), 1)

	resp = doRequest(t, app, "GET", "/api/users/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "081234567890", decodeMap(t, resp)["number"])

	resp = doRequest(t, app, "PUT", "/api/users/update/1", map[string]string{
		"name":   "Raka Arfi",
		"number": "089999999999",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Raka Arfi", decodeMap(t, resp)["name"])

	resp = doRequest(t, app, "DELETE", "/api/users/delete/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 0, countRows(t, "users"))
}

func TestUserNotFound(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "GET", "/api/users/42", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "PUT", "/api/users/update/42", map[string]string{
		"name":   "Ghost",
		"number": "0",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "DELETE", "/api/users/delete/42", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateUserValidation(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "POST", "/api/users/create", map[string]string{
		"name": "Raka",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs, ok := decodeMap(t, resp)["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "This field is required.", errs["number"])
	assert.Equal(t, 0, countRows(t, "users"))
}
