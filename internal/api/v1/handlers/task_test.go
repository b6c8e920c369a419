package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTask(t *testing.T, app *fiber.App, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	resp := doRequest(t, app, "POST", "/api/tasks/create", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeMap(t, resp)
}

func TestCreateTaskDefaults(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	body := createTask(t, app, map[string]interface{}{
		"task_name": "Design schema",
	})
	assert.Equal(t, float64(1), body["task_id"])
	assert.Equal(t, "medium", body["priority"])
	assert.Equal(t, "in_progress", body["status"])
	assert.Nil(t, body["manager"])

	// The defaults survive a round trip through the database.
	resp := doRequest(t, app, "GET", "/api/tasks/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := decodeMap(t, resp)
	assert.Equal(t, "medium", stored["priority"])
	assert.Equal(t, "in_progress", stored["status"])
}

func TestCreateTaskWithManager(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	createManager(t, app, map[string]interface{}{"name": "Dewi", "password": "secret"})

	body := createTask(t, app, map[string]interface{}{
		"task_name":  "Design schema",
		"manager_id": 1,
		"priority":   "very_urgent",
		"status":     "completed",
	})
	assert.Equal(t, "very_urgent", body["priority"])
	assert.Equal(t, "completed", body["status"])
	manager, ok := body["manager"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Dewi", manager["name"])
}

func TestCreateTaskZeroManagerMeansNone(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	body := createTask(t, app, map[string]interface{}{
		"task_name":  "Unassigned",
		"manager_id": 0,
	})
	assert.Nil(t, body["manager"])

	resp := doRequest(t, app, "GET", "/api/tasks/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decodeMap(t, resp)["manager"])
}

func TestCreateTaskUnknownManager(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "POST", "/api/tasks/create", map[string]interface{}{
		"task_name":  "Orphan",
		"manager_id": 99,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Manager with id 99 does not exist", decodeMap(t, resp)["error"])
}

func TestCreateTaskInvalidEnums(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "POST", "/api/tasks/create", map[string]interface{}{
		"task_name": "Bad priority",
		"priority":  "asap",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeMap(t, resp)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "priority")

	resp = doRequest(t, app, "POST", "/api/tasks/create", map[string]interface{}{
		"task_name": "Bad status",
		"status":    "done",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeMap(t, resp)
	errs, ok = body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "status")

	assert.Equal(t, 0, countRows(t, "tasks"))
}

func TestListTasks(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	resp := doRequest(t, app, "GET", "/api/tasks/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeSlice(t, resp))

	createTask(t, app, map[string]interface{}{"task_name": "First"})
	createTask(t, app, map[string]interface{}{"task_name": "Second"})

	resp = doRequest(t, app, "GET", "/api/tasks/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tasks := decodeSlice(t, resp)
	require.Len(t, tasks, 2)
	assert.Equal(t, "First", tasks[0].(map[string]interface{})["task_name"])
}

func TestUpdateTask(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	createTask(t, app, map[string]interface{}{"task_name": "Design schema"})

	resp := doRequest(t, app, "PUT", "/api/tasks/update/1", map[string]interface{}{
		"task_name": "Design schema v2",
		"status":    "completed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "Design schema v2", body["task_name"])
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, "medium", body["priority"])

	// task_name is mandatory on update.
	resp = doRequest(t, app, "PUT", "/api/tasks/update/1", map[string]interface{}{
		"status": "in_progress",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs, ok := decodeMap(t, resp)["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "This field is required.", errs["task_name"])

	resp = doRequest(t, app, "PUT", "/api/tasks/update/999", map[string]interface{}{
		"task_name": "Nothing",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteTask(t *testing.T) {
	resetTables(t)
	app := createTestApp()

	createTask(t, app, map[string]interface{}{"task_name": "Doomed"})

	resp := doRequest(t, app, "GET", "/api/tasks/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "DELETE", "/api/tasks/delete/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "GET", "/api/tasks/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "DELETE", "/api/tasks/delete/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
