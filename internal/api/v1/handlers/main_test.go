package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"

	v1 "pml-backend/internal/api/v1"
	"pml-backend/internal/config"
	"pml-backend/internal/middleware"
	"pml-backend/internal/repository"
	"pml-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("GO_ENV", "test")

	logDir, err := os.MkdirTemp("", "pml-logs")
	if err != nil {
		log.Fatalf("Could not create log dir: %v", err)
	}
	os.Setenv("LOG_DIR", logDir)
	logger.InitLoggers()
	defer logger.SyncLoggers()

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not ping docker: %v", err)
	}

	pgResource, err := pool.Run("postgres", "15-alpine", []string{
		"POSTGRES_USER=postgres",
		"POSTGRES_PASSWORD=secret",
		"POSTGRES_DB=pml_test",
	})
	if err != nil {
		log.Fatalf("Could not start postgres: %v", err)
	}
	pgResource.Expire(300)

	dsn := fmt.Sprintf("host=localhost port=%s user=postgres password=secret dbname=pml_test sslmode=disable",
		pgResource.GetPort("5432/tcp"))
	if err := pool.Retry(func() error {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			return err
		}
		config.DB = db
		return nil
	}); err != nil {
		log.Fatalf("Could not connect to postgres: %v", err)
	}

	redisResource, err := pool.Run("redis", "7-alpine", nil)
	if err != nil {
		log.Fatalf("Could not start redis: %v", err)
	}
	redisResource.Expire(300)

	if err := pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{
			Addr: "localhost:" + redisResource.GetPort("6379/tcp"),
		})
		if err := client.Ping(config.Ctx).Err(); err != nil {
			return err
		}
		config.RedisClient = client
		return nil
	}); err != nil {
		log.Fatalf("Could not connect to redis: %v", err)
	}

	repository.CreateTableIfNotExists(config.DB)

	code := m.Run()

	config.DB.Close()
	config.RedisClient.Close()
	pool.Purge(pgResource)
	pool.Purge(redisResource)
	os.RemoveAll(logDir)

	os.Exit(code)
}

// createTestApp initializes the Fiber app with the full route table.
func createTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.ErrorHandler())
	v1.RegisterRoutes(app)
	return app
}

// resetTables empties every table and the cache so a test starts clean.
func resetTables(t *testing.T) {
	t.Helper()
	_, err := config.DB.Exec(`TRUNCATE users, help, project_team_members, tasks, projects, team_members, managers, admins RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	require.NoError(t, config.RedisClient.FlushAll(config.Ctx).Err())
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func decodeSlice(t *testing.T, resp *http.Response) []interface{} {
	t.Helper()
	defer resp.Body.Close()
	var result []interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, config.DB.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
