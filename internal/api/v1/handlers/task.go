package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pml-backend/internal/config"
	"pml-backend/internal/models"
	"pml-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Task handlers. Task ids come from the store's own sequence; priority and
// status are constrained to their choice sets and defaulted when omitted.

const taskSelect = `
SELECT t.task_id, t.task_name, t.team_member_id, t.priority, t.status,
       m.manager_id, m.name, m.password
FROM tasks t
LEFT JOIN managers m ON t.manager_id = m.manager_id`

type TaskRequest struct {
	TaskName     string  `json:"task_name" validate:"required"`
	ManagerID    *int    `json:"manager_id"`
	TeamMemberID *int    `json:"team_member_id"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=very_urgent urgent medium low"`
	Status       *string `json:"status" validate:"omitempty,oneof=in_progress completed"`
}

type TaskUpdateRequest struct {
	TaskName     *string `json:"task_name"`
	ManagerID    *int    `json:"manager_id"`
	TeamMemberID *int    `json:"team_member_id"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=very_urgent urgent medium low"`
	Status       *string `json:"status" validate:"omitempty,oneof=in_progress completed"`
}

func scanTask(s interface{ Scan(...interface{}) error }) (models.Task, error) {
	var t models.Task
	var teamMemberID, managerID sql.NullInt64
	var managerName, managerPassword sql.NullString
	err := s.Scan(&t.TaskID, &t.TaskName, &teamMemberID, &t.Priority, &t.Status,
		&managerID, &managerName, &managerPassword)
	if err != nil {
		return t, err
	}
	if teamMemberID.Valid {
		tm := int(teamMemberID.Int64)
		t.TeamMemberID = &tm
	}
	if managerID.Valid {
		t.Manager = &models.Manager{
			ManagerID: int(managerID.Int64),
			Name:      managerName.String,
			Password:  managerPassword.String,
		}
	}
	return t, nil
}

func fetchTask(taskID int) (models.Task, error) {
	return scanTask(config.DB.QueryRow(taskSelect+" WHERE t.task_id = $1", taskID))
}

func ListTasks(c *fiber.Ctx) error {
	rows, err := config.DB.Query(taskSelect + " ORDER BY t.task_id")
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return serverError(c, "Error fetching tasks")
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning tasks", zap.Error(err))
			return serverError(c, "Error scanning tasks")
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over tasks", zap.Error(err))
		return serverError(c, "Error iterating over tasks")
	}
	return c.JSON(tasks)
}

func GetTask(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	cacheKey := fmt.Sprintf("task:%d", taskID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var task models.Task
		if err = json.Unmarshal([]byte(cached), &task); err == nil {
			return c.JSON(task)
		}
	}

	task, err := fetchTask(taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return serverError(c, "Error fetching task")
	}

	if taskJSON, err := json.Marshal(task); err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, taskJSON, time.Hour)
	}
	return c.JSON(task)
}

func CreateTask(c *fiber.Ctx) error {
	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	// A zero id counts as "no manager", same as leaving the field out.
	if req.ManagerID != nil && *req.ManagerID == 0 {
		req.ManagerID = nil
	}

	var manager *models.Manager
	if req.ManagerID != nil {
		var err error
		manager, err = fetchManager(*req.ManagerID)
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Manager with id %d does not exist", *req.ManagerID),
			})
		}
		if err != nil {
			logger.ErrorLogger.Error("Error resolving manager", zap.Error(err))
			return serverError(c, "Error creating task")
		}
	}

	priority := "medium"
	if req.Priority != nil {
		priority = *req.Priority
	}
	status := "in_progress"
	if req.Status != nil {
		status = *req.Status
	}

	var taskID int
	err := config.DB.QueryRow(
		`INSERT INTO tasks (task_name, manager_id, team_member_id, priority, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING task_id`,
		req.TaskName, req.ManagerID, req.TeamMemberID, priority, status).Scan(&taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return serverError(c, "Error creating task")
	}

	logger.AuditLogger.Info("Task created", zap.Int("task_id", taskID))
	return c.Status(fiber.StatusCreated).JSON(models.Task{
		TaskID:       taskID,
		TaskName:     req.TaskName,
		Manager:      manager,
		TeamMemberID: req.TeamMemberID,
		Priority:     priority,
		Status:       status,
	})
}

func UpdateTask(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var exists int
	err = config.DB.QueryRow("SELECT 1 FROM tasks WHERE task_id = $1", taskID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return serverError(c, "Error fetching task")
	}

	var supplied map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &supplied); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return badRequest(c)
	}
	var req TaskUpdateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}
	if req.TaskName == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": fiber.Map{"task_name": "This field is required."},
		})
	}

	set := []string{}
	args := []interface{}{}
	addSet := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.TaskName != nil {
		addSet("task_name", *req.TaskName)
	}
	if _, ok := supplied["team_member_id"]; ok {
		addSet("team_member_id", req.TeamMemberID)
	}
	if req.Priority != nil {
		addSet("priority", *req.Priority)
	}
	if req.Status != nil {
		addSet("status", *req.Status)
	}
	if _, ok := supplied["manager_id"]; ok {
		// A zero id detaches the manager, like an explicit null.
		if req.ManagerID != nil && *req.ManagerID != 0 {
			if _, err := fetchManager(*req.ManagerID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": fmt.Sprintf("Manager with id %d does not exist", *req.ManagerID),
					})
				}
				logger.ErrorLogger.Error("Error resolving manager", zap.Error(err))
				return serverError(c, "Error updating task")
			}
			addSet("manager_id", *req.ManagerID)
		} else {
			addSet("manager_id", nil)
		}
	}

	if len(set) > 0 {
		args = append(args, taskID)
		query := fmt.Sprintf("UPDATE tasks SET %s WHERE task_id = $%d",
			strings.Join(set, ", "), len(args))
		if _, err := config.DB.Exec(query, args...); err != nil {
			logger.ErrorLogger.Error("Error updating task", zap.Error(err))
			return serverError(c, "Error updating task")
		}
	}

	task, err := fetchTask(taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated task", zap.Error(err))
		return serverError(c, "Error fetching updated task")
	}

	cacheKey := fmt.Sprintf("task:%d", taskID)
	config.RedisClient.Del(config.Ctx, cacheKey)
	if taskJSON, err := json.Marshal(task); err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, taskJSON, time.Hour)
	}

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return c.JSON(task)
}

func DeleteTask(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	res, err := config.DB.Exec("DELETE FROM tasks WHERE task_id = $1", taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return serverError(c, "Error deleting task")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	config.RedisClient.Del(config.Ctx, fmt.Sprintf("task:%d", taskID))
	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return c.SendStatus(fiber.StatusNoContent)
}
