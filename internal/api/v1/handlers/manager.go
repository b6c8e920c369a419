package handlers

import (
	"database/sql"
	"errors"
	"fmt"

	"pml-backend/internal/config"
	"pml-backend/internal/models"
	"pml-backend/internal/repository"
	"pml-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Manager handlers. Creation accepts a caller-supplied manager_id; when one
// is present it must not collide with an existing row, otherwise the next id
// is allocated.

type ManagerRequest struct {
	ManagerID *int   `json:"manager_id"`
	Name      string `json:"name" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

func ListManagers(c *fiber.Ctx) error {
	rows, err := config.DB.Query("SELECT manager_id, name, password FROM managers ORDER BY manager_id")
	if err != nil {
		logger.ErrorLogger.Error("Error fetching managers", zap.Error(err))
		return serverError(c, "Error fetching managers")
	}
	defer rows.Close()

	managers := []models.Manager{}
	for rows.Next() {
		var manager models.Manager
		if err := rows.Scan(&manager.ManagerID, &manager.Name, &manager.Password); err != nil {
			logger.ErrorLogger.Error("Error scanning managers", zap.Error(err))
			return serverError(c, "Error scanning managers")
		}
		managers = append(managers, manager)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over managers", zap.Error(err))
		return serverError(c, "Error iterating over managers")
	}
	return c.JSON(managers)
}

func GetManager(c *fiber.Ctx) error {
	managerID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var manager models.Manager
	err = config.DB.QueryRow(
		"SELECT manager_id, name, password FROM managers WHERE manager_id = $1",
		managerID).Scan(&manager.ManagerID, &manager.Name, &manager.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching manager", zap.Error(err))
		return serverError(c, "Error fetching manager")
	}
	return c.JSON(manager)
}

func CreateManager(c *fiber.Ctx) error {
	var req ManagerRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create manager", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	var id int
	if req.ManagerID != nil && *req.ManagerID != 0 {
		// Caller-supplied id: reject duplicates before inserting
		id = *req.ManagerID
		var exists int
		err := config.DB.QueryRow("SELECT 1 FROM managers WHERE manager_id = $1", id).Scan(&exists)
		if err == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Manager with ID %d already exists", id),
			})
		}
		if !errors.Is(err, sql.ErrNoRows) {
			logger.ErrorLogger.Error("Error checking manager id", zap.Error(err))
			return serverError(c, "Error creating manager")
		}
		_, err = config.DB.Exec(
			"INSERT INTO managers (manager_id, name, password) VALUES ($1, $2, $3)",
			id, req.Name, req.Password)
		if repository.IsUniqueViolation(err) {
			// Lost a race between the existence check and the insert
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Manager with ID %d already exists", id),
			})
		}
		if err != nil {
			logger.ErrorLogger.Error("Error creating manager", zap.Error(err))
			return serverError(c, "Error creating manager")
		}
	} else {
		var err error
		id, err = repository.CreateWithAllocatedID(config.DB, "managers", "manager_id", func(tx *sql.Tx, id int) error {
			_, err := tx.Exec(
				"INSERT INTO managers (manager_id, name, password) VALUES ($1, $2, $3)",
				id, req.Name, req.Password)
			return err
		})
		if err != nil {
			logger.ErrorLogger.Error("Error creating manager", zap.Error(err))
			return serverError(c, "Error creating manager")
		}
	}

	logger.AuditLogger.Info("Manager created", zap.Int("manager_id", id))
	return c.Status(fiber.StatusCreated).JSON(models.Manager{ManagerID: id, Name: req.Name, Password: req.Password})
}

func UpdateManager(c *fiber.Ctx) error {
	managerID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var exists int
	err = config.DB.QueryRow("SELECT 1 FROM managers WHERE manager_id = $1", managerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching manager", zap.Error(err))
		return serverError(c, "Error fetching manager")
	}

	var req ManagerRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update manager", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	_, err = config.DB.Exec(
		"UPDATE managers SET name = $1, password = $2 WHERE manager_id = $3",
		req.Name, req.Password, managerID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating manager", zap.Error(err))
		return serverError(c, "Error updating manager")
	}

	// Cached projects and tasks embed this manager, so their entries are
	// stale now.
	dropDependentCaches(managerID)

	logger.AuditLogger.Info("Manager updated", zap.Int("manager_id", managerID))
	return c.JSON(models.Manager{ManagerID: managerID, Name: req.Name, Password: req.Password})
}

func DeleteManager(c *fiber.Ctx) error {
	managerID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var exists int
	err = config.DB.QueryRow("SELECT 1 FROM managers WHERE manager_id = $1", managerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching manager", zap.Error(err))
		return serverError(c, "Error fetching manager")
	}

	// The delete cascades to this manager's projects and tasks, so their
	// cached detail entries have to go too.
	dropDependentCaches(managerID)

	if _, err := config.DB.Exec("DELETE FROM managers WHERE manager_id = $1", managerID); err != nil {
		logger.ErrorLogger.Error("Error deleting manager", zap.Error(err))
		return serverError(c, "Error deleting manager")
	}

	logger.AuditLogger.Info("Manager deleted", zap.Int("manager_id", managerID))
	return c.SendStatus(fiber.StatusNoContent)
}

func dropDependentCaches(managerID int) {
	keys := []string{}
	if rows, err := config.DB.Query("SELECT project_id FROM projects WHERE manager_id = $1", managerID); err == nil {
		defer rows.Close()
		for rows.Next() {
			var id int
			if rows.Scan(&id) == nil {
				keys = append(keys, fmt.Sprintf("project:%d", id))
			}
		}
	}
	if rows, err := config.DB.Query("SELECT task_id FROM tasks WHERE manager_id = $1", managerID); err == nil {
		defer rows.Close()
		for rows.Next() {
			var id int
			if rows.Scan(&id) == nil {
				keys = append(keys, fmt.Sprintf("task:%d", id))
			}
		}
	}
	if len(keys) > 0 {
		config.RedisClient.Del(config.Ctx, keys...)
	}
}
