package handlers

import (
	"database/sql"
	"errors"

	"pml-backend/internal/config"
	"pml-backend/internal/models"
	"pml-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Legacy User handlers, kept for backward compatibility.

type UserRequest struct {
	Name   string `json:"name" validate:"required"`
	Number string `json:"number" validate:"required"`
}

func ListUsers(c *fiber.Ctx) error {
	rows, err := config.DB.Query("SELECT id, name, number FROM users ORDER BY id")
	if err != nil {
		logger.ErrorLogger.Error("Error fetching users", zap.Error(err))
		return serverError(c, "Error fetching users")
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Number); err != nil {
			logger.ErrorLogger.Error("Error scanning users", zap.Error(err))
			return serverError(c, "Error scanning users")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over users", zap.Error(err))
		return serverError(c, "Error iterating over users")
	}
	return c.JSON(users)
}

func GetUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var user models.User
	err = config.DB.QueryRow("SELECT id, name, number FROM users WHERE id = $1", userID).
		Scan(&user.ID, &user.Name, &user.Number)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
		return serverError(c, "Error fetching user")
	}
	return c.JSON(user)
}

func CreateUser(c *fiber.Ctx) error {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create user", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	var id int
	err := config.DB.QueryRow(
		"INSERT INTO users (name, number) VALUES ($1, $2) RETURNING id",
		req.Name, req.Number).Scan(&id)
	if err != nil {
		logger.ErrorLogger.Error("Error creating user", zap.Error(err))
		return serverError(c, "Error creating user")
	}

	logger.AuditLogger.Info("User created", zap.Int("id", id))
	return c.Status(fiber.StatusCreated).JSON(models.User{ID: id, Name: req.Name, Number: req.Number})
}

func UpdateUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var exists int
	err = config.DB.QueryRow("SELECT 1 FROM users WHERE id = $1", userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
		return serverError(c, "Error fetching user")
	}

	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update user", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	_, err = config.DB.Exec("UPDATE users SET name = $1, number = $2 WHERE id = $3",
		req.Name, req.Number, userID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating user", zap.Error(err))
		return serverError(c, "Error updating user")
	}

	logger.AuditLogger.Info("User updated", zap.Int("id", userID))
	return c.JSON(models.User{ID: userID, Name: req.Name, Number: req.Number})
}

func DeleteUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	res, err := config.DB.Exec("DELETE FROM users WHERE id = $1", userID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting user", zap.Error(err))
		return serverError(c, "Error deleting user")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	logger.AuditLogger.Info("User deleted", zap.Int("id", userID))
	return c.SendStatus(fiber.StatusNoContent)
}
