package handlers

import (
	"database/sql"
	"errors"

	"pml-backend/internal/config"
	"pml-backend/internal/models"
	"pml-backend/internal/repository"
	"pml-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Admin handlers

type AdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func ListAdmins(c *fiber.Ctx) error {
	rows, err := config.DB.Query("SELECT admin_id, name, password FROM admins ORDER BY admin_id")
	if err != nil {
		logger.ErrorLogger.Error("Error fetching admins", zap.Error(err))
		return serverError(c, "Error fetching admins")
	}
	defer rows.Close()

	admins := []models.Admin{}
	for rows.Next() {
		var admin models.Admin
		if err := rows.Scan(&admin.AdminID, &admin.Name, &admin.Password); err != nil {
			logger.ErrorLogger.Error("Error scanning admins", zap.Error(err))
			return serverError(c, "Error scanning admins")
		}
		admins = append(admins, admin)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over admins", zap.Error(err))
		return serverError(c, "Error iterating over admins")
	}
	return c.JSON(admins)
}

func GetAdmin(c *fiber.Ctx) error {
	adminID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var admin models.Admin
	err = config.DB.QueryRow(
		"SELECT admin_id, name, password FROM admins WHERE admin_id = $1",
		adminID).Scan(&admin.AdminID, &admin.Name, &admin.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching admin", zap.Error(err))
		return serverError(c, "Error fetching admin")
	}
	return c.JSON(admin)
}

func CreateAdmin(c *fiber.Ctx) error {
	var req AdminRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create admin", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	id, err := repository.CreateWithAllocatedID(config.DB, "admins", "admin_id", func(tx *sql.Tx, id int) error {
		_, err := tx.Exec(
			"INSERT INTO admins (admin_id, name, password) VALUES ($1, $2, $3)",
			id, req.Name, req.Password)
		return err
	})
	if err != nil {
		logger.ErrorLogger.Error("Error creating admin", zap.Error(err))
		return serverError(c, "Error creating admin")
	}

	logger.AuditLogger.Info("Admin created", zap.Int("admin_id", id))
	return c.Status(fiber.StatusCreated).JSON(models.Admin{AdminID: id, Name: req.Name, Password: req.Password})
}

func UpdateAdmin(c *fiber.Ctx) error {
	adminID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var exists int
	err = config.DB.QueryRow("SELECT 1 FROM admins WHERE admin_id = $1", adminID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching admin", zap.Error(err))
		return serverError(c, "Error fetching admin")
	}

	var req AdminRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update admin", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	_, err = config.DB.Exec(
		"UPDATE admins SET name = $1, password = $2 WHERE admin_id = $3",
		req.Name, req.Password, adminID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating admin", zap.Error(err))
		return serverError(c, "Error updating admin")
	}

	logger.AuditLogger.Info("Admin updated", zap.Int("admin_id", adminID))
	return c.JSON(models.Admin{AdminID: adminID, Name: req.Name, Password: req.Password})
}

func DeleteAdmin(c *fiber.Ctx) error {
	adminID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	res, err := config.DB.Exec("DELETE FROM admins WHERE admin_id = $1", adminID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting admin", zap.Error(err))
		return serverError(c, "Error deleting admin")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	logger.AuditLogger.Info("Admin deleted", zap.Int("admin_id", adminID))
	return c.SendStatus(fiber.StatusNoContent)
}
