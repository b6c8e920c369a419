package handlers

import (
	"database/sql"
	"errors"
	"time"

	"pml-backend/internal/config"
	"pml-backend/internal/models"
	"pml-backend/internal/repository"
	"pml-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Help (support request) handlers

type HelpRequest struct {
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	Number      string     `json:"number"`
	Mobile      string     `json:"mobile"` // accepted as an alias for number
	Subject     string     `json:"subject" validate:"required"`
	Description *string    `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
}

func scanHelp(s interface{ Scan(...interface{}) error }) (models.Help, error) {
	var h models.Help
	var description sql.NullString
	var createdAt sql.NullTime
	if err := s.Scan(&h.HelpID, &h.Name, &h.Email, &h.Number, &h.Subject, &description, &createdAt); err != nil {
		return h, err
	}
	if description.Valid {
		h.Description = &description.String
	}
	if createdAt.Valid {
		h.CreatedAt = &createdAt.Time
	}
	return h, nil
}

func ListHelp(c *fiber.Ctx) error {
	rows, err := config.DB.Query(
		"SELECT help_id, name, email, number, subject, description, created_at FROM help ORDER BY help_id")
	if err != nil {
		logger.ErrorLogger.Error("Error fetching help requests", zap.Error(err))
		return serverError(c, "Error fetching help requests")
	}
	defer rows.Close()

	helpRequests := []models.Help{}
	for rows.Next() {
		h, err := scanHelp(rows)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning help requests", zap.Error(err))
			return serverError(c, "Error scanning help requests")
		}
		helpRequests = append(helpRequests, h)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over help requests", zap.Error(err))
		return serverError(c, "Error iterating over help requests")
	}
	return c.JSON(helpRequests)
}

func GetHelp(c *fiber.Ctx) error {
	helpID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	h, err := scanHelp(config.DB.QueryRow(
		"SELECT help_id, name, email, number, subject, description, created_at FROM help WHERE help_id = $1",
		helpID))
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching help request", zap.Error(err))
		return serverError(c, "Error fetching help request")
	}
	return c.JSON(h)
}

func CreateHelp(c *fiber.Ctx) error {
	var req HelpRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create help request", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	number := req.Number
	if number == "" {
		number = req.Mobile
	}
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": fiber.Map{"number": "This field is required."},
		})
	}

	createdAt := time.Now()
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	id, err := repository.CreateWithAllocatedID(config.DB, "help", "help_id", func(tx *sql.Tx, id int) error {
		_, err := tx.Exec(
			`INSERT INTO help (help_id, name, email, number, subject, description, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, req.Name, req.Email, number, req.Subject, req.Description, createdAt)
		return err
	})
	if err != nil {
		logger.ErrorLogger.Error("Error creating help request", zap.Error(err))
		return serverError(c, "Error creating help request")
	}

	logger.AuditLogger.Info("Help request created", zap.Int("help_id", id))
	return c.Status(fiber.StatusCreated).JSON(models.Help{
		HelpID:      id,
		Name:        req.Name,
		Email:       req.Email,
		Number:      number,
		Subject:     req.Subject,
		Description: req.Description,
		CreatedAt:   &createdAt,
	})
}

func UpdateHelp(c *fiber.Ctx) error {
	helpID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var exists int
	err = config.DB.QueryRow("SELECT 1 FROM help WHERE help_id = $1", helpID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching help request", zap.Error(err))
		return serverError(c, "Error fetching help request")
	}

	var req HelpRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update help request", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	number := req.Number
	if number == "" {
		number = req.Mobile
	}
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": fiber.Map{"number": "This field is required."},
		})
	}

	_, err = config.DB.Exec(
		`UPDATE help SET name = $1, email = $2, number = $3, subject = $4,
		        description = $5, created_at = COALESCE($6, created_at)
		 WHERE help_id = $7`,
		req.Name, req.Email, number, req.Subject, req.Description, req.CreatedAt, helpID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating help request", zap.Error(err))
		return serverError(c, "Error updating help request")
	}

	h, err := scanHelp(config.DB.QueryRow(
		"SELECT help_id, name, email, number, subject, description, created_at FROM help WHERE help_id = $1",
		helpID))
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated help request", zap.Error(err))
		return serverError(c, "Error fetching updated help request")
	}

	logger.AuditLogger.Info("Help request updated", zap.Int("help_id", helpID))
	return c.JSON(h)
}

func DeleteHelp(c *fiber.Ctx) error {
	helpID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	res, err := config.DB.Exec("DELETE FROM help WHERE help_id = $1", helpID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting help request", zap.Error(err))
		return serverError(c, "Error deleting help request")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	logger.AuditLogger.Info("Help request deleted", zap.Int("help_id", helpID))
	return c.SendStatus(fiber.StatusNoContent)
}
