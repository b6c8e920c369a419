package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"pml-backend/internal/config"
	"pml-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Auth handlers. Credentials are looked up as an (id, password) pair in one
// query; a miss on either side is the same "Invalid credentials" answer. No
// token or session comes out of this, every request stands on its own.

type loginRole struct {
	table      string
	idColumn   string
	nameColumn string
	idKey      string // json key carrying the id, e.g. "manager_id"
	label      string // lower-case label for the missing-fields message
	idLabel    string // capitalized label for the bad-id message
}

var (
	adminRole      = loginRole{"admins", "admin_id", "name", "admin_id", "admin ID", "Admin ID"}
	managerRole    = loginRole{"managers", "manager_id", "name", "manager_id", "manager ID", "Manager ID"}
	teamMemberRole = loginRole{"team_members", "team_member_id", "team_member_name", "team_member_id", "team member ID", "Team Member ID"}
)

func AdminLogin(c *fiber.Ctx) error {
	return roleLogin(c, adminRole)
}

func ManagerLogin(c *fiber.Ctx) error {
	return roleLogin(c, managerRole)
}

func TeamMemberLogin(c *fiber.Ctx) error {
	return roleLogin(c, teamMemberRole)
}

func roleLogin(c *fiber.Ctx, role loginRole) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return badRequest(c)
	}

	rawID := body[role.idKey]
	password, _ := body["password"].(string)
	if rawID == nil || password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Please provide both %s and password", role.label),
		})
	}

	id, err := coerceID(rawID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("%s must be a number", role.idLabel),
		})
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = $1 AND password = $2",
		role.idColumn, role.nameColumn, role.table, role.idColumn)
	var matchedID int
	var name string
	err = config.DB.QueryRow(query, id, password).Scan(&matchedID, &name)
	if errors.Is(err, sql.ErrNoRows) {
		logger.SecurityLogger.Warn("Invalid credentials",
			zap.String("role", role.table), zap.Int("id", id))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error during login", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	logger.AuditLogger.Info("Login successful",
		zap.String("role", role.table), zap.Int("id", matchedID))
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Login successful",
		"data": fiber.Map{
			role.idKey: matchedID,
			"name":     name,
		},
	})
}

// coerceID accepts the id as a JSON number or a numeric string.
func coerceID(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("unsupported id type %T", raw)
	}
}
