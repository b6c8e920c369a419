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

// TeamMember handlers. Same id rules as managers: a caller may pick the id,
// otherwise the next one is allocated.

type TeamMemberRequest struct {
	TeamMemberID   *int    `json:"team_member_id"`
	TeamMemberName string  `json:"team_member_name" validate:"required"`
	Password       string  `json:"password" validate:"required"`
	Position       *string `json:"position"`
}

func scanTeamMember(s interface{ Scan(...interface{}) error }) (models.TeamMember, error) {
	var tm models.TeamMember
	var position sql.NullString
	if err := s.Scan(&tm.TeamMemberID, &tm.TeamMemberName, &tm.Password, &position); err != nil {
		return tm, err
	}
	if position.Valid {
		tm.Position = &position.String
	}
	return tm, nil
}

func ListTeamMembers(c *fiber.Ctx) error {
	rows, err := config.DB.Query(
		"SELECT team_member_id, team_member_name, password, position FROM team_members ORDER BY team_member_id")
	if err != nil {
		logger.ErrorLogger.Error("Error fetching team members", zap.Error(err))
		return serverError(c, "Error fetching team members")
	}
	defer rows.Close()

	teamMembers := []models.TeamMember{}
	for rows.Next() {
		tm, err := scanTeamMember(rows)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning team members", zap.Error(err))
			return serverError(c, "Error scanning team members")
		}
		teamMembers = append(teamMembers, tm)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over team members", zap.Error(err))
		return serverError(c, "Error iterating over team members")
	}
	return c.JSON(teamMembers)
}

func GetTeamMember(c *fiber.Ctx) error {
	teamMemberID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	tm, err := scanTeamMember(config.DB.QueryRow(
		"SELECT team_member_id, team_member_name, password, position FROM team_members WHERE team_member_id = $1",
		teamMemberID))
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching team member", zap.Error(err))
		return serverError(c, "Error fetching team member")
	}
	return c.JSON(tm)
}

func CreateTeamMember(c *fiber.Ctx) error {
	var req TeamMemberRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create team member", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	var id int
	if req.TeamMemberID != nil && *req.TeamMemberID != 0 {
		id = *req.TeamMemberID
		var exists int
		err := config.DB.QueryRow("SELECT 1 FROM team_members WHERE team_member_id = $1", id).Scan(&exists)
		if err == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Team Member with ID %d already exists", id),
			})
		}
		if !errors.Is(err, sql.ErrNoRows) {
			logger.ErrorLogger.Error("Error checking team member id", zap.Error(err))
			return serverError(c, "Error creating team member")
		}
		_, err = config.DB.Exec(
			"INSERT INTO team_members (team_member_id, team_member_name, password, position) VALUES ($1, $2, $3, $4)",
			id, req.TeamMemberName, req.Password, req.Position)
		if repository.IsUniqueViolation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Team Member with ID %d already exists", id),
			})
		}
		if err != nil {
			logger.ErrorLogger.Error("Error creating team member", zap.Error(err))
			return serverError(c, "Error creating team member")
		}
	} else {
		var err error
		id, err = repository.CreateWithAllocatedID(config.DB, "team_members", "team_member_id", func(tx *sql.Tx, id int) error {
			_, err := tx.Exec(
				"INSERT INTO team_members (team_member_id, team_member_name, password, position) VALUES ($1, $2, $3, $4)",
				id, req.TeamMemberName, req.Password, req.Position)
			return err
		})
		if err != nil {
			logger.ErrorLogger.Error("Error creating team member", zap.Error(err))
			return serverError(c, "Error creating team member")
		}
	}

	logger.AuditLogger.Info("Team member created", zap.Int("team_member_id", id))
	return c.Status(fiber.StatusCreated).JSON(models.TeamMember{
		TeamMemberID:   id,
		TeamMemberName: req.TeamMemberName,
		Password:       req.Password,
		Position:       req.Position,
	})
}

func UpdateTeamMember(c *fiber.Ctx) error {
	teamMemberID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var exists int
	err = config.DB.QueryRow("SELECT 1 FROM team_members WHERE team_member_id = $1", teamMemberID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching team member", zap.Error(err))
		return serverError(c, "Error fetching team member")
	}

	var req TeamMemberRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update team member", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	_, err = config.DB.Exec(
		"UPDATE team_members SET team_member_name = $1, password = $2, position = $3 WHERE team_member_id = $4",
		req.TeamMemberName, req.Password, req.Position, teamMemberID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating team member", zap.Error(err))
		return serverError(c, "Error updating team member")
	}

	logger.AuditLogger.Info("Team member updated", zap.Int("team_member_id", teamMemberID))
	return c.JSON(models.TeamMember{
		TeamMemberID:   teamMemberID,
		TeamMemberName: req.TeamMemberName,
		Password:       req.Password,
		Position:       req.Position,
	})
}

func DeleteTeamMember(c *fiber.Ctx) error {
	teamMemberID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	res, err := config.DB.Exec("DELETE FROM team_members WHERE team_member_id = $1", teamMemberID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting team member", zap.Error(err))
		return serverError(c, "Error deleting team member")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	logger.AuditLogger.Info("Team member deleted", zap.Int("team_member_id", teamMemberID))
	return c.SendStatus(fiber.StatusNoContent)
}
