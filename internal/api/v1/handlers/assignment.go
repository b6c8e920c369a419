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

// ProjectTeamMember handlers. One row assigns one team member to one project;
// the (project, team member) pair is unique.

const assignmentSelect = `
SELECT ptm.id,
       p.project_id, p.project_name, p.description, p.team_member_id,
       to_char(p.deadline, 'YYYY-MM-DD'), p.progress,
       m.manager_id, m.name, m.password,
       tm.team_member_id, tm.team_member_name, tm.password, tm.position
FROM project_team_members ptm
JOIN projects p ON ptm.project_id = p.project_id
LEFT JOIN managers m ON p.manager_id = m.manager_id
JOIN team_members tm ON ptm.team_member_id = tm.team_member_id`

type AssignmentRequest struct {
	ProjectID    *int `json:"project_id" validate:"required"`
	TeamMemberID *int `json:"team_member_id" validate:"required"`
}

type BulkAssignmentRequest struct {
	ProjectID     *int  `json:"project_id"`
	TeamMemberIDs []int `json:"team_member_ids"`
}

func scanAssignment(s interface{ Scan(...interface{}) error }) (models.ProjectTeamMember, error) {
	var a models.ProjectTeamMember
	var description, deadline sql.NullString
	var looseTeamMemberID, managerID sql.NullInt64
	var managerName, managerPassword sql.NullString
	var position sql.NullString
	err := s.Scan(&a.ID,
		&a.Project.ProjectID, &a.Project.ProjectName, &description, &looseTeamMemberID,
		&deadline, &a.Project.Progress,
		&managerID, &managerName, &managerPassword,
		&a.TeamMember.TeamMemberID, &a.TeamMember.TeamMemberName, &a.TeamMember.Password, &position)
	if err != nil {
		return a, err
	}
	if description.Valid {
		a.Project.Description = &description.String
	}
	if looseTeamMemberID.Valid {
		tm := int(looseTeamMemberID.Int64)
		a.Project.TeamMemberID = &tm
	}
	if deadline.Valid {
		a.Project.Deadline = &deadline.String
	}
	if managerID.Valid {
		a.Project.Manager = &models.Manager{
			ManagerID: int(managerID.Int64),
			Name:      managerName.String,
			Password:  managerPassword.String,
		}
	}
	if position.Valid {
		a.TeamMember.Position = &position.String
	}
	return a, nil
}

// insertAssignment resolves both sides, inserts the row and returns it with
// nested project and team member. Resolution and duplicate failures come back
// as plain errors whose text names the offending id.
func insertAssignment(projectID, teamMemberID int) (models.ProjectTeamMember, error) {
	var a models.ProjectTeamMember

	var exists int
	err := config.DB.QueryRow("SELECT 1 FROM projects WHERE project_id = $1", projectID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return a, fmt.Errorf("Project with id %d does not exist", projectID)
	}
	if err != nil {
		return a, err
	}
	err = config.DB.QueryRow("SELECT 1 FROM team_members WHERE team_member_id = $1", teamMemberID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return a, fmt.Errorf("Team member with id %d does not exist", teamMemberID)
	}
	if err != nil {
		return a, err
	}

	var id int
	err = config.DB.QueryRow(
		"INSERT INTO project_team_members (project_id, team_member_id) VALUES ($1, $2) RETURNING id",
		projectID, teamMemberID).Scan(&id)
	if repository.IsUniqueViolation(err) {
		return a, fmt.Errorf("Team member %d is already assigned to project %d", teamMemberID, projectID)
	}
	if err != nil {
		return a, err
	}

	return scanAssignment(config.DB.QueryRow(assignmentSelect+" WHERE ptm.id = $1", id))
}

func ListAssignments(c *fiber.Ctx) error {
	rows, err := config.DB.Query(assignmentSelect + " ORDER BY ptm.id")
	if err != nil {
		logger.ErrorLogger.Error("Error fetching assignments", zap.Error(err))
		return serverError(c, "Error fetching assignments")
	}
	defer rows.Close()

	assignments := []models.ProjectTeamMember{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning assignments", zap.Error(err))
			return serverError(c, "Error scanning assignments")
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over assignments", zap.Error(err))
		return serverError(c, "Error iterating over assignments")
	}
	return c.JSON(assignments)
}

func ListAssignmentsByProject(c *fiber.Ctx) error {
	projectID, err := c.ParamsInt("projectId")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	rows, err := config.DB.Query(assignmentSelect+" WHERE ptm.project_id = $1 ORDER BY ptm.id", projectID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching assignments", zap.Error(err))
		return serverError(c, "Error fetching assignments")
	}
	defer rows.Close()

	assignments := []models.ProjectTeamMember{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning assignments", zap.Error(err))
			return serverError(c, "Error scanning assignments")
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over assignments", zap.Error(err))
		return serverError(c, "Error iterating over assignments")
	}
	return c.JSON(assignments)
}

func CreateAssignment(c *fiber.Ctx) error {
	var req AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create assignment", zap.Error(err))
		return badRequest(c)
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	assignment, err := insertAssignment(*req.ProjectID, *req.TeamMemberID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating assignment", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	logger.AuditLogger.Info("Assignment created",
		zap.Int("project_id", *req.ProjectID), zap.Int("team_member_id", *req.TeamMemberID))
	return c.Status(fiber.StatusCreated).JSON(assignment)
}

// BulkCreateAssignments assigns several team members to one project. Each id
// is attempted independently; failures are collected next to the successes
// and the status is 201 as soon as at least one row was created.
func BulkCreateAssignments(c *fiber.Ctx) error {
	var req BulkAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in bulk create assignments", zap.Error(err))
		return badRequest(c)
	}
	if req.ProjectID == nil || len(req.TeamMemberIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "project_id and team_member_ids are required",
		})
	}

	created := []models.ProjectTeamMember{}
	bulkErrors := []string{}
	for _, teamMemberID := range req.TeamMemberIDs {
		assignment, err := insertAssignment(*req.ProjectID, teamMemberID)
		if err != nil {
			bulkErrors = append(bulkErrors, fmt.Sprintf("Team member %d: %s", teamMemberID, err.Error()))
			continue
		}
		created = append(created, assignment)
	}

	status := fiber.StatusCreated
	if len(created) == 0 {
		status = fiber.StatusBadRequest
	}
	logger.AuditLogger.Info("Bulk assignment finished",
		zap.Int("project_id", *req.ProjectID),
		zap.Int("created", len(created)), zap.Int("failed", len(bulkErrors)))
	return c.Status(status).JSON(fiber.Map{
		"created": created,
		"errors":  bulkErrors,
	})
}

func DeleteAssignment(c *fiber.Ctx) error {
	assignmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	res, err := config.DB.Exec("DELETE FROM project_team_members WHERE id = $1", assignmentID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting assignment", zap.Error(err))
		return serverError(c, "Error deleting assignment")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	logger.AuditLogger.Info("Assignment deleted", zap.Int("id", assignmentID))
	return c.SendStatus(fiber.StatusNoContent)
}
