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
	"pml-backend/internal/repository"
	"pml-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Project handlers

const projectSelect = `
SELECT p.project_id, p.project_name, p.description, p.team_member_id,
       to_char(p.deadline, 'YYYY-MM-DD'), p.progress,
       m.manager_id, m.name, m.password
FROM projects p
LEFT JOIN managers m ON p.manager_id = m.manager_id`

type ProjectRequest struct {
	ProjectName  string  `json:"project_name" validate:"required"`
	Description  *string `json:"description"`
	ManagerID    *int    `json:"manager_id"`
	TeamMemberID *int    `json:"team_member_id"`
	Deadline     *string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Progress     *int    `json:"progress" validate:"omitempty,gte=0,lte=100"`
}

type ProjectUpdateRequest struct {
	ProjectName  *string `json:"project_name"`
	Description  *string `json:"description"`
	ManagerID    *int    `json:"manager_id"`
	TeamMemberID *int    `json:"team_member_id"`
	Deadline     *string `json:"deadline"`
	Progress     *int    `json:"progress"`
}

func scanProject(s interface{ Scan(...interface{}) error }) (models.Project, error) {
	var p models.Project
	var description, deadline sql.NullString
	var teamMemberID, managerID sql.NullInt64
	var managerName, managerPassword sql.NullString
	err := s.Scan(&p.ProjectID, &p.ProjectName, &description, &teamMemberID,
		&deadline, &p.Progress, &managerID, &managerName, &managerPassword)
	if err != nil {
		return p, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	if teamMemberID.Valid {
		tm := int(teamMemberID.Int64)
		p.TeamMemberID = &tm
	}
	if deadline.Valid {
		p.Deadline = &deadline.String
	}
	if managerID.Valid {
		p.Manager = &models.Manager{
			ManagerID: int(managerID.Int64),
			Name:      managerName.String,
			Password:  managerPassword.String,
		}
	}
	return p, nil
}

func fetchProject(projectID int) (models.Project, error) {
	return scanProject(config.DB.QueryRow(projectSelect+" WHERE p.project_id = $1", projectID))
}

func fetchManager(managerID int) (*models.Manager, error) {
	var m models.Manager
	err := config.DB.QueryRow(
		"SELECT manager_id, name, password FROM managers WHERE manager_id = $1",
		managerID).Scan(&m.ManagerID, &m.Name, &m.Password)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func ListProjects(c *fiber.Ctx) error {
	rows, err := config.DB.Query(projectSelect + " ORDER BY p.project_id")
	if err != nil {
		logger.ErrorLogger.Error("Error fetching projects", zap.Error(err))
		return serverError(c, "Error fetching projects")
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning projects", zap.Error(err))
			return serverError(c, "Error scanning projects")
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over projects", zap.Error(err))
		return serverError(c, "Error iterating over projects")
	}
	return c.JSON(projects)
}

func GetProject(c *fiber.Ctx) error {
	projectID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	// Cache-aside on single-project reads
	cacheKey := fmt.Sprintf("project:%d", projectID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var project models.Project
		if err = json.Unmarshal([]byte(cached), &project); err == nil {
			return c.JSON(project)
		}
	}

	project, err := fetchProject(projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching project", zap.Error(err))
		return serverError(c, "Error fetching project")
	}

	if projectJSON, err := json.Marshal(project); err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, projectJSON, time.Hour)
	}
	return c.JSON(project)
}

func CreateProject(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create project", zap.Error(err))
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
			return serverError(c, "Error creating project")
		}
	}

	progress := 0
	if req.Progress != nil {
		progress = *req.Progress
	}

	id, err := repository.CreateWithAllocatedID(config.DB, "projects", "project_id", func(tx *sql.Tx, id int) error {
		_, err := tx.Exec(
			`INSERT INTO projects (project_id, project_name, description, manager_id, team_member_id, deadline, progress)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, req.ProjectName, req.Description, req.ManagerID, req.TeamMemberID, req.Deadline, progress)
		return err
	})
	if err != nil {
		logger.ErrorLogger.Error("Error creating project", zap.Error(err))
		return serverError(c, "Error creating project")
	}

	logger.AuditLogger.Info("Project created", zap.Int("project_id", id))
	return c.Status(fiber.StatusCreated).JSON(models.Project{
		ProjectID:    id,
		ProjectName:  req.ProjectName,
		Description:  req.Description,
		Manager:      manager,
		TeamMemberID: req.TeamMemberID,
		Deadline:     req.Deadline,
		Progress:     progress,
	})
}

func UpdateProject(c *fiber.Ctx) error {
	projectID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var exists int
	err = config.DB.QueryRow("SELECT 1 FROM projects WHERE project_id = $1", projectID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching project", zap.Error(err))
		return serverError(c, "Error fetching project")
	}

	var supplied map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &supplied); err != nil {
		logger.ErrorLogger.Error("Bad request in update project", zap.Error(err))
		return badRequest(c)
	}
	// PATCH is the explicit partial indicator. A PUT carrying fewer than 3
	// fields still merges, so clients that send only the changed fields do
	// not wipe the rest of the row.
	partial := c.Method() == fiber.MethodPatch || len(supplied) < 3

	var req ProjectUpdateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		logger.ErrorLogger.Error("Bad request in update project", zap.Error(err))
		return badRequest(c)
	}

	if !partial && req.ProjectName == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": fiber.Map{"project_name": "This field is required."},
		})
	}
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": fiber.Map{"progress": "Ensure this value is between 0 and 100."},
		})
	}
	if req.Deadline != nil {
		if _, err := time.Parse(models.DateFormat, *req.Deadline); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": fiber.Map{"deadline": fmt.Sprintf("Date must use the %s format.", models.DateFormat)},
			})
		}
	}

	set := []string{}
	args := []interface{}{}
	addSet := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if _, ok := supplied["project_name"]; ok && req.ProjectName != nil {
		addSet("project_name", *req.ProjectName)
	}
	if _, ok := supplied["description"]; ok {
		addSet("description", req.Description)
	}
	if _, ok := supplied["team_member_id"]; ok {
		addSet("team_member_id", req.TeamMemberID)
	}
	if _, ok := supplied["deadline"]; ok {
		addSet("deadline", req.Deadline)
	}
	if _, ok := supplied["progress"]; ok && req.Progress != nil {
		addSet("progress", *req.Progress)
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
				return serverError(c, "Error updating project")
			}
			addSet("manager_id", *req.ManagerID)
		} else {
			addSet("manager_id", nil)
		}
	}

	if len(set) > 0 {
		args = append(args, projectID)
		query := fmt.Sprintf("UPDATE projects SET %s WHERE project_id = $%d",
			strings.Join(set, ", "), len(args))
		if _, err := config.DB.Exec(query, args...); err != nil {
			logger.ErrorLogger.Error("Error updating project", zap.Error(err))
			return serverError(c, "Error updating project")
		}
	}

	project, err := fetchProject(projectID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated project", zap.Error(err))
		return serverError(c, "Error fetching updated project")
	}

	cacheKey := fmt.Sprintf("project:%d", projectID)
	config.RedisClient.Del(config.Ctx, cacheKey)
	if projectJSON, err := json.Marshal(project); err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, projectJSON, time.Hour)
	}

	logger.AuditLogger.Info("Project updated",
		zap.Int("project_id", projectID), zap.Bool("partial", partial))
	return c.JSON(project)
}

func DeleteProject(c *fiber.Ctx) error {
	projectID, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	res, err := config.DB.Exec("DELETE FROM projects WHERE project_id = $1", projectID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting project", zap.Error(err))
		return serverError(c, "Error deleting project")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	config.RedisClient.Del(config.Ctx, fmt.Sprintf("project:%d", projectID))
	logger.AuditLogger.Info("Project deleted", zap.Int("project_id", projectID))
	return c.SendStatus(fiber.StatusNoContent)
}
