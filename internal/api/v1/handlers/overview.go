package handlers

import "github.com/gofiber/fiber/v2"

// APIOverview lists the available endpoints.
func APIOverview(c *fiber.Ctx) error {
	crud := func(base string) fiber.Map {
		return fiber.Map{
			"List":   "/api/" + base + "/",
			"Detail": "/api/" + base + "/<id>/",
			"Create": "/api/" + base + "/create/",
			"Update": "/api/" + base + "/update/<id>/",
			"Delete": "/api/" + base + "/delete/<id>/",
		}
	}
	return c.JSON(fiber.Map{
		"Users":       crud("users"),
		"Help":        crud("help"),
		"Admins":      crud("admins"),
		"Managers":    crud("managers"),
		"TeamMembers": crud("team-members"),
		"Projects":    crud("projects"),
		"Tasks":       crud("tasks"),
		"ProjectTeamMembers": fiber.Map{
			"List":       "/api/project-team-members/",
			"ByProject":  "/api/project-team-members/project/<project_id>/",
			"Create":     "/api/project-team-members/create/",
			"BulkCreate": "/api/project-team-members/bulk-create/",
			"Delete":     "/api/project-team-members/delete/<id>/",
		},
		"Auth": fiber.Map{
			"AdminLogin":      "/api/admin/login/",
			"ManagerLogin":    "/api/manager/login/",
			"TeamMemberLogin": "/api/team-member/login/",
		},
	})
}
