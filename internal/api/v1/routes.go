package v1

import (
	"pml-backend/internal/api/v1/handlers"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/", handlers.APIOverview)

	// Auth
	api.Post("/admin/login", handlers.AdminLogin)
	api.Post("/manager/login", handlers.ManagerLogin)
	api.Post("/team-member/login", handlers.TeamMemberLogin)

	// User
	userRoutes := api.Group("/users")
	userRoutes.Get("/", handlers.ListUsers)
	userRoutes.Get("/:id", handlers.GetUser)
	userRoutes.Post("/create", handlers.CreateUser)
	userRoutes.Put("/update/:id", handlers.UpdateUser)
	userRoutes.Delete("/delete/:id", handlers.DeleteUser)

	// Help
	helpRoutes := api.Group("/help")
	helpRoutes.Get("/", handlers.ListHelp)
	helpRoutes.Get("/:id", handlers.GetHelp)
	helpRoutes.Post("/create", handlers.CreateHelp)
	helpRoutes.Put("/update/:id", handlers.UpdateHelp)
	helpRoutes.Delete("/delete/:id", handlers.DeleteHelp)

	// Admin
	adminRoutes := api.Group("/admins")
	adminRoutes.Get("/", handlers.ListAdmins)
	adminRoutes.Get("/:id", handlers.GetAdmin)
	adminRoutes.Post("/create", handlers.CreateAdmin)
	adminRoutes.Put("/update/:id", handlers.UpdateAdmin)
	adminRoutes.Delete("/delete/:id", handlers.DeleteAdmin)

	// Manager
	managerRoutes := api.Group("/managers")
	managerRoutes.Get("/", handlers.ListManagers)
	managerRoutes.Get("/:id", handlers.GetManager)
	managerRoutes.Post("/create", handlers.CreateManager)
	managerRoutes.Put("/update/:id", handlers.UpdateManager)
	managerRoutes.Delete("/delete/:id", handlers.DeleteManager)

	// Team Member
	teamMemberRoutes := api.Group("/team-members")
	teamMemberRoutes.Get("/", handlers.ListTeamMembers)
	teamMemberRoutes.Get("/:id", handlers.GetTeamMember)
	teamMemberRoutes.Post("/create", handlers.CreateTeamMember)
	teamMemberRoutes.Put("/update/:id", handlers.UpdateTeamMember)
	teamMemberRoutes.Delete("/delete/:id", handlers.DeleteTeamMember)

	// Project
	projectRoutes := api.Group("/projects")
	projectRoutes.Get("/", handlers.ListProjects)
	projectRoutes.Get("/:id", handlers.GetProject)
	projectRoutes.Post("/create", handlers.CreateProject)
	projectRoutes.Put("/update/:id", handlers.UpdateProject)
	projectRoutes.Patch("/update/:id", handlers.UpdateProject)
	projectRoutes.Delete("/delete/:id", handlers.DeleteProject)

	// Task
	taskRoutes := api.Group("/tasks")
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Post("/create", handlers.CreateTask)
	taskRoutes.Put("/update/:id", handlers.UpdateTask)
	taskRoutes.Delete("/delete/:id", handlers.DeleteTask)

	// Project assignments
	assignmentRoutes := api.Group("/project-team-members")
	assignmentRoutes.Get("/", handlers.ListAssignments)
	assignmentRoutes.Get("/project/:projectId", handlers.ListAssignmentsByProject)
	assignmentRoutes.Post("/create", handlers.CreateAssignment)
	assignmentRoutes.Post("/bulk-create", handlers.BulkCreateAssignments)
	assignmentRoutes.Delete("/delete/:id", handlers.DeleteAssignment)
}
