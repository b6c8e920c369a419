package models

import "time"

// DateFormat is the wire format for Project deadlines.
const DateFormat = "2006-01-02"

type Admin struct {
	AdminID  int    `json:"admin_id"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type Manager struct {
	ManagerID int    `json:"manager_id"`
	Name      string `json:"name"`
	Password  string `json:"password"`
}

type TeamMember struct {
	TeamMemberID   int     `json:"team_member_id"`
	TeamMemberName string  `json:"team_member_name"`
	Password       string  `json:"password"`
	Position       *string `json:"position"`
}

// Project embeds its Manager as a nested object on reads. TeamMemberID is a
// loose integer attribute, not a foreign key.
type Project struct {
	ProjectID    int      `json:"project_id"`
	ProjectName  string   `json:"project_name"`
	Description  *string  `json:"description"`
	Manager      *Manager `json:"manager"`
	TeamMemberID *int     `json:"team_member_id"`
	Deadline     *string  `json:"deadline"`
	Progress     int      `json:"progress"`
}

type Task struct {
	TaskID       int      `json:"task_id"`
	TaskName     string   `json:"task_name"`
	Manager      *Manager `json:"manager"`
	TeamMemberID *int     `json:"team_member_id"`
	Priority     string   `json:"priority"`
	Status       string   `json:"status"`
}

// ProjectTeamMember is one assignment row linking a project to a team member.
type ProjectTeamMember struct {
	ID         int        `json:"id"`
	Project    Project    `json:"project"`
	TeamMember TeamMember `json:"team_member"`
}

type Help struct {
	HelpID      int        `json:"help_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Number      string     `json:"number"`
	Subject     string     `json:"subject"`
	Description *string    `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
}

// User is the legacy entity kept for backward compatibility.
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}
