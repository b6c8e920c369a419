package repository

import (
	"database/sql"
	"fmt"
	"log"
)

func CreateTableIfNotExists(db *sql.DB) {
	query := `
CREATE TABLE IF NOT EXISTS admins (
    admin_id INT PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    password VARCHAR(255) NOT NULL
);

CREATE TABLE IF NOT EXISTS managers (
    manager_id INT PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    password VARCHAR(255) NOT NULL
);

CREATE TABLE IF NOT EXISTS team_members (
    team_member_id INT PRIMARY KEY,
    team_member_name VARCHAR(100) NOT NULL,
    password VARCHAR(255) NOT NULL,
    position VARCHAR(255)
);

CREATE TABLE IF NOT EXISTS projects (
    project_id INT PRIMARY KEY,
    project_name VARCHAR(150) NOT NULL,
    description VARCHAR(200),
    manager_id INT REFERENCES managers (manager_id) ON DELETE CASCADE,
    team_member_id INT,
    deadline DATE,
    progress INT NOT NULL DEFAULT 0 CHECK (progress >= 0 AND progress <= 100)
);

CREATE TABLE IF NOT EXISTS tasks (
    task_id SERIAL PRIMARY KEY,
    task_name VARCHAR(150) NOT NULL,
    manager_id INT REFERENCES managers (manager_id) ON DELETE CASCADE,
    team_member_id INT,
    priority VARCHAR(20) NOT NULL DEFAULT 'medium',
    status VARCHAR(20) NOT NULL DEFAULT 'in_progress'
);

CREATE TABLE IF NOT EXISTS project_team_members (
    id SERIAL PRIMARY KEY,
    project_id INT NOT NULL REFERENCES projects (project_id) ON DELETE CASCADE,
    team_member_id INT NOT NULL REFERENCES team_members (team_member_id) ON DELETE CASCADE,
    UNIQUE (project_id, team_member_id)
);

CREATE TABLE IF NOT EXISTS help (
    help_id INT PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(150) NOT NULL,
    number VARCHAR(20) NOT NULL,
    subject VARCHAR(200) NOT NULL,
    description VARCHAR(500),
    created_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    name VARCHAR(20) NOT NULL,
    number VARCHAR(100) NOT NULL
);
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error creating tables: %v", err)
	} else {
		fmt.Println("Tables 'admins', 'managers', 'team_members', 'projects', 'tasks', 'project_team_members', 'help', 'users' are ready.")
	}
}

func DeleteAllTable(db *sql.DB) {
	query := `
    DROP TABLE IF EXISTS project_team_members;
    DROP TABLE IF EXISTS tasks;
    DROP TABLE IF EXISTS projects;
    DROP TABLE IF EXISTS help;
    DROP TABLE IF EXISTS team_members;
    DROP TABLE IF EXISTS managers;
    DROP TABLE IF EXISTS admins;
    DROP TABLE IF EXISTS users;
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error deleting tables: %v", err)
	}
}
