package models

import (
	"database/sql"
	"time"
)

// Task is a scenario question row.
type Task struct {
	ID        string         `db:"ID"` // ULID
	Title     string         `db:"TITLE"`
	Scenario  string         `db:"SCENARIO"` // CLOB
	Category  sql.NullString `db:"CATEGORY"`
	CreatedAt time.Time      `db:"CREATED_AT"`
	UpdatedAt time.Time      `db:"UPDATED_AT"`
	DeletedAt sql.NullTime   `db:"DELETED_AT"`
}

// TaskOption is one selectable answer of a task.
type TaskOption struct {
	ID        string       `db:"ID"` // ULID
	TaskID    string       `db:"TASK_ID"`
	Label     string       `db:"LABEL"`
	Body      string       `db:"BODY"` // CLOB
	RiskLevel string       `db:"RISK_LEVEL"`
	Position  int          `db:"POSITION"`
	CreatedAt time.Time    `db:"CREATED_AT"`
	UpdatedAt time.Time    `db:"UPDATED_AT"`
	DeletedAt sql.NullTime `db:"DELETED_AT"`
}
