package task

import (
	"github.com/google/uuid"

	"github.com/kbukum/todoapi/database"
)

// Priority orders tasks by importance.
type Priority string

// Status tracks a task through its lifecycle.
type Status string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"

	StatusToBeDone   Status = "TO_BE_DONE"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusToBeDone, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a single to-do item owned by exactly one user.
type Task struct {
	database.BaseModel
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `gorm:"type:text;not null" json:"priority"`
	Status      Status    `gorm:"type:text;not null;default:TO_BE_DONE" json:"status"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
}

// TableName overrides the gorm default.
func (Task) TableName() string { return "tb_tasks" }
