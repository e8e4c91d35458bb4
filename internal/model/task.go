// Package model defines the task and user records shared across the
// application, matching the gateway's wire format.
package model

import "time"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Importance ranks a task.
type Importance string

const (
	ImportanceHigh   Importance = "High"
	ImportanceMedium Importance = "Medium"
	ImportanceLow    Importance = "Low"
)

// ValidStatus reports whether s is one of the three known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ValidImportance reports whether i is one of the three known levels.
func ValidImportance(i Importance) bool {
	switch i {
	case ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	}
	return false
}

// Task is a single task record. Field tags follow the gateway's JSON
// representation: the owner is "userId" and the due date is "due", a
// plain YYYY-MM-DD string that may be empty.
type Task struct {
	ID         string     `json:"id,omitempty"`
	Title      string     `json:"title"`
	Status     Status     `json:"status"`
	Importance Importance `json:"importance"`
	Due        string     `json:"due"`
	OwnerID    string     `json:"userId"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// User is a stored account record. Password holds the bcrypt hash of the
// account secret, never the plaintext.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	IsActive  bool      `json:"isActive"`
}

// Principal is the authenticated identity of the current session.
type Principal struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	LoginTime time.Time `json:"loginTime"`
}
