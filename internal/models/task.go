package models

import (
	"strings"
	"time"
)

const (
	DefaultCategory = "General"
	DefaultPriority = PriorityMedium
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority accepts any casing of Low/Medium/High.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, true
	case "medium", "":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	}
	return "", false
}

type Task struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Priority    Priority  `json:"priority" db:"priority"`
	Due         string    `json:"due,omitempty" db:"due"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Owner       string    `json:"owner,omitempty" db:"owner"`
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps unknown values to FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterActive:
		return FilterActive
	case FilterCompleted:
		return FilterCompleted
	}
	return FilterAll
}

// Completed returns the completion value the filter restricts to, or nil for all.
func (f Filter) Completed() *bool {
	var v bool
	switch f {
	case FilterActive:
		v = false
	case FilterCompleted:
		v = true
	default:
		return nil
	}
	return &v
}

// CreateTaskParams carries the form fields of a new task.
type CreateTaskParams struct {
	Description string
	Category    string
	Priority    Priority
	Due         string
	Owner       string
}

// CreateTaskRequest is the JSON body accepted by the API.
type CreateTaskRequest struct {
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Due         string `json:"due,omitempty"`
}
