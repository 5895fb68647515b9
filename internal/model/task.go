package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const dateLayout = "2006-01-02"

// Date is a day-granularity timestamp. It serializes as "YYYY-MM-DD" and
// accepts both that layout and full RFC3339 timestamps on input, matching
// what the SPA sends.
type Date struct {
	time.Time
}

// NewDate builds a Date truncated to the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	s = s[1 : len(s)-1]
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	// Keep the calendar day as written by the client, not the UTC day
	// the instant falls on.
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

// Scan implements sql.Scanner so DATE columns decode into Date.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return fmt.Errorf("failed to scan date %q: %w", v, err)
		}
		d.Time = t
		return nil
	case nil:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Value implements driver.Valuer for DATE column parameters.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Task represents a work item owned by a user
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"` // Pointer for optional field
	DueDate     Date      `json:"dueDate"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	UserID      int       `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTaskRequest is used for creating a new task. Status and priority
// default to Pending/Medium when omitted.
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	DueDate     Date    `json:"dueDate" binding:"required"`
	Status      string  `json:"status" binding:"omitempty,oneof=Pending 'In Progress' Completed"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=Low Medium High"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=100"` // Pointers to allow partial updates
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	DueDate     *Date   `json:"dueDate,omitempty"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=Pending 'In Progress' Completed"`
	Priority    *string `json:"priority,omitempty" binding:"omitempty,oneof=Low Medium High"`
}
