package repository

import (
	"context"
	"errors"
	"fmt"

	"task_tracker/internal/model"

	"github.com/jackc/pgx/v5"
)

// TaskRepository defines operations for task data
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id int64) (*model.Task, error)
	FindAll(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type taskRepository struct {
	db DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create inserts a new task into the database
func (r *taskRepository) Create(ctx context.Context, t *model.Task) error {
	sql := `INSERT INTO tasks (title, description, due_date, status, priority, user_id, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRow(ctx, sql, t.Title, t.Description, t.DueDate, t.Status, t.Priority, t.UserID, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID
func (r *taskRepository) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	t := &model.Task{}
	sql := `SELECT id, title, description, due_date, status, priority, user_id, created_at, updated_at
            FROM tasks WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.Priority,
		&t.UserID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	return t, nil
}

// FindAll retrieves all tasks, newest first
func (r *taskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	sql := `SELECT id, title, description, due_date, status, priority, user_id, created_at, updated_at
            FROM tasks ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.Priority,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// Update modifies an existing task
func (r *taskRepository) Update(ctx context.Context, t *model.Task) error {
	sql := `UPDATE tasks SET title = $1, description = $2, due_date = $3, status = $4, priority = $5, updated_at = $6
            WHERE id = $7`
	_, err := r.db.Exec(ctx, sql, t.Title, t.Description, t.DueDate, t.Status, t.Priority, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// Delete removes a task by ID and returns the number of rows affected
func (r *taskRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}
	return tag.RowsAffected(), nil
}
