package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task_tracker/internal/model"
	"task_tracker/internal/repository"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskForbidden = errors.New("forbidden: user does not have permission for this action")
)

// conflateMissingAndDenied makes a denied deletion surface as ErrTaskNotFound
// instead of ErrTaskForbidden, so callers cannot probe for the existence of
// tasks they do not own.
const conflateMissingAndDenied = true

// TaskService defines operations for tasks
type TaskService interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	CreateTask(ctx context.Context, userID int, req model.CreateTaskRequest) (*model.Task, error)
	UpdateTask(ctx context.Context, id int64, req model.UpdateTaskRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64, callerID int, callerRole string) error
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks from repo: %w", err)
	}
	return tasks, nil
}

func (s *taskService) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// CreateTask stores a new task owned by the calling user. The owner is
// always the caller; a task cannot be created on behalf of someone else.
func (s *taskService) CreateTask(ctx context.Context, userID int, req model.CreateTaskRequest) (*model.Task, error) {
	status := req.Status
	if status == "" {
		status = model.StatusPending
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	now := time.Now()
	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      status,
		Priority:    priority,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task in repo: %w", err)
	}
	return task, nil
}

// UpdateTask applies a partial update to a task. Note: any authenticated
// caller may update any task by id; only deletion is ownership-checked.
// This asymmetry matches the upstream API this service replaces.
func (s *taskService) UpdateTask(ctx context.Context, id int64, req model.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task for update: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	task.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task in repo: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task if the caller owns it or is an admin.
func (s *taskService) DeleteTask(ctx context.Context, id int64, callerID int, callerRole string) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find task for deletion: %w", err)
	}
	if task == nil {
		return ErrTaskNotFound
	}

	if callerRole != model.RoleAdmin && task.UserID != callerID {
		if conflateMissingAndDenied {
			return ErrTaskNotFound
		}
		return ErrTaskForbidden
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task in repo: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
