package service

import (
	"context"
	"errors"
	"fmt"

	"task_tracker/internal/model"
	"task_tracker/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService provides admin-facing user management
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users from repo: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user in repo: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
