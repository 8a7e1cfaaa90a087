// Package tasks implements the per-user task operations: list, add, update and delete.
//
// Every operation first resolves the owner by username, then acts on the
// owner's task collection. The two steps are not atomic.
package tasks

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/todolist/internal/auth"
	"github.com/mmynk/todolist/internal/models"
	"github.com/mmynk/todolist/internal/storage"
)

var (
	// ErrUserNotFound is returned when no user has the given username.
	ErrUserNotFound = errors.New("user not found")

	// ErrAmbiguousUser is returned when more than one user has the given username.
	ErrAmbiguousUser = errors.New("username matches more than one user")
)

// TaskStorage defines the persistence operations the manager needs.
type TaskStorage interface {
	FindUsersByUsername(ctx context.Context, username string) ([]*models.User, error)
	ListTasks(ctx context.Context, userID string) ([]models.Task, error)
	AddTask(ctx context.Context, userID string, task *models.Task) error
	FindTasks(ctx context.Context, userID string, match models.Task) ([]models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID string, fields models.Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// Manager performs task CRUD on behalf of a username.
type Manager struct {
	store  TaskStorage
	logger *slog.Logger
}

// NewManager creates a task manager over the given store.
func NewManager(store TaskStorage, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger}
}

// ValidateTask rejects a task with an empty item.
func ValidateTask(task models.Task) error {
	if task.Item == "" {
		return &auth.ValidationError{Field: "item", Message: "Item cannot be empty", Reason: auth.ErrRequired}
	}
	return nil
}

// resolveUser finds the single user with the given username.
func (m *Manager) resolveUser(ctx context.Context, username string) (*models.User, error) {
	users, err := m.store.FindUsersByUsername(ctx, username)
	if err != nil {
		m.logger.Error("Error finding user", "username", username, "error", err)
		return nil, storage.Remote("find user", err)
	}

	switch len(users) {
	case 0:
		m.logger.Warn("No user for username", "username", username)
		return nil, ErrUserNotFound
	case 1:
		return users[0], nil
	default:
		m.logger.Warn("Username is not unique", "username", username, "matches", len(users))
		return nil, ErrAmbiguousUser
	}
}

// List returns all of the user's tasks in store order.
func (m *Manager) List(ctx context.Context, username string) ([]models.Task, error) {
	user, err := m.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	tasks, err := m.store.ListTasks(ctx, user.ID)
	if err != nil {
		m.logger.Error("Error loading tasks", "username", username, "error", err)
		return nil, storage.Remote("list tasks", err)
	}

	m.logger.Debug("Loaded tasks", "username", username, "count", len(tasks))
	return tasks, nil
}

// Add inserts one task under the user.
func (m *Manager) Add(ctx context.Context, username string, task models.Task) error {
	if err := ValidateTask(task); err != nil {
		return err
	}

	user, err := m.resolveUser(ctx, username)
	if err != nil {
		return err
	}

	task.ID = ""
	if err := m.store.AddTask(ctx, user.ID, &task); err != nil {
		m.logger.Error("Error adding task", "username", username, "error", err)
		return storage.Remote("add task", err)
	}

	m.logger.Info("Task added", "username", username, "task_id", task.ID)
	return nil
}

// Update applies fields to every task whose triple equals old's triple and
// returns how many were updated. Zero matches is not an error.
func (m *Manager) Update(ctx context.Context, username string, old, fields models.Task) (int, error) {
	if err := ValidateTask(fields); err != nil {
		return 0, err
	}

	user, err := m.resolveUser(ctx, username)
	if err != nil {
		return 0, err
	}

	matches, err := m.store.FindTasks(ctx, user.ID, old)
	if err != nil {
		m.logger.Error("Error finding task to update", "username", username, "error", err)
		return 0, storage.Remote("find tasks", err)
	}

	updated := 0
	for _, task := range matches {
		if err := m.store.UpdateTask(ctx, user.ID, task.ID, fields); err != nil {
			m.logger.Error("Error updating task", "username", username, "task_id", task.ID, "error", err)
			return updated, storage.Remote("update task", err)
		}
		updated++
	}

	m.logger.Info("Tasks updated", "username", username, "count", updated)
	return updated, nil
}

// Delete removes every task whose triple equals task's triple and returns
// how many were deleted. Zero matches is not an error.
func (m *Manager) Delete(ctx context.Context, username string, task models.Task) (int, error) {
	user, err := m.resolveUser(ctx, username)
	if err != nil {
		return 0, err
	}

	matches, err := m.store.FindTasks(ctx, user.ID, task)
	if err != nil {
		m.logger.Error("Error finding task to delete", "username", username, "error", err)
		return 0, storage.Remote("find tasks", err)
	}

	deleted := 0
	for _, match := range matches {
		if err := m.store.DeleteTask(ctx, user.ID, match.ID); err != nil {
			m.logger.Error("Error deleting task", "username", username, "task_id", match.ID, "error", err)
			return deleted, storage.Remote("delete task", err)
		}
		deleted++
	}

	m.logger.Info("Tasks deleted", "username", username, "count", deleted)
	return deleted, nil
}
