// Package storage provides abstractions for the document store holding users and tasks.
package storage

import (
	"context"

	"github.com/mmynk/todolist/internal/models"
)

// Collection names shared by all backends.
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// Store defines the document store operations used by the account and task services.
// This abstraction allows swapping backends (SQLite, MongoDB) without changing the
// service layer.
type Store interface {
	// CreateUser inserts a new user document.
	// The user.ID field will be populated by the store.
	CreateUser(ctx context.Context, user *models.User) error

	// FindUsersByUsername returns every user whose username equals username.
	// An empty slice (not an error) means no match.
	FindUsersByUsername(ctx context.Context, username string) ([]*models.User, error)

	// FindUsersByCredentials returns every user whose username and password both
	// equal the given values.
	FindUsersByCredentials(ctx context.Context, username, password string) ([]*models.User, error)

	// ListTasks returns the full task collection of a user in the store's natural order.
	ListTasks(ctx context.Context, userID string) ([]models.Task, error)

	// AddTask inserts a task under the given user.
	// The task.ID field will be populated by the store.
	AddTask(ctx context.Context, userID string, task *models.Task) error

	// FindTasks returns the user's tasks whose triple equals match's triple.
	FindTasks(ctx context.Context, userID string, match models.Task) ([]models.Task, error)

	// UpdateTask overwrites the triple of one task.
	// Returns ErrNotFound if the task does not exist under the user.
	UpdateTask(ctx context.Context, userID, taskID string, fields models.Task) error

	// DeleteTask removes one task.
	// Returns ErrNotFound if the task does not exist under the user.
	DeleteTask(ctx context.Context, userID, taskID string) error

	// Close releases any resources held by the store.
	Close() error
}
