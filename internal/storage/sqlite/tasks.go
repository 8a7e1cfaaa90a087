package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/todolist/internal/models"
	"github.com/mmynk/todolist/internal/storage"
)

// ListTasks returns all tasks of a user in insertion order.
func (s *SQLiteStore) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, label, item, full_description FROM tasks WHERE user_id = ? ORDER BY rowid",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return scanTasks(rows)
}

// AddTask inserts a task under the given user.
func (s *SQLiteStore) AddTask(ctx context.Context, userID string, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (id, user_id, label, item, full_description) VALUES (?, ?, ?, ?, ?)",
		task.ID, userID, task.Label, task.Item, task.FullDescription,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

// FindTasks returns the user's tasks matching the triple of match exactly.
func (s *SQLiteStore) FindTasks(ctx context.Context, userID string, match models.Task) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, item, full_description FROM tasks
		 WHERE user_id = ? AND label = ? AND item = ? AND full_description = ?
		 ORDER BY rowid`,
		userID, match.Label, match.Item, match.FullDescription,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return scanTasks(rows)
}

// UpdateTask overwrites label, item and full_description of one task.
func (s *SQLiteStore) UpdateTask(ctx context.Context, userID, taskID string, fields models.Task) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET label = ?, item = ?, full_description = ? WHERE id = ? AND user_id = ?",
		fields.Label, fields.Item, fields.FullDescription, taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return expectOneRow(result, taskID)
}

// DeleteTask removes one task.
func (s *SQLiteStore) DeleteTask(ctx context.Context, userID, taskID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND user_id = ?",
		taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return expectOneRow(result, taskID)
}

func expectOneRow(result sql.Result, taskID string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", taskID, storage.ErrNotFound)
	}
	return nil
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Label, &task.Item, &task.FullDescription); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}
