package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/todolist/internal/models"
)

const userColumns = "id, username, email, password, name, phone, address, created_at"

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		user.Name,
		user.Phone,
		user.Address,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindUsersByUsername retrieves every user with the given username.
func (s *SQLiteStore) FindUsersByUsername(ctx context.Context, username string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ? ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find users by username: %w", err)
	}
	return scanUsers(rows)
}

// FindUsersByCredentials retrieves every user with the given username and password.
func (s *SQLiteStore) FindUsersByCredentials(ctx context.Context, username, password string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ? AND password = ? ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to find users by credentials: %w", err)
	}
	return scanUsers(rows)
}

// scanUsers drains rows into user models and closes them.
func scanUsers(rows *sql.Rows) ([]*models.User, error) {
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.Password,
			&user.Name,
			&user.Phone,
			&user.Address,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
