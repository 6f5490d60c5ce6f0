package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marioghenriques/carreira/internal/domain"
)

// CreateUser inserts a new user and returns its generated id.
// Email uniqueness and level domains are enforced by the schema; a
// duplicate email fails with a ConstraintError (ConstraintUnique) and
// an undefined level with ConstraintCheck.
func (s *Store) CreateUser(ctx context.Context, name, email string, current, target domain.Level) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, current_level, target_level, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, name, email, string(current), string(target), s.timestamp())
	if err != nil {
		return 0, wrapWrite("create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user: last insert id: %w", err)
	}
	return id, nil
}

// GetUserByEmail returns the user with the given email, or nil when no
// such user exists. Absence is a normal outcome, not an error.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, current_level, target_level, created_at
		FROM users
		WHERE email = ?
	`, email)

	user, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID returns the user with the given id, or nil when absent.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, current_level, target_level, created_at
		FROM users
		WHERE id = ?
	`, id)

	user, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, current_level, target_level, created_at
		FROM users
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return users, nil
}

// DeleteUser removes a user and all dependent rows in one transaction:
// intentions first, then assessments, then the user row. Partial
// failure rolls back everything; no orphans are left behind.
// Deleting a user that does not exist is a no-op.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete user: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, "DELETE FROM course_intentions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete user: intentions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM assessments WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete user: assessments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID); err != nil {
		return fmt.Errorf("delete user: user row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete user: commit: %w", err)
	}
	return nil
}

// scanUser scans a user row through the given scan function so it works
// for both sql.Row and sql.Rows.
func scanUser(scan func(...any) error) (*domain.User, error) {
	var user domain.User
	var current, target, createdAt string

	if err := scan(&user.ID, &user.Name, &user.Email, &current, &target, &createdAt); err != nil {
		return nil, err
	}

	user.CurrentLevel = domain.Level(current)
	user.TargetLevel = domain.Level(target)

	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = t

	return &user, nil
}
