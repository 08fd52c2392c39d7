package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"todo-board/internal/models"
)

// sqlStorage holds the queries shared by the database/sql backends (SQLite, MySQL).
// Both use "?" placeholders and accept Go bools for the completed column.
type sqlStorage struct {
	db *sqlx.DB
}

const selectTaskColumns = `
SELECT id, description, category, priority, COALESCE(due, '') AS due,
       completed, created_at, COALESCE(owner, '') AS owner
FROM tasks`

func (s *sqlStorage) Close() error {
	return s.db.Close()
}

func (s *sqlStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlStorage) Create(ctx context.Context, params models.CreateTaskParams) (*models.Task, error) {
	const query = `
INSERT INTO tasks (description, category, priority, due, completed, created_at, owner)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	task := models.Task{
		Description: params.Description,
		Category:    params.Category,
		Priority:    params.Priority,
		Due:         params.Due,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		Owner:       params.Owner,
	}

	result, err := s.db.ExecContext(ctx, query,
		task.Description, task.Category, string(task.Priority), task.Due,
		false, task.CreatedAt, task.Owner,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	task.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read inserted id: %w", err)
	}
	return &task, nil
}

func (s *sqlStorage) List(ctx context.Context, filter models.Filter, owner string) ([]models.Task, error) {
	query := selectTaskColumns + " WHERE (? = '' OR owner = ?)"
	args := []interface{}{owner, owner}

	if completed := filter.Completed(); completed != nil {
		query += " AND completed = ?"
		args = append(args, *completed)
	}
	query += " ORDER BY id DESC"

	tasks := []models.Task{}
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	return tasks, nil
}

func (s *sqlStorage) Get(ctx context.Context, id int64, owner string) (*models.Task, error) {
	query := selectTaskColumns + " WHERE id = ? AND (? = '' OR owner = ?)"

	var task models.Task
	err := s.db.GetContext(ctx, &task, query, id, owner, owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("select task %d: %w", id, err)
	}
	return &task, nil
}

func (s *sqlStorage) SetCompleted(ctx context.Context, id int64, completed bool, owner string) error {
	const query = "UPDATE tasks SET completed = ? WHERE id = ? AND (? = '' OR owner = ?)"
	return s.execOne(ctx, query, completed, id, owner, owner)
}

func (s *sqlStorage) Edit(ctx context.Context, id int64, description, category, owner string) error {
	const query = "UPDATE tasks SET description = ?, category = ? WHERE id = ? AND (? = '' OR owner = ?)"
	return s.execOne(ctx, query, description, category, id, owner, owner)
}

func (s *sqlStorage) Delete(ctx context.Context, id int64, owner string) error {
	const query = "DELETE FROM tasks WHERE id = ? AND (? = '' OR owner = ?)"
	if _, err := s.db.ExecContext(ctx, query, id, owner, owner); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func (s *sqlStorage) ClearCompleted(ctx context.Context, owner string) (int64, error) {
	const query = "DELETE FROM tasks WHERE completed = ? AND (? = '' OR owner = ?)"
	result, err := s.db.ExecContext(ctx, query, true, owner, owner)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return result.RowsAffected()
}

func (s *sqlStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM tasks"); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// execOne runs an UPDATE and maps zero affected rows to ErrTaskNotFound.
// MySQL reports 0 for rows whose values did not change, so the DSN must set
// clientFoundRows=true (see NewMySQLStorage).
func (s *sqlStorage) execOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
