package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"todo-board/internal/logger"
	"todo-board/internal/models"
)

type PostgresStorage struct {
	pool *pgxpool.Pool
}

type PostgresOptions struct {
	ConnectTimeout time.Duration
	PingTimeout    time.Duration
}

func NewPostgresStorage(ctx context.Context, connURL string, opts PostgresOptions) (*PostgresStorage, error) {
	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if opts.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info(ctx, "connected to postgres",
		"host", poolCfg.ConnConfig.Host,
		"port", poolCfg.ConnConfig.Port,
	)
	return &PostgresStorage{pool: pool}, nil
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStorage) Migrate(ctx context.Context) error {
	const createTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
    id BIGSERIAL PRIMARY KEY,
    description TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT 'General',
    priority TEXT NOT NULL DEFAULT 'Medium',
    due TEXT NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    owner TEXT NOT NULL DEFAULT ''
)`
	const addOwnerColumn = `ALTER TABLE tasks ADD COLUMN IF NOT EXISTS owner TEXT NOT NULL DEFAULT ''`
	const createOwnerIndex = `CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks (owner, completed)`

	for _, stmt := range []string{createTasksTable, addOwnerColumn, createOwnerIndex} {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return nil
}

func (s *PostgresStorage) Create(ctx context.Context, params models.CreateTaskParams) (*models.Task, error) {
	const insertTaskQuery = `
INSERT INTO tasks (description, category, priority, due, owner)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, completed, created_at
`
	task := models.Task{
		Description: params.Description,
		Category:    params.Category,
		Priority:    params.Priority,
		Due:         params.Due,
		Owner:       params.Owner,
	}

	err := s.pool.QueryRow(
		ctx,
		insertTaskQuery,
		task.Description,
		task.Category,
		string(task.Priority),
		task.Due,
		task.Owner,
	).Scan(
		&task.ID,
		&task.Completed,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &task, nil
}

func (s *PostgresStorage) List(ctx context.Context, filter models.Filter, owner string) ([]models.Task, error) {
	const selectTasksQuery = `
SELECT id, description, category, priority, due, completed, created_at, owner
FROM tasks
WHERE ($1::text = '' OR owner = $1)
  AND ($2::boolean IS NULL OR completed = $2)
ORDER BY id DESC
`
	rows, err := s.pool.Query(ctx, selectTasksQuery, owner, filter.Completed())
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}

	tasks, err := pgx.CollectRows(rows, scanPostgresTask)
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	return tasks, nil
}

func (s *PostgresStorage) Get(ctx context.Context, id int64, owner string) (*models.Task, error) {
	const selectTaskQuery = `
SELECT id, description, category, priority, due, completed, created_at, owner
FROM tasks
WHERE id = $1 AND ($2::text = '' OR owner = $2)
`
	rows, err := s.pool.Query(ctx, selectTaskQuery, id, owner)
	if err != nil {
		return nil, fmt.Errorf("select task %d: %w", id, err)
	}

	task, err := pgx.CollectExactlyOneRow(rows, scanPostgresTask)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task %d: %w", id, err)
	}
	return &task, nil
}

func (s *PostgresStorage) SetCompleted(ctx context.Context, id int64, completed bool, owner string) error {
	const updateTaskStatusQuery = `
UPDATE tasks
SET completed = $1
WHERE id = $2 AND ($3::text = '' OR owner = $3)
`
	tag, err := s.pool.Exec(ctx, updateTaskStatusQuery, completed, id, owner)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *PostgresStorage) Edit(ctx context.Context, id int64, description, category, owner string) error {
	const updateTaskQuery = `
UPDATE tasks
SET description = $1,
    category = $2
WHERE id = $3 AND ($4::text = '' OR owner = $4)
`
	tag, err := s.pool.Exec(ctx, updateTaskQuery, description, category, id, owner)
	if err != nil {
		return fmt.Errorf("edit task %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, id int64, owner string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND ($2::text = '' OR owner = $2)
`
	if _, err := s.pool.Exec(ctx, deleteTaskQuery, id, owner); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func (s *PostgresStorage) ClearCompleted(ctx context.Context, owner string) (int64, error) {
	const clearCompletedQuery = `
DELETE FROM tasks
WHERE completed = TRUE AND ($1::text = '' OR owner = $1)
`
	tag, err := s.pool.Exec(ctx, clearCompletedQuery, owner)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks").Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func scanPostgresTask(row pgx.CollectableRow) (models.Task, error) {
	var task models.Task
	var priority string
	err := row.Scan(
		&task.ID,
		&task.Description,
		&task.Category,
		&priority,
		&task.Due,
		&task.Completed,
		&task.CreatedAt,
		&task.Owner,
	)
	task.Priority = models.Priority(priority)
	return task, err
}
