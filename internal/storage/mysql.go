package storage

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"todo-board/internal/logger"
)

type MySQLStorage struct {
	*sqlStorage
}

// NewMySQLStorage connects using a go-sql-driver DSN such as
// "user:pass@tcp(127.0.0.1:3306)/todo". parseTime and clientFoundRows are forced on.
func NewMySQLStorage(ctx context.Context, dsn string) (*MySQLStorage, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true

	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	logger.Info(ctx, "connected to mysql", "addr", cfg.Addr, "database", cfg.DBName)
	return &MySQLStorage{sqlStorage: &sqlStorage{db: db}}, nil
}

func (s *MySQLStorage) Migrate(ctx context.Context) error {
	const createTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    description TEXT NOT NULL,
    category VARCHAR(100) NOT NULL DEFAULT 'General',
    priority VARCHAR(20) NOT NULL DEFAULT 'Medium',
    due VARCHAR(100) NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    owner VARCHAR(191) NOT NULL DEFAULT '',
    INDEX idx_tasks_owner (owner, completed)
)`

	if _, err := s.db.ExecContext(ctx, createTasksTable); err != nil {
		return fmt.Errorf("create table tasks: %w", err)
	}
	return nil
}
