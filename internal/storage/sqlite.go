package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"todo-board/internal/logger"
)

const (
	// DriverModernc is the pure-Go driver registered by modernc.org/sqlite.
	DriverModernc = "sqlite"
	// DriverCGo is the cgo driver registered by github.com/mattn/go-sqlite3.
	DriverCGo = "sqlite3"
)

type SQLiteStorage struct {
	*sqlStorage
}

func NewSQLiteStorage(driver, dbPath string) (*SQLiteStorage, error) {
	if driver == "" {
		driver = DriverModernc
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sqlx.Open(driver, sqliteDSN(driver, dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	logger.Info(context.Background(), "sqlite database opened", "path", dbPath, "driver", driver)
	return &SQLiteStorage{sqlStorage: &sqlStorage{db: db}}, nil
}

func sqliteDSN(driver, dbPath string) string {
	if dbPath == ":memory:" {
		return dbPath
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	if driver == DriverCGo {
		return dbPath + sep + "_busy_timeout=5000&_journal_mode=WAL"
	}
	return dbPath + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	const createTasksTable = `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'General',
		priority TEXT NOT NULL DEFAULT 'Medium',
		due TEXT NOT NULL DEFAULT '',
		completed BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		owner TEXT NOT NULL DEFAULT ''
	)`

	if _, err := s.db.ExecContext(ctx, createTasksTable); err != nil {
		return fmt.Errorf("create table tasks: %w", err)
	}

	// databases created before tasks were owner-scoped lack the column
	var hasOwner int
	err := s.db.GetContext(ctx, &hasOwner,
		"SELECT COUNT(*) FROM pragma_table_info('tasks') WHERE name = 'owner'")
	if err != nil {
		return fmt.Errorf("inspect tasks table: %w", err)
	}
	if hasOwner == 0 {
		if _, err := s.db.ExecContext(ctx, "ALTER TABLE tasks ADD COLUMN owner TEXT NOT NULL DEFAULT ''"); err != nil {
			return fmt.Errorf("add owner column: %w", err)
		}
		logger.Info(ctx, "added owner column to tasks")
	}

	if _, err := s.db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks (owner, completed)"); err != nil {
		return fmt.Errorf("create owner index: %w", err)
	}
	return nil
}
