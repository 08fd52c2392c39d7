package storage

import (
	"context"
	"fmt"
	"time"
)

const (
	BackendSQLite    = "sqlite"
	BackendSQLiteCGo = "sqlite3"
	BackendPostgres  = "postgres"
	BackendMySQL     = "mysql"
	BackendMemory    = "memory"
)

type Options struct {
	Backend        string
	URL            string
	SQLitePath     string
	ConnectTimeout time.Duration
	PingTimeout    time.Duration
}

// Open connects the configured backend and brings its schema up to date.
func Open(ctx context.Context, opts Options) (Storage, error) {
	var (
		s   Storage
		err error
	)

	switch opts.Backend {
	case BackendSQLite, "":
		s, err = NewSQLiteStorage(DriverModernc, opts.SQLitePath)
	case BackendSQLiteCGo:
		s, err = NewSQLiteStorage(DriverCGo, opts.SQLitePath)
	case BackendPostgres:
		s, err = NewPostgresStorage(ctx, opts.URL, PostgresOptions{
			ConnectTimeout: opts.ConnectTimeout,
			PingTimeout:    opts.PingTimeout,
		})
	case BackendMySQL:
		s, err = NewMySQLStorage(ctx, opts.URL)
	case BackendMemory:
		s = NewMemoryStorage()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
