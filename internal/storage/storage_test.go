package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"todo-board/internal/models"
)

// testBackends returns a constructor per backend reachable from this test run.
func testBackends(t *testing.T) map[string]func(t *testing.T) Storage {
	backends := map[string]func(t *testing.T) Storage{
		"memory": func(t *testing.T) Storage {
			return NewMemoryStorage()
		},
		"sqlite": func(t *testing.T) Storage {
			return openForTest(t, Options{
				Backend:    BackendSQLite,
				SQLitePath: filepath.Join(t.TempDir(), "nested", "tasks.db"),
			})
		},
	}

	if url := os.Getenv("TEST_POSTGRES_URL"); url != "" {
		backends["postgres"] = func(t *testing.T) Storage {
			s := openForTest(t, Options{Backend: BackendPostgres, URL: url})
			truncate(t, s)
			return s
		}
	}
	if dsn := os.Getenv("TEST_MYSQL_DSN"); dsn != "" {
		backends["mysql"] = func(t *testing.T) Storage {
			s := openForTest(t, Options{Backend: BackendMySQL, URL: dsn})
			truncate(t, s)
			return s
		}
	}
	return backends
}

func openForTest(t *testing.T, opts Options) Storage {
	t.Helper()
	s, err := Open(context.Background(), opts)
	if err != nil {
		t.Fatalf("open %s: %v", opts.Backend, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func truncate(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()
	tasks, err := s.List(ctx, models.FilterAll, "")
	if err != nil {
		t.Fatal(err)
	}
	for _, task := range tasks {
		if err := s.Delete(ctx, task.ID, ""); err != nil {
			t.Fatal(err)
		}
	}
}

func mustCreate(t *testing.T, s Storage, desc, owner string) *models.Task {
	t.Helper()
	task, err := s.Create(context.Background(), models.CreateTaskParams{
		Description: desc,
		Category:    models.DefaultCategory,
		Priority:    models.DefaultPriority,
		Owner:       owner,
	})
	if err != nil {
		t.Fatalf("create %q: %v", desc, err)
	}
	return task
}

func ids(tasks []models.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func TestStorageBackends(t *testing.T) {
	for name, open := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("CreateAndList", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()

				first := mustCreate(t, s, "Buy milk", "")
				second, err := s.Create(ctx, models.CreateTaskParams{
					Description: "Pay rent",
					Category:    "Home",
					Priority:    models.PriorityHigh,
					Due:         "amanhã",
				})
				if err != nil {
					t.Fatal(err)
				}
				if second.ID <= first.ID {
					t.Fatalf("ids must increase: %d then %d", first.ID, second.ID)
				}

				tasks, err := s.List(ctx, models.FilterAll, "")
				if err != nil {
					t.Fatal(err)
				}
				if len(tasks) != 2 || tasks[0].ID != second.ID || tasks[1].ID != first.ID {
					t.Fatalf("expected newest first, got %v", ids(tasks))
				}

				got := tasks[0]
				if got.Description != "Pay rent" || got.Category != "Home" ||
					got.Priority != models.PriorityHigh || got.Due != "amanhã" || got.Completed {
					t.Errorf("stored task mismatch: %+v", got)
				}
				if got.CreatedAt.IsZero() {
					t.Error("created_at not stored")
				}
			})

			t.Run("SetCompletedAndFilters", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()

				a := mustCreate(t, s, "a", "")
				b := mustCreate(t, s, "b", "")
				c := mustCreate(t, s, "c", "")
				if err := s.SetCompleted(ctx, b.ID, true, ""); err != nil {
					t.Fatal(err)
				}

				all, _ := s.List(ctx, models.FilterAll, "")
				active, _ := s.List(ctx, models.FilterActive, "")
				completed, _ := s.List(ctx, models.FilterCompleted, "")

				if len(completed) != 1 || completed[0].ID != b.ID || !completed[0].Completed {
					t.Fatalf("completed filter: %v", ids(completed))
				}
				if len(active) != 2 || active[0].ID != c.ID || active[1].ID != a.ID {
					t.Fatalf("active filter: %v", ids(active))
				}

				// active == all minus completed
				want := map[int64]bool{}
				for _, task := range all {
					want[task.ID] = true
				}
				for _, task := range completed {
					delete(want, task.ID)
				}
				gotIDs := ids(active)
				sort.Slice(gotIDs, func(i, j int) bool { return gotIDs[i] < gotIDs[j] })
				if len(gotIDs) != len(want) {
					t.Fatalf("active %v != all-completed %v", gotIDs, want)
				}
				for _, id := range gotIDs {
					if !want[id] {
						t.Fatalf("active has unexpected id %d", id)
					}
				}

				// setting the same value again still matches the row
				if err := s.SetCompleted(ctx, b.ID, true, ""); err != nil {
					t.Errorf("repeat SetCompleted: %v", err)
				}
				if err := s.SetCompleted(ctx, b.ID, false, ""); err != nil {
					t.Fatal(err)
				}
				reopened, _ := s.Get(ctx, b.ID, "")
				if reopened.Completed || reopened.Description != "b" {
					t.Errorf("reopen: %+v", reopened)
				}
			})

			t.Run("NotFound", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()

				if err := s.SetCompleted(ctx, 9999, true, ""); !errors.Is(err, ErrTaskNotFound) {
					t.Errorf("SetCompleted: expected ErrTaskNotFound, got %v", err)
				}
				if err := s.Edit(ctx, 9999, "x", "y", ""); !errors.Is(err, ErrTaskNotFound) {
					t.Errorf("Edit: expected ErrTaskNotFound, got %v", err)
				}
				if _, err := s.Get(ctx, 9999, ""); !errors.Is(err, ErrTaskNotFound) {
					t.Errorf("Get: expected ErrTaskNotFound, got %v", err)
				}
				if err := s.Delete(ctx, 9999, ""); err != nil {
					t.Errorf("Delete of missing task should be a no-op, got %v", err)
				}
			})

			t.Run("EditAndDelete", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()

				task := mustCreate(t, s, "draft", "")
				if err := s.Edit(ctx, task.ID, "final", "Work", ""); err != nil {
					t.Fatal(err)
				}
				got, err := s.Get(ctx, task.ID, "")
				if err != nil {
					t.Fatal(err)
				}
				if got.Description != "final" || got.Category != "Work" || got.Priority != task.Priority {
					t.Errorf("edit: %+v", got)
				}

				if err := s.Delete(ctx, task.ID, ""); err != nil {
					t.Fatal(err)
				}
				if err := s.Delete(ctx, task.ID, ""); err != nil {
					t.Fatalf("second delete: %v", err)
				}
				if n, _ := s.Count(ctx); n != 0 {
					t.Errorf("expected 0 tasks, got %d", n)
				}
			})

			t.Run("ClearCompleted", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()

				for i, desc := range []string{"a", "b", "c", "d"} {
					task := mustCreate(t, s, desc, "")
					if i%2 == 0 {
						if err := s.SetCompleted(ctx, task.ID, true, ""); err != nil {
							t.Fatal(err)
						}
					}
				}

				removed, err := s.ClearCompleted(ctx, "")
				if err != nil {
					t.Fatal(err)
				}
				if removed != 2 {
					t.Errorf("expected 2 removed, got %d", removed)
				}

				left, _ := s.List(ctx, models.FilterAll, "")
				if len(left) != 2 {
					t.Fatalf("expected 2 left, got %d", len(left))
				}
				for _, task := range left {
					if task.Completed {
						t.Errorf("completed task survived: %+v", task)
					}
				}
			})

			t.Run("OwnerScoping", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()

				mine := mustCreate(t, s, "mine", "alice")
				theirs := mustCreate(t, s, "theirs", "bob")

				if err := s.SetCompleted(ctx, mine.ID, true, "bob"); !errors.Is(err, ErrTaskNotFound) {
					t.Errorf("foreign owner: expected ErrTaskNotFound, got %v", err)
				}
				s.SetCompleted(ctx, mine.ID, true, "alice")
				s.SetCompleted(ctx, theirs.ID, true, "bob")

				if removed, _ := s.ClearCompleted(ctx, "alice"); removed != 1 {
					t.Errorf("expected one of alice's tasks cleared, got %d", removed)
				}
				left, _ := s.List(ctx, models.FilterAll, "")
				if len(left) != 1 || left[0].ID != theirs.ID || left[0].Owner != "bob" {
					t.Errorf("expected only bob's task, got %+v", left)
				}
				if got, _ := s.List(ctx, models.FilterAll, "alice"); len(got) != 0 {
					t.Errorf("alice should see nothing, got %v", ids(got))
				}
			})
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), Options{Backend: "oracle"}); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestSQLiteAddsOwnerColumnToLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	s, err := NewSQLiteStorage(DriverModernc, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	const legacyTable = `
	CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'General',
		priority TEXT NOT NULL DEFAULT 'Medium',
		due TEXT,
		completed BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := s.db.ExecContext(ctx, legacyTable); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.ExecContext(ctx, "INSERT INTO tasks (description) VALUES ('old task')"); err != nil {
		t.Fatal(err)
	}

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	tasks, err := s.List(ctx, models.FilterAll, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Description != "old task" || tasks[0].Owner != "" || tasks[0].Due != "" {
		t.Fatalf("legacy row not readable: %+v", tasks)
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN(DriverModernc, "data/x.db"); got != "data/x.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)" {
		t.Errorf("modernc dsn: %q", got)
	}
	if got := sqliteDSN(DriverCGo, "data/x.db?cache=shared"); got != "data/x.db?cache=shared&_busy_timeout=5000&_journal_mode=WAL" {
		t.Errorf("cgo dsn: %q", got)
	}
}
