package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"todo-board/internal/models"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Storage abstracts task persistence. An empty owner means "any owner".
type Storage interface {
	Create(ctx context.Context, params models.CreateTaskParams) (*models.Task, error)
	List(ctx context.Context, filter models.Filter, owner string) ([]models.Task, error)
	Get(ctx context.Context, id int64, owner string) (*models.Task, error)

	// SetCompleted and Edit return ErrTaskNotFound when no row matches.
	SetCompleted(ctx context.Context, id int64, completed bool, owner string) error
	Edit(ctx context.Context, id int64, description, category, owner string) error

	// Delete is idempotent: deleting a missing task is not an error.
	Delete(ctx context.Context, id int64, owner string) error
	ClearCompleted(ctx context.Context, owner string) (int64, error)
	Count(ctx context.Context) (int64, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// MemoryStorage keeps tasks in process memory. Used by tests and DB_BACKEND=memory.
type MemoryStorage struct {
	mu     sync.Mutex
	tasks  map[int64]models.Task
	nextID int64
	now    func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tasks:  make(map[int64]models.Task),
		nextID: 1,
		now:    time.Now,
	}
}

func (m *MemoryStorage) Create(_ context.Context, params models.CreateTaskParams) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := models.Task{
		ID:          m.nextID,
		Description: params.Description,
		Category:    params.Category,
		Priority:    params.Priority,
		Due:         params.Due,
		CreatedAt:   m.now().UTC(),
		Owner:       params.Owner,
	}
	m.tasks[task.ID] = task
	m.nextID++

	return &task, nil
}

func (m *MemoryStorage) List(_ context.Context, filter models.Filter, owner string) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := filter.Completed()
	tasks := make([]models.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if !ownerMatches(task, owner) {
			continue
		}
		if want != nil && task.Completed != *want {
			continue
		}
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID > tasks[j].ID })
	return tasks, nil
}

func (m *MemoryStorage) Get(_ context.Context, id int64, owner string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || !ownerMatches(task, owner) {
		return nil, ErrTaskNotFound
	}
	return &task, nil
}

func (m *MemoryStorage) SetCompleted(_ context.Context, id int64, completed bool, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || !ownerMatches(task, owner) {
		return ErrTaskNotFound
	}
	task.Completed = completed
	m.tasks[id] = task
	return nil
}

func (m *MemoryStorage) Edit(_ context.Context, id int64, description, category, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || !ownerMatches(task, owner) {
		return ErrTaskNotFound
	}
	task.Description = description
	task.Category = category
	m.tasks[id] = task
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, id int64, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if task, ok := m.tasks[id]; ok && ownerMatches(task, owner) {
		delete(m.tasks, id)
	}
	return nil
}

func (m *MemoryStorage) ClearCompleted(_ context.Context, owner string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for id, task := range m.tasks {
		if task.Completed && ownerMatches(task, owner) {
			delete(m.tasks, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStorage) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.tasks)), nil
}

func (m *MemoryStorage) Migrate(context.Context) error { return nil }
func (m *MemoryStorage) Ping(context.Context) error    { return nil }
func (m *MemoryStorage) Close() error                  { return nil }

func ownerMatches(task models.Task, owner string) bool {
	return owner == "" || task.Owner == owner
}
