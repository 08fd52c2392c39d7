package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"todo-board/internal/logger"
	"todo-board/internal/models"
	"todo-board/internal/storage"
)

const MaxDescriptionLength = 1000

var (
	ErrValidation   = errors.New("validation error")
	ErrTaskNotFound = storage.ErrTaskNotFound
)

var (
	addTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_added_total",
			Help: "Total number of AddTask operations",
		},
		[]string{"status"},
	)

	updateTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_updated_total",
			Help: "Total number of task mutations by operation",
		},
		[]string{"op", "status"},
	)

	clearedTaskCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_cleared_total",
			Help: "Total number of tasks removed by ClearCompleted",
		},
	)

	taskDescLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todoapp_task_desc_length_bytes",
			Help:    "Length distribution of task descriptions",
			Buckets: []float64{50, 100, 500, 1000},
		},
	)

	addTaskDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todoapp_add_task_duration_seconds",
			Help:    "Duration of AddTask operation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	updateTaskDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todoapp_update_task_duration_seconds",
			Help:    "Duration of task mutations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// TaskManager validates input and applies defaults before delegating to Storage.
type TaskManager struct {
	storage storage.Storage
}

func NewTaskManager(s storage.Storage) *TaskManager {
	return &TaskManager{storage: s}
}

func validationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", validationErrorf("description is required")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return "", validationErrorf("description cannot exceed %d characters", MaxDescriptionLength)
	}
	return description, nil
}

func (tm *TaskManager) AddTask(ctx context.Context, params models.CreateTaskParams) (*models.Task, error) {
	startTime := time.Now()
	defer func() {
		addTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	description, err := validateDescription(params.Description)
	if err != nil {
		addTaskCount.WithLabelValues("error").Inc()
		return nil, err
	}
	params.Description = description

	priority, ok := models.ParsePriority(string(params.Priority))
	if !ok {
		addTaskCount.WithLabelValues("error").Inc()
		return nil, validationErrorf("unknown priority %q", params.Priority)
	}
	params.Priority = priority

	params.Category = strings.TrimSpace(params.Category)
	if params.Category == "" {
		params.Category = models.DefaultCategory
	}
	params.Due = strings.TrimSpace(params.Due)

	task, err := tm.storage.Create(ctx, params)
	if err != nil {
		addTaskCount.WithLabelValues("error").Inc()
		logger.Error(ctx, err, "failed to create task")
		return nil, err
	}

	addTaskCount.WithLabelValues("success").Inc()
	taskDescLength.Observe(float64(len(description)))
	logger.Info(ctx, "created task", "task_id", task.ID, "owner", task.Owner)

	return task, nil
}

func (tm *TaskManager) ListTasks(ctx context.Context, filter models.Filter, owner string) ([]models.Task, error) {
	tasks, err := tm.storage.List(ctx, filter, owner)
	if err != nil {
		logger.Error(ctx, err, "failed to list tasks", "filter", string(filter))
		return nil, err
	}
	logger.Debug(ctx, "listed tasks", "filter", string(filter), "count", len(tasks))
	return tasks, nil
}

func (tm *TaskManager) GetTask(ctx context.Context, id int64, owner string) (*models.Task, error) {
	return tm.storage.Get(ctx, id, owner)
}

func (tm *TaskManager) CompleteTask(ctx context.Context, id int64, owner string) error {
	return tm.mutate(ctx, "complete", id, func() error {
		return tm.storage.SetCompleted(ctx, id, true, owner)
	})
}

func (tm *TaskManager) ReopenTask(ctx context.Context, id int64, owner string) error {
	return tm.mutate(ctx, "reopen", id, func() error {
		return tm.storage.SetCompleted(ctx, id, false, owner)
	})
}

// EditTask overwrites description and category; an empty category resets it to the default.
func (tm *TaskManager) EditTask(ctx context.Context, id int64, description, category, owner string) error {
	return tm.mutate(ctx, "edit", id, func() error {
		description, err := validateDescription(description)
		if err != nil {
			return err
		}
		category = strings.TrimSpace(category)
		if category == "" {
			category = models.DefaultCategory
		}
		return tm.storage.Edit(ctx, id, description, category, owner)
	})
}

func (tm *TaskManager) DeleteTask(ctx context.Context, id int64, owner string) error {
	return tm.mutate(ctx, "delete", id, func() error {
		return tm.storage.Delete(ctx, id, owner)
	})
}

func (tm *TaskManager) ClearCompleted(ctx context.Context, owner string) (int64, error) {
	startTime := time.Now()
	defer func() {
		updateTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	removed, err := tm.storage.ClearCompleted(ctx, owner)
	if err != nil {
		updateTaskCount.WithLabelValues("clear", "error").Inc()
		logger.Error(ctx, err, "failed to clear completed tasks", "owner", owner)
		return 0, err
	}

	updateTaskCount.WithLabelValues("clear", "success").Inc()
	clearedTaskCount.Add(float64(removed))
	logger.Info(ctx, "cleared completed tasks", "removed", removed, "owner", owner)
	return removed, nil
}

func (tm *TaskManager) CountTasks(ctx context.Context) (int64, error) {
	return tm.storage.Count(ctx)
}

func (tm *TaskManager) Ping(ctx context.Context) error {
	return tm.storage.Ping(ctx)
}

func (tm *TaskManager) mutate(ctx context.Context, op string, id int64, fn func() error) error {
	startTime := time.Now()
	defer func() {
		updateTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	if err := fn(); err != nil {
		updateTaskCount.WithLabelValues(op, "error").Inc()
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrTaskNotFound) {
			logger.Warn(ctx, "task "+op+" rejected", "task_id", id, "reason", err.Error())
		} else {
			logger.Error(ctx, err, "task "+op+" failed", "task_id", id)
		}
		return err
	}

	updateTaskCount.WithLabelValues(op, "success").Inc()
	logger.Info(ctx, "task "+op, "task_id", id)
	return nil
}
