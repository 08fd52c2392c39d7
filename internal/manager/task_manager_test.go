package manager

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"todo-board/internal/models"
	"todo-board/internal/storage"
)

func newTestManager() *TaskManager {
	return NewTaskManager(storage.NewMemoryStorage())
}

func descriptions(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Description)
	}
	return out
}

func TestAddTask(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	task, err := tm.AddTask(ctx, models.CreateTaskParams{Description: "  Buy milk  "})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	if task.ID != 1 {
		t.Errorf("expected ID=1, got %d", task.ID)
	}
	if task.Description != "Buy milk" {
		t.Errorf("description not trimmed: %q", task.Description)
	}
	if task.Category != models.DefaultCategory || task.Priority != models.DefaultPriority {
		t.Errorf("defaults not applied: %+v", task)
	}
	if task.Completed {
		t.Error("new task must not be completed")
	}
	if task.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestAddEmptyTask(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	for _, desc := range []string{"", "   ", "\t\n"} {
		if _, err := tm.AddTask(ctx, models.CreateTaskParams{Description: desc}); !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation for %q, got %v", desc, err)
		}
	}

	tasks, _ := tm.ListTasks(ctx, models.FilterAll, "")
	if len(tasks) != 0 {
		t.Errorf("rejected tasks must not be stored, got %d", len(tasks))
	}
}

func TestAddTaskWithMaxLength(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	validDesc := strings.Repeat("a", MaxDescriptionLength)
	if _, err := tm.AddTask(ctx, models.CreateTaskParams{Description: validDesc}); err != nil {
		t.Errorf("expected %d characters to pass: %v", MaxDescriptionLength, err)
	}

	if _, err := tm.AddTask(ctx, models.CreateTaskParams{Description: validDesc + "a"}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for %d characters, got %v", MaxDescriptionLength+1, err)
	}
}

func TestAddTaskRejectsUnknownPriority(t *testing.T) {
	tm := newTestManager()
	_, err := tm.AddTask(context.Background(), models.CreateTaskParams{Description: "x", Priority: "urgent"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestIDsIncrease(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		task, err := tm.AddTask(ctx, models.CreateTaskParams{Description: "task"})
		if err != nil {
			t.Fatal(err)
		}
		if task.ID <= last {
			t.Fatalf("id %d not greater than previous %d", task.ID, last)
		}
		last = task.ID
		if err := tm.DeleteTask(ctx, task.ID, ""); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExampleScenario(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	milk, err := tm.AddTask(ctx, models.CreateTaskParams{Description: "Buy milk"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tm.AddTask(ctx, models.CreateTaskParams{Description: "  "}); err == nil {
		t.Fatal("expected whitespace description to fail")
	}
	if _, err := tm.AddTask(ctx, models.CreateTaskParams{Description: "Pay rent"}); err != nil {
		t.Fatal(err)
	}

	all, _ := tm.ListTasks(ctx, models.FilterAll, "")
	if got := strings.Join(descriptions(all), ","); got != "Pay rent,Buy milk" {
		t.Fatalf("list(all): got %q", got)
	}

	if err := tm.CompleteTask(ctx, milk.ID, ""); err != nil {
		t.Fatal(err)
	}
	active, _ := tm.ListTasks(ctx, models.FilterActive, "")
	if got := strings.Join(descriptions(active), ","); got != "Pay rent" {
		t.Fatalf("list(active): got %q", got)
	}

	if _, err := tm.ClearCompleted(ctx, ""); err != nil {
		t.Fatal(err)
	}
	all, _ = tm.ListTasks(ctx, models.FilterAll, "")
	if got := strings.Join(descriptions(all), ","); got != "Pay rent" {
		t.Fatalf("list(all) after clear: got %q", got)
	}
}

func TestCompleteThenReopenRestoresTask(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	task, _ := tm.AddTask(ctx, models.CreateTaskParams{
		Description: "Water plants", Category: "Home", Priority: "High", Due: "2024-05-01",
	})

	if err := tm.CompleteTask(ctx, task.ID, ""); err != nil {
		t.Fatal(err)
	}
	if err := tm.ReopenTask(ctx, task.ID, ""); err != nil {
		t.Fatal(err)
	}

	got, err := tm.GetTask(ctx, task.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if *got != *task {
		t.Errorf("task changed after complete/reopen:\n got %+v\nwant %+v", *got, *task)
	}
}

func TestMissingTaskReportsNotFound(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	if err := tm.CompleteTask(ctx, 42, ""); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("complete: expected ErrTaskNotFound, got %v", err)
	}
	if err := tm.ReopenTask(ctx, 42, ""); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("reopen: expected ErrTaskNotFound, got %v", err)
	}
	if err := tm.EditTask(ctx, 42, "x", "y", ""); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("edit: expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	task, _ := tm.AddTask(ctx, models.CreateTaskParams{Description: "temp"})
	for i := 0; i < 2; i++ {
		if err := tm.DeleteTask(ctx, task.ID, ""); err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
	}
	if n, _ := tm.CountTasks(ctx); n != 0 {
		t.Errorf("expected empty store, got %d", n)
	}
}

func TestEditTask(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	task, _ := tm.AddTask(ctx, models.CreateTaskParams{Description: "draft", Category: "Work"})

	if err := tm.EditTask(ctx, task.ID, "   ", "Home", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := tm.EditTask(ctx, task.ID, "final", "", ""); err != nil {
		t.Fatal(err)
	}

	got, _ := tm.GetTask(ctx, task.ID, "")
	if got.Description != "final" || got.Category != models.DefaultCategory {
		t.Errorf("unexpected task after edit: %+v", got)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) || got.Priority != task.Priority {
		t.Errorf("edit touched other fields: %+v", got)
	}
}

func TestOwnerScoping(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	alice, _ := tm.AddTask(ctx, models.CreateTaskParams{Description: "alice", Owner: "a"})
	tm.AddTask(ctx, models.CreateTaskParams{Description: "bob", Owner: "b"})

	if err := tm.CompleteTask(ctx, alice.ID, "b"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("owner mismatch should be not found, got %v", err)
	}
	if err := tm.DeleteTask(ctx, alice.ID, "b"); err != nil {
		t.Fatal(err)
	}

	mine, _ := tm.ListTasks(ctx, models.FilterAll, "a")
	if len(mine) != 1 || mine[0].ID != alice.ID {
		t.Errorf("expected alice's task to survive, got %+v", mine)
	}

	tm.CompleteTask(ctx, alice.ID, "a")
	removed, _ := tm.ClearCompleted(ctx, "b")
	if removed != 0 {
		t.Errorf("clearing b must not touch a's tasks, removed %d", removed)
	}
}

func TestAddTaskMetrics(t *testing.T) {
	originalAddTaskCount := addTaskCount
	originalTaskDescLength := taskDescLength

	registry := prometheus.NewRegistry()

	testAddTaskCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_added_total",
			Help: "Test counter",
		},
		[]string{"status"},
	)

	testTaskDescLength := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todoapp_task_desc_length_bytes",
			Help:    "Test histogram",
			Buckets: []float64{50, 100, 500, 1000},
		},
	)

	registry.MustRegister(testAddTaskCount)
	registry.MustRegister(testTaskDescLength)

	addTaskCount = testAddTaskCount
	taskDescLength = testTaskDescLength

	defer func() {
		addTaskCount = originalAddTaskCount
		taskDescLength = originalTaskDescLength
	}()

	tm := newTestManager()
	ctx := context.Background()

	if _, err := tm.AddTask(ctx, models.CreateTaskParams{Description: "Valid description"}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	if successCount := testutil.ToFloat64(testAddTaskCount.WithLabelValues("success")); successCount != 1 {
		t.Errorf("Expected 1 success, got %v", successCount)
	}

	metrics, err := registry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	foundHistogram := false
	for _, mf := range metrics {
		if mf.GetName() == "todoapp_task_desc_length_bytes" {
			foundHistogram = true
			if mf.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
				t.Error("Histogram should have one sample")
			}
			break
		}
	}
	if !foundHistogram {
		t.Error("Histogram metric not found")
	}

	if _, err := tm.AddTask(ctx, models.CreateTaskParams{Description: ""}); err == nil {
		t.Error("Expected error for empty description")
	}

	if errCount := testutil.ToFloat64(testAddTaskCount.WithLabelValues("error")); errCount != 1 {
		t.Errorf("Expected 1 error, got %v", errCount)
	}
}

func TestClearCompletedMetrics(t *testing.T) {
	tm := newTestManager()
	ctx := context.Background()

	before := testutil.ToFloat64(clearedTaskCount)

	for _, d := range []string{"a", "b", "c"} {
		task, _ := tm.AddTask(ctx, models.CreateTaskParams{Description: d})
		if d != "c" {
			tm.CompleteTask(ctx, task.ID, "")
		}
	}

	removed, err := tm.ClearCompleted(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if got := testutil.ToFloat64(clearedTaskCount) - before; got != 2 {
		t.Errorf("expected cleared counter +2, got %v", got)
	}
}
