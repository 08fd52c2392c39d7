package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"todo-board/internal/logger"
	"todo-board/internal/manager"
	"todo-board/internal/models"
)

type pageData struct {
	Tasks   []models.Task
	Filter  models.Filter
	Weather *models.WeatherSnapshot
	Error   string
	Notice  string
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := pageData{
		Filter: models.ParseFilter(r.URL.Query().Get("filter")),
		Notice: r.URL.Query().Get("error"),
	}

	tasks, err := h.tm.ListTasks(ctx, data.Filter, "")
	if err != nil {
		data.Error = "Could not load tasks right now. Please try again later."
		tasks = []models.Task{}
	}
	data.Tasks = tasks

	if h.weather != nil {
		data.Weather = h.weather.Fetch(ctx, h.city)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, data); err != nil {
		logger.Error(ctx, err, "failed to render page")
	}
}

func (h *handlers) addTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	_, err := h.tm.AddTask(r.Context(), models.CreateTaskParams{
		Description: r.PostForm.Get("description"),
		Category:    r.PostForm.Get("category"),
		Priority:    models.Priority(r.PostForm.Get("priority")),
		Due:         r.PostForm.Get("due"),
	})
	if err != nil {
		if errors.Is(err, manager.ErrValidation) {
			redirectWithError(w, r, err)
			return
		}
		http.Error(w, "Error adding task", http.StatusInternalServerError)
		return
	}

	redirectHome(w, r)
}

func (h *handlers) completeTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	h.writeResult(w, r, h.tm.CompleteTask(r.Context(), id, ""), "Error completing task")
}

func (h *handlers) reopenTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	h.writeResult(w, r, h.tm.ReopenTask(r.Context(), id, ""), "Error reopening task")
}

func (h *handlers) editTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	err := h.tm.EditTask(r.Context(), id, r.PostForm.Get("description"), r.PostForm.Get("category"), "")
	h.writeResult(w, r, err, "Error editing task")
}

func (h *handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	h.writeResult(w, r, h.tm.DeleteTask(r.Context(), id, ""), "Error deleting task")
}

func (h *handlers) clearCompleted(w http.ResponseWriter, r *http.Request) {
	_, err := h.tm.ClearCompleted(r.Context(), "")
	h.writeResult(w, r, err, "Error clearing completed tasks")
}

type healthResponse struct {
	Status string `json:"status"`
	Tasks  *int64 `json:"tasks,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	n, err := h.tm.CountTasks(r.Context())
	if err != nil {
		logger.Error(r.Context(), err, "health check failed")
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "error", Error: "database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Tasks: &n})
}

func (h *handlers) apiListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tm.ListTasks(r.Context(), models.ParseFilter(r.URL.Query().Get("filter")), "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load tasks"})
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *handlers) apiAddTask(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	defer r.Body.Close()

	task, err := h.tm.AddTask(r.Context(), models.CreateTaskParams{
		Description: req.Description,
		Category:    req.Category,
		Priority:    models.Priority(req.Priority),
		Due:         req.Due,
	})
	if err != nil {
		if errors.Is(err, manager.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not add task"})
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// writeResult redirects home on success and maps store errors to status codes.
func (h *handlers) writeResult(w http.ResponseWriter, r *http.Request, err error, failure string) {
	switch {
	case err == nil:
		redirectHome(w, r)
	case errors.Is(err, manager.ErrValidation):
		redirectWithError(w, r, err)
	case errors.Is(err, manager.ErrTaskNotFound):
		http.Error(w, "Task not found", http.StatusNotFound)
	default:
		http.Error(w, failure, http.StatusInternalServerError)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, err error) {
	msg := strings.TrimPrefix(err.Error(), manager.ErrValidation.Error()+": ")
	http.Redirect(w, r, "/?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Error().Err(err).Msg("failed to write json response")
	}
}
