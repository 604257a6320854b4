package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dverney/taskdeck/internal/events"
	"github.com/dverney/taskdeck/internal/export"
	"github.com/dverney/taskdeck/internal/sessions"
	"github.com/dverney/taskdeck/internal/todo"
)

// session resolves the caller's session from the cookie, creating one (and
// setting the cookie) on first contact, and returns a manager over that
// session's snapshot. Each request gets its own manager, mirroring the
// one-interaction-at-a-time model the task core assumes.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (sessions.Session, *todo.Manager, error) {
	var cookieID string
	if c, err := r.Cookie(s.cookieName); err == nil {
		cookieID = c.Value
	}

	sess, created := s.registry.Open(cookieID)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     s.cookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		s.bus.Publish(events.New(events.EventSessionCreated, sess.ID, nil))
	}

	mgr, err := todo.NewManager(s.registry.Snapshot(sess.ID))
	if err != nil {
		return sessions.Session{}, nil, err
	}
	return sess, mgr, nil
}

func taskID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("bad task id %q", raw)
	}
	return id, nil
}

// statusCode maps core errors onto HTTP statuses.
func statusCode(err error) int {
	switch {
	case errors.Is(err, todo.ErrNotFound), errors.Is(err, sessions.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, todo.ErrEmptyTitle), errors.Is(err, todo.ErrBadStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	sess, mgr, err := s.session(w, r)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}

	task, err := mgr.Add(req.Title, req.Description)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	s.bus.Publish(events.New(events.EventTaskCreated, sess.ID, map[string]any{"id": task.ID, "title": task.Title}))
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	_, mgr, err := s.session(w, r)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	var filter *todo.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := todo.ParseStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter = &status
	}

	writeJSON(w, http.StatusOK, mgr.List(filter))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	_, mgr, err := s.session(w, r)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	id, err := taskID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	task, err := mgr.Get(id)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	sess, mgr, err := s.session(w, r)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	id, err := taskID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}

	update := todo.Update{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		status, err := todo.ParseStatus(*req.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		update.Status = &status
	}

	task, err := mgr.Apply(id, update)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	s.bus.Publish(events.New(events.EventTaskUpdated, sess.ID, map[string]any{"id": task.ID, "status": string(task.Status)}))
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	sess, mgr, err := s.session(w, r)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	id, err := taskID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := mgr.Delete(id); err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	s.bus.Publish(events.New(events.EventTaskDeleted, sess.ID, map[string]any{"id": id}))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	_, mgr, err := s.session(w, r)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, mgr.Stats())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, mgr, err := s.session(w, r)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	format := s.defaultFormat
	if raw := r.URL.Query().Get("format"); raw != "" {
		format, err = export.ParseFormat(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	artifact, err := export.Export(mgr.Records(), format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.bus.Publish(events.New(events.EventTaskExported, sess.ID, map[string]any{"format": string(format)}))

	w.Header().Set("Content-Type", format.MIME())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact)
}
