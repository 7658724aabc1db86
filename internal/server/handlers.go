package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/plancal/plancal/internal/scheduler"
	"github.com/plancal/plancal/models"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

// runMaintenanceAfterMutation keeps recurring instances current after any
// entity-level write. A failed run is logged but does not fail the mutation
// that triggered it; the data is already persisted.
func (s *Server) runMaintenanceAfterMutation(op string) {
	if _, err := s.sched.RunMaintenance(s.now()); err != nil {
		s.logger.Error("maintenance after mutation failed", "op", op, "error", err)
	}
}

// --- whole-collection load/save ---

func (s *Server) handleLoadProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.LoadProjects()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleSaveProjects(w http.ResponseWriter, r *http.Request) {
	var projects []models.Project
	if err := json.NewDecoder(r.Body).Decode(&projects); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.SaveProjects(projects); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runMaintenanceAfterMutation("save projects")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLoadTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.store.LoadTodos()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) handleSaveTodos(w http.ResponseWriter, r *http.Request) {
	var todos []models.Todo
	if err := json.NewDecoder(r.Body).Decode(&todos); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.SaveTodos(todos); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runMaintenanceAfterMutation("save todos")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLoadArchive(w http.ResponseWriter, r *http.Request) {
	archived, err := s.store.LoadArchivedProjects()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, archived)
}

func (s *Server) handleSaveArchive(w http.ResponseWriter, r *http.Request) {
	var archived []models.Project
	if err := json.NewDecoder(r.Body).Decode(&archived); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.SaveArchivedProjects(archived); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- entity-level mutations ---

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	if err := models.ValidateStruct(p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	projects, err := s.store.LoadProjects()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.SaveProjects(append(projects, p)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runMaintenanceAfterMutation("create project")
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	patch, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	projects, err := s.store.LoadProjects()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	idx := -1
	for i := range projects {
		if projects[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	prev := projects[idx]
	updated, err := mergePatch(prev, patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated.ID = prev.ID
	if prev.Status != models.ProjectFinished && updated.Status == models.ProjectFinished && updated.FinishedAt == nil {
		now := s.now()
		updated.FinishedAt = &now
	}
	if updated.Status != models.ProjectFinished {
		updated.FinishedAt = nil
	}
	if err := models.ValidateStruct(updated); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	projects[idx] = updated
	if err := s.store.SaveProjects(projects); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runMaintenanceAfterMutation("update project")
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	mode, err := scheduler.ParseDeleteMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.sched.DeleteProject(r.PathValue("id"), mode); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runMaintenanceAfterMutation("delete project")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var t models.Todo
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := models.ValidateStruct(t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todos, err := s.store.LoadTodos()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.SaveTodos(append(todos, t)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runMaintenanceAfterMutation("create todo")
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	patch, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	todos, err := s.store.LoadTodos()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	idx := -1
	for i := range todos {
		if todos[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}

	prev := todos[idx]
	updated, err := mergePatch(prev, patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated.ID = prev.ID
	if !prev.IsFinished && updated.IsFinished && updated.FinishedAt == nil {
		now := s.now()
		updated.FinishedAt = &now
	}
	if !updated.IsFinished {
		updated.FinishedAt = nil
	}
	if err := models.ValidateStruct(updated); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todos[idx] = updated
	if err := s.store.SaveTodos(todos); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runMaintenanceAfterMutation("update todo")
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	mode, err := scheduler.ParseDeleteMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.sched.DeleteTodo(r.PathValue("id"), mode); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runMaintenanceAfterMutation("delete todo")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunMaintenance(w http.ResponseWriter, r *http.Request) {
	res, err := s.sched.RunMaintenance(s.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, maintenanceResponse{Success: true, Result: res})
}

// mergePatch overlays a partial JSON object onto an existing entity. Fields
// absent from the patch keep their current values; an explicit null clears
// a pointer field.
func mergePatch[T any](entity T, patch []byte) (T, error) {
	var out T

	base, err := json.Marshal(entity)
	if err != nil {
		return out, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return out, err
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return out, err
	}
	for k, v := range overlay {
		merged[k] = v
	}
	full, err := json.Marshal(merged)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(full, &out); err != nil {
		return out, err
	}
	return out, nil
}
