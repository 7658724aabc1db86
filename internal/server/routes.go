package server

import "net/http"

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	// Whole-collection load/save, the web client's primary surface.
	mux.HandleFunc("GET /api/data/projects", s.handleLoadProjects)
	mux.HandleFunc("POST /api/data/projects", s.handleSaveProjects)
	mux.HandleFunc("GET /api/data/todos", s.handleLoadTodos)
	mux.HandleFunc("POST /api/data/todos", s.handleSaveTodos)
	mux.HandleFunc("GET /api/data/finished-projects", s.handleLoadArchive)
	mux.HandleFunc("POST /api/data/finished-projects", s.handleSaveArchive)

	// Entity-level mutations. Each one triggers a maintenance run so
	// recurring instances appear without waiting for the next tick.
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("POST /api/todos", s.handleCreateTodo)
	mux.HandleFunc("PUT /api/todos/{id}", s.handleUpdateTodo)
	mux.HandleFunc("DELETE /api/todos/{id}", s.handleDeleteTodo)

	mux.HandleFunc("POST /api/maintenance/run", s.handleRunMaintenance)

	return s.corsMiddleware(mux)
}
