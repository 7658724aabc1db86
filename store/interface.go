package store

import "github.com/plancal/plancal/models"

// DataStore is the persistence contract the scheduler and the HTTP API work
// against. Collections are loaded and saved whole; every save is a full
// snapshot replace, never a partial write.
//
// Implementations must treat a missing, empty, or unreadable collection as
// an empty slice rather than an error, so a fresh data directory behaves
// like an empty calendar.
type DataStore interface {
	LoadProjects() ([]models.Project, error)
	SaveProjects([]models.Project) error

	// Archived projects are the finished-projects collection: finished
	// projects moved out of the active list by the maintenance run.
	LoadArchivedProjects() ([]models.Project, error)
	SaveArchivedProjects([]models.Project) error

	LoadTodos() ([]models.Todo, error)
	SaveTodos([]models.Todo) error

	// Close releases any resources held by the store, such as file locks.
	Close() error
}
