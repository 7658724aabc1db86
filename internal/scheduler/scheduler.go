// Package scheduler runs the maintenance pass over the project and todo
// collections: archiving finished projects, pruning aged finished items,
// carrying overdue todos forward, and materializing recurring templates up
// to the rolling horizon.
package scheduler

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plancal/plancal/internal/dateutil"
	"github.com/plancal/plancal/internal/recurrence"
	"github.com/plancal/plancal/models"
	"github.com/plancal/plancal/store"
)

// Policy holds the retention windows for finished items.
type Policy struct {
	// ProjectRetentionDays is how long a finished project may linger in the
	// active collection before the prune step drops it there (the archive
	// copy is permanent).
	ProjectRetentionDays int
	// TodoRetentionDays is how long a finished todo survives before being
	// deleted outright; todos have no archive.
	TodoRetentionDays int
}

// DefaultPolicy returns the stock retention windows.
func DefaultPolicy() Policy {
	return Policy{ProjectRetentionDays: 3, TodoRetentionDays: 14}
}

// Result reports which collections a maintenance run changed and flushed.
// A collection that changed in memory but failed to persist is reported
// unchanged alongside the run's error.
type Result struct {
	ProjectsChanged bool `json:"projectsChanged"`
	TodosChanged    bool `json:"todosChanged"`
	ArchiveChanged  bool `json:"archiveChanged"`
}

// Scheduler orchestrates maintenance runs and series deletions against a
// DataStore. Runs are serialized in-process; the store's own locking covers
// other processes.
type Scheduler struct {
	store  store.DataStore
	policy Policy
	logger *slog.Logger
	newID  func() string

	mu sync.Mutex
}

// New creates a scheduler. Zero retention values in policy fall back to the
// defaults.
func New(st store.DataStore, policy Policy, logger *slog.Logger) *Scheduler {
	def := DefaultPolicy()
	if policy.ProjectRetentionDays <= 0 {
		policy.ProjectRetentionDays = def.ProjectRetentionDays
	}
	if policy.TodoRetentionDays <= 0 {
		policy.TodoRetentionDays = def.TodoRetentionDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:  st,
		policy: policy,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// RunMaintenance executes one maintenance pass as of the given instant.
// Steps run in a fixed order — archive, prune, carry-over, materialize —
// and the collections persist in a fixed order too (archive, projects,
// todos), so a write failure never silently loses an earlier flush. The
// pass is idempotent: a second run with the same now is a no-op.
func (s *Scheduler) RunMaintenance(now time.Time) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := dateutil.Today(now)
	horizonEnd := dateutil.HorizonEnd(now)

	projects, err := s.store.LoadProjects()
	if err != nil {
		return Result{}, fmt.Errorf("maintenance: load projects: %w", err)
	}
	archive, err := s.store.LoadArchivedProjects()
	if err != nil {
		return Result{}, fmt.Errorf("maintenance: load archive: %w", err)
	}
	todos, err := s.store.LoadTodos()
	if err != nil {
		return Result{}, fmt.Errorf("maintenance: load todos: %w", err)
	}

	var projectsChanged, todosChanged, archiveChanged bool

	projects, archive, moved, appended := archiveFinished(projects, archive)
	projectsChanged = projectsChanged || moved
	archiveChanged = archiveChanged || appended

	projects, pruned := pruneFinishedProjects(projects, now, s.policy.ProjectRetentionDays)
	projectsChanged = projectsChanged || pruned

	todos, pruned = pruneFinishedTodos(todos, now, s.policy.TodoRetentionDays)
	todosChanged = todosChanged || pruned

	todos, carried := carryOverTodos(todos, today)
	todosChanged = todosChanged || carried

	projects, added := materializeAll(projects, func(p models.Project) bool {
		return p.IsTemplate() && p.Status == models.ProjectActive
	}, horizonEnd, s.newID)
	projectsChanged = projectsChanged || added

	todos, added = materializeAll(todos, func(t models.Todo) bool {
		return t.IsTemplate() && !t.IsFinished
	}, horizonEnd, s.newID)
	todosChanged = todosChanged || added

	var res Result
	if archiveChanged {
		if err := s.store.SaveArchivedProjects(archive); err != nil {
			return res, fmt.Errorf("maintenance: save archive: %w", err)
		}
		res.ArchiveChanged = true
	}
	if projectsChanged {
		if err := s.store.SaveProjects(projects); err != nil {
			return res, fmt.Errorf("maintenance: save projects: %w", err)
		}
		res.ProjectsChanged = true
	}
	if todosChanged {
		if err := s.store.SaveTodos(todos); err != nil {
			return res, fmt.Errorf("maintenance: save todos: %w", err)
		}
		res.TodosChanged = true
	}

	s.logger.Debug("maintenance run complete",
		"asOf", today,
		"horizonEnd", horizonEnd,
		"projectsChanged", res.ProjectsChanged,
		"todosChanged", res.TodosChanged,
		"archiveChanged", res.ArchiveChanged,
	)
	return res, nil
}

// archiveFinished moves every finished project out of the active collection
// into the archive, skipping ids the archive already holds. The archive is
// kept sorted by anchor date.
func archiveFinished(active, archive []models.Project) (remaining, merged []models.Project, moved, appended bool) {
	archived := make(map[string]bool, len(archive))
	for _, p := range archive {
		archived[p.ID] = true
	}

	remaining = active[:0:0]
	merged = archive
	for _, p := range active {
		if p.Status != models.ProjectFinished {
			remaining = append(remaining, p)
			continue
		}
		moved = true
		if !archived[p.ID] {
			merged = append(merged, p)
			archived[p.ID] = true
			appended = true
		}
	}
	if appended {
		slices.SortStableFunc(merged, func(a, b models.Project) int {
			return strings.Compare(a.WebAppPeriodStart, b.WebAppPeriodStart)
		})
	}
	return remaining, merged, moved, appended
}

// pruneFinishedProjects drops finished projects whose finish timestamp aged
// past the retention window. After archiveFinished this sweep is normally
// empty; it exists so an active collection restored from an old backup
// cannot resurrect long-finished projects.
func pruneFinishedProjects(projects []models.Project, now time.Time, retentionDays int) ([]models.Project, bool) {
	cutoff := now.Add(-time.Duration(retentionDays) * 24 * time.Hour)
	kept := projects[:0:0]
	for _, p := range projects {
		if p.Status == models.ProjectFinished && p.FinishedAt != nil && p.FinishedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, p)
	}
	return kept, len(kept) != len(projects)
}

// pruneFinishedTodos deletes finished todos older than the retention window.
func pruneFinishedTodos(todos []models.Todo, now time.Time, retentionDays int) ([]models.Todo, bool) {
	cutoff := now.Add(-time.Duration(retentionDays) * 24 * time.Hour)
	kept := todos[:0:0]
	for _, t := range todos {
		if t.IsFinished && t.FinishedAt != nil && t.FinishedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, t)
	}
	return kept, len(kept) != len(todos)
}

// carryOverTodos rewrites every overdue unfinished todo to today's date.
// The original date is discarded. Templates carry over too, which reseeds
// their next materialization pass from today.
func carryOverTodos(todos []models.Todo, today string) ([]models.Todo, bool) {
	changed := false
	for i := range todos {
		if !todos[i].IsFinished && todos[i].Date != "" && todos[i].Date < today {
			todos[i].Date = today
			changed = true
		}
	}
	return todos, changed
}

// materializeAll expands every eligible template in the collection and
// appends the children.
func materializeAll[T models.Schedulable[T]](collection []T, eligible func(T) bool, horizonEnd string, newID func() string) ([]T, bool) {
	var templates []T
	for _, e := range collection {
		if eligible(e) {
			templates = append(templates, e)
		}
	}
	changed := false
	for _, tmpl := range templates {
		children := recurrence.Materialize(tmpl, collection, horizonEnd, newID)
		if len(children) > 0 {
			collection = append(collection, children...)
			changed = true
		}
	}
	return collection, changed
}
