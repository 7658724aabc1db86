package scheduler

import (
	"fmt"

	"github.com/plancal/plancal/internal/dateutil"
	"github.com/plancal/plancal/models"
)

// DeleteMode selects the deletion semantics for a member of a recurring
// series. A plain non-recurring entity is deleted unconditionally whatever
// the mode.
type DeleteMode string

const (
	// DeleteSingle removes one instance and records its anchor date in the
	// template's exclusion set so it is never regenerated.
	DeleteSingle DeleteMode = "single"
	// DeleteFuture truncates the series: the target and every later sibling
	// are removed and the template's recurrence end is capped to the day
	// before the target's anchor. Applied to the template itself it deletes
	// the whole series.
	DeleteFuture DeleteMode = "future"
)

// ParseDeleteMode validates a mode string. The empty string means single.
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch DeleteMode(s) {
	case "", DeleteSingle:
		return DeleteSingle, nil
	case DeleteFuture:
		return DeleteFuture, nil
	default:
		return "", fmt.Errorf("invalid delete mode %q (expected single or future)", s)
	}
}

// DeleteProject removes a project by id with the given mode and persists
// the collection when it changed. A missing id is a silent no-op.
func (s *Scheduler) DeleteProject(id string, mode DeleteMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.LoadProjects()
	if err != nil {
		return fmt.Errorf("delete project: load: %w", err)
	}
	projects, changed := resolveDeletion(projects, id, mode)
	if !changed {
		return nil
	}
	if err := s.store.SaveProjects(projects); err != nil {
		return fmt.Errorf("delete project: save: %w", err)
	}
	s.logger.Debug("project deleted", "id", id, "mode", mode)
	return nil
}

// DeleteTodo removes a todo by id with the given mode and persists the
// collection when it changed. A missing id is a silent no-op.
func (s *Scheduler) DeleteTodo(id string, mode DeleteMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.store.LoadTodos()
	if err != nil {
		return fmt.Errorf("delete todo: load: %w", err)
	}
	todos, changed := resolveDeletion(todos, id, mode)
	if !changed {
		return nil
	}
	if err := s.store.SaveTodos(todos); err != nil {
		return fmt.Errorf("delete todo: save: %w", err)
	}
	s.logger.Debug("todo deleted", "id", id, "mode", mode)
	return nil
}

// resolveDeletion applies series deletion semantics to the collection and
// reports whether anything changed. When the target id does not resolve the
// collection is returned untouched.
func resolveDeletion[T models.Schedulable[T]](collection []T, id string, mode DeleteMode) ([]T, bool) {
	idx := -1
	for i, e := range collection {
		if e.EntityID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return collection, false
	}
	target := collection[idx]

	if target.TemplateID() == "" {
		// Template or plain entity. Future mode on a template cascades to
		// every child; single mode leaves children in place as harmless
		// orphans.
		if mode == DeleteFuture {
			kept := collection[:0:0]
			for _, e := range collection {
				if e.EntityID() == id || e.TemplateID() == id {
					continue
				}
				kept = append(kept, e)
			}
			return kept, true
		}
		return append(collection[:idx:idx], collection[idx+1:]...), true
	}

	parentID := target.TemplateID()
	anchor := target.Anchor()

	switch mode {
	case DeleteFuture:
		cutoff := dateutil.AddDays(anchor, -1)
		kept := collection[:0:0]
		for _, e := range collection {
			if e.EntityID() == parentID {
				kept = append(kept, e.WithRecurrenceEnd(cutoff))
				continue
			}
			if e.TemplateID() == parentID && e.Anchor() >= anchor {
				continue
			}
			kept = append(kept, e)
		}
		return kept, true
	default:
		// Single: exclude the anchor on the parent so the materializer
		// never regenerates it. A dangling parent reference just deletes.
		kept := collection[:0:0]
		for _, e := range collection {
			if e.EntityID() == id {
				continue
			}
			if e.EntityID() == parentID {
				kept = append(kept, e.WithExcludedDate(anchor))
				continue
			}
			kept = append(kept, e)
		}
		return kept, true
	}
}
