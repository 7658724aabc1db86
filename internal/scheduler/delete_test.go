package scheduler

import (
	"slices"
	"testing"

	"github.com/plancal/plancal/models"
)

func weeklySeries() []models.Todo {
	return []models.Todo{
		{ID: "tmpl", Title: "주간 회의", Date: "2024-11-01", Frequency: models.FreqWeekly},
		{ID: "c1", ParentID: "tmpl", Title: "주간 회의", Date: "2024-11-01"},
		{ID: "c2", ParentID: "tmpl", Title: "주간 회의", Date: "2024-11-08"},
		{ID: "c3", ParentID: "tmpl", Title: "주간 회의", Date: "2024-11-15"},
		{ID: "c4", ParentID: "tmpl", Title: "주간 회의", Date: "2024-11-22"},
	}
}

func todoIDs(todos []models.Todo) []string {
	ids := make([]string, 0, len(todos))
	for _, t := range todos {
		ids = append(ids, t.ID)
	}
	return ids
}

func findTodo(t *testing.T, todos []models.Todo, id string) models.Todo {
	t.Helper()
	for _, td := range todos {
		if td.ID == id {
			return td
		}
	}
	t.Fatalf("todo %s not found in %v", id, todoIDs(todos))
	return models.Todo{}
}

func TestDeleteFutureTruncatesSeries(t *testing.T) {
	st := &memStore{todos: weeklySeries()}
	s := newTestScheduler(st)

	if err := s.DeleteTodo("c3", DeleteFuture); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	got := todoIDs(st.todos)
	want := []string{"tmpl", "c1", "c2"}
	if !slices.Equal(got, want) {
		t.Fatalf("collection after future-delete = %v, want %v", got, want)
	}
	tmpl := findTodo(t, st.todos, "tmpl")
	if tmpl.RecurrenceEndDate != "2024-11-14" {
		t.Errorf("recurrence end = %q, want 2024-11-14", tmpl.RecurrenceEndDate)
	}

	// A later maintenance run must not regrow the truncated tail.
	mustRun(t, s, asOf("2024-11-05T09:00:00Z"))
	for _, td := range st.todos {
		if td.ParentID == "tmpl" && td.Date > "2024-11-14" {
			t.Errorf("regenerated truncated instance on %s", td.Date)
		}
	}
}

func TestDeleteSingleRecordsExclusion(t *testing.T) {
	st := &memStore{todos: weeklySeries()}
	s := newTestScheduler(st)

	if err := s.DeleteTodo("c2", DeleteSingle); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	got := todoIDs(st.todos)
	want := []string{"tmpl", "c1", "c3", "c4"}
	if !slices.Equal(got, want) {
		t.Fatalf("collection after single-delete = %v, want %v", got, want)
	}
	tmpl := findTodo(t, st.todos, "tmpl")
	if !slices.Contains(tmpl.RecurrenceExcludedDates, "2024-11-08") {
		t.Errorf("exclusion not recorded: %v", tmpl.RecurrenceExcludedDates)
	}

	// The excluded anchor must never come back.
	mustRun(t, s, asOf("2024-11-05T09:00:00Z"))
	for _, td := range st.todos {
		if td.ParentID == "tmpl" && td.Date == "2024-11-08" {
			t.Error("excluded instance regenerated")
		}
	}
}

func TestDeleteFutureOnTemplateCascades(t *testing.T) {
	st := &memStore{todos: append(weeklySeries(),
		models.Todo{ID: "other", Title: "무관한 일", Date: "2024-11-03"},
	)}
	s := newTestScheduler(st)

	if err := s.DeleteTodo("tmpl", DeleteFuture); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	got := todoIDs(st.todos)
	if !slices.Equal(got, []string{"other"}) {
		t.Errorf("cascade left %v, want [other]", got)
	}
}

func TestDeleteSingleOnTemplateLeavesOrphans(t *testing.T) {
	st := &memStore{todos: weeklySeries()}
	s := newTestScheduler(st)

	if err := s.DeleteTodo("tmpl", DeleteSingle); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	got := todoIDs(st.todos)
	want := []string{"c1", "c2", "c3", "c4"}
	if !slices.Equal(got, want) {
		t.Errorf("children should survive as orphans: %v", got)
	}
}

func TestDeletePlainEntity(t *testing.T) {
	st := &memStore{projects: []models.Project{
		{ID: "p1", Title: "한번만", WebAppPeriodStart: "2024-11-01", Status: models.ProjectActive},
		{ID: "p2", Title: "남는 것", WebAppPeriodStart: "2024-11-02", Status: models.ProjectActive},
	}}
	s := newTestScheduler(st)

	if err := s.DeleteProject("p1", DeleteFuture); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if len(st.projects) != 1 || st.projects[0].ID != "p2" {
		t.Errorf("plain delete left %+v", st.projects)
	}
}

func TestDeleteMissingIDIsNoop(t *testing.T) {
	st := &memStore{todos: weeklySeries()}
	s := newTestScheduler(st)

	if err := s.DeleteTodo("ghost", DeleteSingle); err != nil {
		t.Fatalf("DeleteTodo on missing id errored: %v", err)
	}
	if len(st.todos) != 5 {
		t.Errorf("no-op delete changed the collection: %v", todoIDs(st.todos))
	}
}

func TestParseDeleteMode(t *testing.T) {
	if m, err := ParseDeleteMode(""); err != nil || m != DeleteSingle {
		t.Errorf("empty mode = %q, %v; want single", m, err)
	}
	if m, err := ParseDeleteMode("future"); err != nil || m != DeleteFuture {
		t.Errorf("future mode = %q, %v", m, err)
	}
	if _, err := ParseDeleteMode("all"); err == nil {
		t.Error("invalid mode accepted")
	}
}
