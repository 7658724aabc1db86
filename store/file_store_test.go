package store

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/plancal/plancal/models"
)

func setupTestStore(t *testing.T, format string) *FileDataStore {
	t.Helper()

	store := NewFileDataStore(afero.NewMemMapFs(), slog.New(slog.DiscardHandler))
	config := map[string]string{
		"dataDir":        "data",
		"dataFileFormat": format,
	}
	if err := store.Initialize(config); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	return store
}

func TestFileDataStore_MissingCollectionsAreEmpty(t *testing.T) {
	store := setupTestStore(t, "json")
	defer func() { _ = store.Close() }()

	projects, err := store.LoadProjects()
	if err != nil {
		t.Fatalf("LoadProjects failed: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("fresh data dir returned %d projects, want 0", len(projects))
	}

	todos, err := store.LoadTodos()
	if err != nil {
		t.Fatalf("LoadTodos failed: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("fresh data dir returned %d todos, want 0", len(todos))
	}

	archived, err := store.LoadArchivedProjects()
	if err != nil {
		t.Fatalf("LoadArchivedProjects failed: %v", err)
	}
	if len(archived) != 0 {
		t.Errorf("fresh data dir returned %d archived projects, want 0", len(archived))
	}
}

func TestFileDataStore_RoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			store := setupTestStore(t, format)
			defer func() { _ = store.Close() }()

			projects := []models.Project{
				{ID: "p1", Title: "웹앱 개편", WebAppPeriodStart: "2024-11-01", Status: models.ProjectActive},
				{ID: "p2", Title: "정기 점검", WebAppPeriodStart: "2024-11-04", Status: models.ProjectActive, Frequency: models.FreqWeekly},
			}
			if err := store.SaveProjects(projects); err != nil {
				t.Fatalf("SaveProjects failed: %v", err)
			}

			loaded, err := store.LoadProjects()
			if err != nil {
				t.Fatalf("LoadProjects failed: %v", err)
			}
			if len(loaded) != 2 {
				t.Fatalf("got %d projects, want 2", len(loaded))
			}
			if loaded[1].Frequency != models.FreqWeekly {
				t.Errorf("frequency lost in round trip: got %q", loaded[1].Frequency)
			}

			todos := []models.Todo{{ID: "t1", Title: "스트레칭", Date: "2024-11-01", Importance: 3}}
			if err := store.SaveTodos(todos); err != nil {
				t.Fatalf("SaveTodos failed: %v", err)
			}
			loadedTodos, err := store.LoadTodos()
			if err != nil {
				t.Fatalf("LoadTodos failed: %v", err)
			}
			if len(loadedTodos) != 1 || loadedTodos[0].Importance != 3 {
				t.Errorf("todos round trip mismatch: %+v", loadedTodos)
			}
		})
	}
}

func TestFileDataStore_ArchiveIsSeparateFromActive(t *testing.T) {
	store := setupTestStore(t, "json")
	defer func() { _ = store.Close() }()

	active := []models.Project{{ID: "a", Title: "진행중", WebAppPeriodStart: "2024-11-01", Status: models.ProjectActive}}
	finished := []models.Project{{ID: "f", Title: "완료", WebAppPeriodStart: "2024-10-01", Status: models.ProjectFinished}}

	if err := store.SaveProjects(active); err != nil {
		t.Fatalf("SaveProjects failed: %v", err)
	}
	if err := store.SaveArchivedProjects(finished); err != nil {
		t.Fatalf("SaveArchivedProjects failed: %v", err)
	}

	loaded, err := store.LoadProjects()
	if err != nil {
		t.Fatalf("LoadProjects failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "a" {
		t.Errorf("active collection polluted: %+v", loaded)
	}

	archived, err := store.LoadArchivedProjects()
	if err != nil {
		t.Fatalf("LoadArchivedProjects failed: %v", err)
	}
	if len(archived) != 1 || archived[0].ID != "f" {
		t.Errorf("archive collection mismatch: %+v", archived)
	}
}

func TestFileDataStore_MalformedCollectionReadsEmpty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := NewFileDataStore(fsys, slog.New(slog.DiscardHandler))
	if err := store.Initialize(map[string]string{"dataDir": "data"}); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := afero.WriteFile(fsys, filepath.Join("data", "todos.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to plant corrupt file: %v", err)
	}

	todos, err := store.LoadTodos()
	if err != nil {
		t.Fatalf("LoadTodos on corrupt file returned error: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("corrupt collection returned %d todos, want 0", len(todos))
	}

	// The next save must recover the file.
	if err := store.SaveTodos([]models.Todo{{ID: "t1", Title: "복구", Date: "2024-11-01"}}); err != nil {
		t.Fatalf("SaveTodos failed: %v", err)
	}
	todos, err = store.LoadTodos()
	if err != nil || len(todos) != 1 {
		t.Errorf("recovery save not readable: todos=%v err=%v", todos, err)
	}
}

func TestFileDataStore_SaveIsSnapshotReplace(t *testing.T) {
	store := setupTestStore(t, "json")
	defer func() { _ = store.Close() }()

	if err := store.SaveTodos([]models.Todo{
		{ID: "t1", Title: "하나", Date: "2024-11-01"},
		{ID: "t2", Title: "둘", Date: "2024-11-02"},
	}); err != nil {
		t.Fatalf("SaveTodos failed: %v", err)
	}
	if err := store.SaveTodos([]models.Todo{{ID: "t3", Title: "셋", Date: "2024-11-03"}}); err != nil {
		t.Fatalf("SaveTodos failed: %v", err)
	}

	todos, err := store.LoadTodos()
	if err != nil {
		t.Fatalf("LoadTodos failed: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != "t3" {
		t.Errorf("save did not replace the collection: %+v", todos)
	}
}

func TestFileDataStore_NilSliceWritesEmptyArray(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := NewFileDataStore(fsys, slog.New(slog.DiscardHandler))
	if err := store.Initialize(map[string]string{"dataDir": "data"}); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveTodos(nil); err != nil {
		t.Fatalf("SaveTodos(nil) failed: %v", err)
	}
	data, err := afero.ReadFile(fsys, filepath.Join("data", "todos.json"))
	if err != nil {
		t.Fatalf("Failed to read todos file: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("nil slice serialized as %q, want []", string(data))
	}
}

func TestFileDataStore_RejectsUnknownFormat(t *testing.T) {
	store := NewFileDataStore(afero.NewMemMapFs(), slog.New(slog.DiscardHandler))
	err := store.Initialize(map[string]string{"dataDir": "data", "dataFileFormat": "xml"})
	if err == nil {
		t.Fatal("Initialize accepted an unsupported format")
	}
}
