package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"

	"github.com/plancal/plancal/models"
)

const (
	dataDirKey        = "dataDir"
	dataFileFormatKey = "dataFileFormat"

	defaultDataDir    = ".plancal"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"

	projectsFile = "projects"
	todosFile    = "todos"
	archiveFile  = "finished-projects"

	lockFileName = "plancal.lock"
)

// collectionFile wraps a collection slice so the YAML/TOML encoders have a
// named top-level document; JSON stays a bare array to match the original
// wire format.
type projectList struct {
	Projects []models.Project `json:"projects" yaml:"projects" toml:"projects"`
}

type todoList struct {
	Todos []models.Todo `json:"todos" yaml:"todos" toml:"todos"`
}

// FileDataStore implements DataStore on top of three collection files in a
// data directory. Writes are temp-file-then-rename so a crash mid-write can
// never truncate a collection, and an advisory flock serializes access
// between processes.
type FileDataStore struct {
	fs     afero.Fs
	dir    string
	format string
	flk    *flock.Flock
	logger *slog.Logger
}

// NewFileDataStore creates a store over the given filesystem. Pass
// afero.NewOsFs() in production; tests may use an in-memory filesystem, in
// which case file locking is skipped (an advisory lock is only meaningful on
// a real filesystem).
func NewFileDataStore(fsys afero.Fs, logger *slog.Logger) *FileDataStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileDataStore{fs: fsys, logger: logger}
}

// Initialize configures the store from a config map with optional 'dataDir'
// and 'dataFileFormat' keys, creates the directory, and sets up the lock.
func (s *FileDataStore) Initialize(config map[string]string) error {
	s.dir = config[dataDirKey]
	if s.dir == "" {
		s.dir = defaultDataDir
	}

	if val := config[dataFileFormatKey]; val != "" {
		switch strings.ToLower(val) {
		case formatJSON, formatYAML, formatTOML:
			s.format = strings.ToLower(val)
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s (supported: json, yaml, toml)", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dir, err)
	}

	if _, ok := s.fs.(*afero.OsFs); ok {
		s.flk = flock.New(filepath.Join(s.dir, lockFileName))
	}
	return nil
}

func (s *FileDataStore) lock() error {
	if s.flk == nil {
		return nil
	}
	return s.flk.Lock()
}

func (s *FileDataStore) unlock() {
	if s.flk != nil {
		_ = s.flk.Unlock()
	}
}

func (s *FileDataStore) path(name string) string {
	ext := s.format
	if ext == "" {
		ext = defaultDataFormat
	}
	return filepath.Join(s.dir, name+"."+ext)
}

// LoadProjects returns the active projects collection.
func (s *FileDataStore) LoadProjects() ([]models.Project, error) {
	return s.loadProjectFile(projectsFile)
}

// SaveProjects replaces the active projects collection.
func (s *FileDataStore) SaveProjects(projects []models.Project) error {
	return s.saveProjectFile(projectsFile, projects)
}

// LoadArchivedProjects returns the finished-projects archive collection.
func (s *FileDataStore) LoadArchivedProjects() ([]models.Project, error) {
	return s.loadProjectFile(archiveFile)
}

// SaveArchivedProjects replaces the finished-projects archive collection.
func (s *FileDataStore) SaveArchivedProjects(projects []models.Project) error {
	return s.saveProjectFile(archiveFile, projects)
}

// LoadTodos returns the todos collection.
func (s *FileDataStore) LoadTodos() ([]models.Todo, error) {
	if err := s.lock(); err != nil {
		return nil, fmt.Errorf("could not lock data directory: %w", err)
	}
	defer s.unlock()

	data, ok, err := s.readFile(s.path(todosFile))
	if err != nil || !ok {
		return []models.Todo{}, err
	}

	var todos []models.Todo
	if s.format == formatJSON {
		err = json.Unmarshal(data, &todos)
	} else {
		var doc todoList
		err = s.unmarshalDoc(data, &doc)
		todos = doc.Todos
	}
	if err != nil {
		// A malformed collection reads as empty; the next save rewrites it.
		s.logger.Warn("malformed todos collection, treating as empty", "path", s.path(todosFile), "error", err)
		return []models.Todo{}, nil
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// SaveTodos replaces the todos collection.
func (s *FileDataStore) SaveTodos(todos []models.Todo) error {
	if err := s.lock(); err != nil {
		return fmt.Errorf("could not lock data directory: %w", err)
	}
	defer s.unlock()

	var (
		data []byte
		err  error
	)
	if s.format == formatJSON {
		if todos == nil {
			todos = []models.Todo{}
		}
		data, err = json.MarshalIndent(todos, "", "  ")
	} else {
		data, err = s.marshalDoc(todoList{Todos: todos})
	}
	if err != nil {
		return fmt.Errorf("failed to marshal todos: %w", err)
	}
	return s.writeFileAtomic(s.path(todosFile), data)
}

func (s *FileDataStore) loadProjectFile(name string) ([]models.Project, error) {
	if err := s.lock(); err != nil {
		return nil, fmt.Errorf("could not lock data directory: %w", err)
	}
	defer s.unlock()

	data, ok, err := s.readFile(s.path(name))
	if err != nil || !ok {
		return []models.Project{}, err
	}

	var projects []models.Project
	if s.format == formatJSON {
		err = json.Unmarshal(data, &projects)
	} else {
		var doc projectList
		err = s.unmarshalDoc(data, &doc)
		projects = doc.Projects
	}
	if err != nil {
		s.logger.Warn("malformed projects collection, treating as empty", "path", s.path(name), "error", err)
		return []models.Project{}, nil
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

func (s *FileDataStore) saveProjectFile(name string, projects []models.Project) error {
	if err := s.lock(); err != nil {
		return fmt.Errorf("could not lock data directory: %w", err)
	}
	defer s.unlock()

	var (
		data []byte
		err  error
	)
	if s.format == formatJSON {
		if projects == nil {
			projects = []models.Project{}
		}
		data, err = json.MarshalIndent(projects, "", "  ")
	} else {
		data, err = s.marshalDoc(projectList{Projects: projects})
	}
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return s.writeFileAtomic(s.path(name), data)
}

// readFile returns the file contents, with ok=false for a missing or empty
// file. Missing collections are not an error.
func (s *FileDataStore) readFile(path string) ([]byte, bool, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, so readers never observe a half-written collection.
func (s *FileDataStore) writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (s *FileDataStore) marshalDoc(v any) ([]byte, error) {
	switch s.format {
	case formatYAML:
		return yaml.Marshal(v)
	case formatTOML:
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported data format: %s", s.format)
	}
}

func (s *FileDataStore) unmarshalDoc(data []byte, v any) error {
	switch s.format {
	case formatYAML:
		return yaml.Unmarshal(data, v)
	case formatTOML:
		return toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported data format: %s", s.format)
	}
}

// Close releases the advisory lock if held.
func (s *FileDataStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
