// Package filestore is the directory-of-YAML-files Store implementation,
// the "directory-of-files store" spec.md §6 names as one of two
// conforming implementations. Grounded on
// pkg/core/tools/persistence/request_tool.go (save/load/list idiom:
// slugified filenames, gopkg.in/yaml.v3 marshal, stat-after-write
// validation) and pkg/core/init.go's folder layout
// (requests/, environments/, flows/ under a dotfolder root — here
// ".talon/").
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/blackcoderx/talon/pkg/store"
	"github.com/blackcoderx/talon/pkg/talonerr"
)

// Store persists projects, actions, history, test suites, and the shared
// context as YAML files under a root directory (".talon/" by convention).
// Reads are safe for concurrent use; writes are serialized by mu, matching
// spec.md §5's "writes from the core are serialized" requirement.
type Store struct {
	mu   sync.Mutex
	root string
}

const (
	projectsDir   = "projects"
	actionsDir    = "actions"
	historyDir    = "history"
	testSuitesDir = "test-suites"
	contextFile   = "context.yaml"
)

// New opens (creating if necessary) a filestore rooted at root.
func New(root string) (*Store, error) {
	s := &Store{root: root}
	for _, dir := range []string{projectsDir, actionsDir, historyDir, testSuitesDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, talonerr.Wrap(talonerr.StoreError, err)
		}
	}
	return s, nil
}

func slug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return talonerr.Wrap(talonerr.StoreError, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return talonerr.Wrap(talonerr.StoreError, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return talonerr.Newf(talonerr.StoreError, "filestore: file not found after write at %s: %v", path, err)
	}
	if info.Size() == 0 {
		return talonerr.Newf(talonerr.StoreError, "filestore: file at %s is empty after write", path)
	}
	return nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return talonerr.Wrap(talonerr.StoreError, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return talonerr.Wrap(talonerr.StoreError, err)
	}
	return nil
}

// --- context ---

func (s *Store) GetConf() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.root, contextFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	ctx := map[string]string{}
	if err := readYAML(path, &ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// InsertConf atomically replaces the whole context with ctx, matching
// spec.md §4.5's "write the whole context to the store atomically" rule:
// write to a temp file then rename over the target.
func (s *Store) InsertConf(ctx map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.root, contextFile)
	tmp := path + ".tmp"
	if err := writeYAML(tmp, ctx); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return talonerr.Wrap(talonerr.StoreError, err)
	}
	return nil
}

// --- history ---

func (s *Store) InsertHistory(entry store.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filename := fmt.Sprintf("%s-%s.yaml", entry.CreatedAt.Format("20060102T150405.000000000"), slug(entry.ActionName))
	path := filepath.Join(s.root, historyDir, filename)
	return writeYAML(path, entry)
}

func (s *Store) GetHistory(limit int) ([]store.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(filepath.Join(s.root, historyDir))
	if err != nil {
		return nil, talonerr.Wrap(talonerr.StoreError, err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if !f.IsDir() {
			names = append(names, f.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if limit > 0 && limit < len(names) {
		names = names[:limit]
	}

	out := make([]store.HistoryEntry, 0, len(names))
	for _, name := range names {
		var entry store.HistoryEntry
		if err := readYAML(filepath.Join(s.root, historyDir, name), &entry); err != nil {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// --- actions ---

func actionPath(root, project, name string) string {
	return filepath.Join(root, actionsDir, slug(project), slug(name)+".yaml")
}

func (s *Store) UpsertAction(action store.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := actionPath(s.root, action.ProjectName, action.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return talonerr.Wrap(talonerr.StoreError, err)
	}
	now := action.UpdatedAt
	if action.CreatedAt.IsZero() {
		action.CreatedAt = now
	}
	action.UpdatedAt = now
	return writeYAML(path, action)
}

func (s *Store) GetAction(name, project string) (store.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var action store.Action
	if err := readYAML(actionPath(s.root, project, name), &action); err != nil {
		return store.Action{}, err
	}
	return action, nil
}

func (s *Store) GetActions(project string) ([]store.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.root, actionsDir, slug(project))
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, talonerr.Wrap(talonerr.StoreError, err)
	}
	var out []store.Action
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		var action store.Action
		if err := readYAML(filepath.Join(dir, f.Name()), &action); err != nil {
			continue
		}
		out = append(out, action)
	}
	return out, nil
}

func (s *Store) RemoveAction(name, project string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := actionPath(s.root, project, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return talonerr.Wrap(talonerr.StoreError, err)
	}
	return nil
}

// --- projects ---

func projectPath(root, name string) string {
	return filepath.Join(root, projectsDir, slug(name)+".yaml")
}

func (s *Store) GetProject(name string) (store.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p store.Project
	if err := readYAML(projectPath(s.root, name), &p); err != nil {
		return store.Project{}, err
	}
	return p, nil
}

func (s *Store) UpsertProject(p store.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeYAML(projectPath(s.root, p.Name), p)
}

func (s *Store) GetProjects() ([]store.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(filepath.Join(s.root, projectsDir))
	if err != nil {
		return nil, talonerr.Wrap(talonerr.StoreError, err)
	}
	var out []store.Project
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		var p store.Project
		if err := readYAML(filepath.Join(s.root, projectsDir, f.Name()), &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// --- test suites ---

func suitePath(root, name string) string {
	return filepath.Join(root, testSuitesDir, slug(name)+".yaml")
}

func (s *Store) UpsertTestSuite(suite store.TestSuite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeYAML(suitePath(s.root, suite.Name), suite)
}

func (s *Store) UpsertTestSuiteInstance(suiteName string, instance store.TestSuiteInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := suitePath(s.root, suiteName)
	var suite store.TestSuite
	if err := readYAML(path, &suite); err != nil {
		suite = store.TestSuite{Name: suiteName}
	}
	replaced := false
	for i, existing := range suite.Instances {
		if existing.Name == instance.Name {
			suite.Instances[i] = instance
			replaced = true
			break
		}
	}
	if !replaced {
		suite.Instances = append(suite.Instances, instance)
	}
	return writeYAML(path, suite)
}

func (s *Store) GetTestSuiteInstance(suiteName, instanceName string) (store.TestSuiteInstance, error) {
	suite, err := s.GetTestSuite(suiteName)
	if err != nil {
		return store.TestSuiteInstance{}, err
	}
	for _, instance := range suite.Instances {
		if instance.Name == instanceName {
			return instance, nil
		}
	}
	return store.TestSuiteInstance{}, talonerr.Newf(talonerr.StoreError, "filestore: instance %q not found in suite %q", instanceName, suiteName)
}

func (s *Store) GetTestSuite(name string) (store.TestSuite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var suite store.TestSuite
	if err := readYAML(suitePath(s.root, name), &suite); err != nil {
		return store.TestSuite{}, err
	}
	return suite, nil
}

var _ store.Store = (*Store)(nil)
