// Package store defines the persistence capability the engine requires,
// per spec.md §6's External Interfaces list. Grounded on
// original_source/src/db/db_trait.rs's Db trait, translated field-for-field
// into a Go interface.
package store

import (
	"time"

	"github.com/blackcoderx/talon/pkg/domain"
)

// Project is the top-level namespace an Action belongs to.
type Project struct {
	Name    string
	MainURL string
	Conf    map[string]string
}

// Action is a named, ordered, non-empty chain of DomainActions.
type Action struct {
	Name            string
	ProjectName     string
	Chain           []domain.DomainAction
	BodyExample     string
	ResponseExample string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HistoryEntry is one append-only record of a dispatched request.
type HistoryEntry struct {
	ActionName string
	URL        string
	Body       string
	Headers    map[string]string
	Response   string
	StatusCode int
	DurationMs int64
	CreatedAt  time.Time
}

// TestSuiteInstance embeds the chain and expectations for one test-suite
// member.
type TestSuiteInstance struct {
	Name  string
	Chain []domain.DomainAction
}

// TestSuite is a named ordered list of instances.
type TestSuite struct {
	Name      string
	Instances []TestSuiteInstance
}

// Store is the persistence capability the core depends on. Two conforming
// implementations are contemplated by spec.md (a SQL/embedded-file store
// and a directory-of-files store); pkg/store/filestore provides the
// latter.
type Store interface {
	GetConf() (map[string]string, error)
	InsertConf(map[string]string) error

	InsertHistory(HistoryEntry) error
	GetHistory(limit int) ([]HistoryEntry, error)

	UpsertAction(Action) error
	GetAction(name, project string) (Action, error)
	GetActions(project string) ([]Action, error)
	RemoveAction(name, project string) error

	GetProject(name string) (Project, error)
	UpsertProject(Project) error
	GetProjects() ([]Project, error)

	UpsertTestSuite(TestSuite) error
	UpsertTestSuiteInstance(suiteName string, instance TestSuiteInstance) error
	GetTestSuiteInstance(suiteName, instanceName string) (TestSuiteInstance, error)
	GetTestSuite(name string) (TestSuite, error)
}
