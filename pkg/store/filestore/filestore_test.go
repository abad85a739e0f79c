package filestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcoderx/talon/pkg/domain"
	"github.com/blackcoderx/talon/pkg/store"
)

func TestProjectRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	p := store.Project{Name: "Demo", MainURL: "https://api.example.com"}
	require.NoError(t, s.UpsertProject(p))

	got, err := s.GetProject("Demo")
	require.NoError(t, err)
	assert.Equal(t, p.MainURL, got.MainURL)
}

func TestActionRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	action := store.Action{
		Name:        "get-user",
		ProjectName: "demo",
		Chain: []domain.DomainAction{
			{Verb: "GET", URL: "/users/{id}"},
		},
	}
	require.NoError(t, s.UpsertAction(action))

	got, err := s.GetAction("get-user", "demo")
	require.NoError(t, err)
	assert.Equal(t, "GET", got.Chain[0].Verb)

	all, err := s.GetActions("demo")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestContextAtomicReplace(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.InsertConf(map[string]string{"ID": "1"}))
	ctx, err := s.GetConf()
	require.NoError(t, err)
	assert.Equal(t, "1", ctx["ID"])

	require.NoError(t, s.InsertConf(map[string]string{"ID": "2"}))
	ctx, err = s.GetConf()
	require.NoError(t, err)
	assert.Equal(t, "2", ctx["ID"])
	assert.Len(t, ctx, 1)
}

func TestHistoryOrderedMostRecentFirst(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.InsertHistory(store.HistoryEntry{ActionName: "a", CreatedAt: base}))
	require.NoError(t, s.InsertHistory(store.HistoryEntry{ActionName: "b", CreatedAt: base.Add(time.Second)}))

	entries, err := s.GetHistory(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].ActionName)
}

func TestTestSuiteUpsertInstance(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.UpsertTestSuiteInstance("smoke", store.TestSuiteInstance{Name: "ping"}))
	require.NoError(t, s.UpsertTestSuiteInstance("smoke", store.TestSuiteInstance{Name: "pong"}))

	suite, err := s.GetTestSuite("smoke")
	require.NoError(t, err)
	assert.Len(t, suite.Instances, 2)

	inst, err := s.GetTestSuiteInstance("smoke", "ping")
	require.NoError(t, err)
	assert.Equal(t, "ping", inst.Name)
}
